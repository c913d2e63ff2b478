package application

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/expointel/internal/persistence"
)

// In-memory repository stubs shared by the service tests.

type stubUserRepository struct {
	mu    sync.Mutex
	users map[string]persistence.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: make(map[string]persistence.User)}
}

func (s *stubUserRepository) CreateUser(_ context.Context, user persistence.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return persistence.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepository) GetUser(_ context.Context, id string) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *stubUserRepository) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *stubUserRepository) ListUsers(_ context.Context, limit int) ([]persistence.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *stubUserRepository) UpdateUserRole(_ context.Context, id, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return persistence.ErrNotFound
	}
	user.Role = role
	s.users[id] = user
	return nil
}

type stubExpoRepository struct {
	mu    sync.Mutex
	expos map[string]persistence.Expo
	order []string
}

func newStubExpoRepository() *stubExpoRepository {
	return &stubExpoRepository{expos: make(map[string]persistence.Expo)}
}

func (s *stubExpoRepository) CreateExpo(_ context.Context, expo persistence.Expo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expos[expo.ID] = expo
	s.order = append(s.order, expo.ID)
	return nil
}

func (s *stubExpoRepository) GetExpo(_ context.Context, id string) (persistence.Expo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expo, ok := s.expos[id]
	if !ok {
		return persistence.Expo{}, persistence.ErrNotFound
	}
	return expo, nil
}

func (s *stubExpoRepository) ListExpos(_ context.Context, filter persistence.ExpoFilter, limit int) ([]persistence.Expo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expos := make([]persistence.Expo, 0)
	for _, id := range s.order {
		expo := s.expos[id]
		if filter.Region != "" && !containsFold(expo.Region, filter.Region) {
			continue
		}
		if filter.Industry != "" && !containsFold(expo.Industry, filter.Industry) {
			continue
		}
		expos = append(expos, expo)
		if len(expos) == limit {
			break
		}
	}
	return expos, nil
}

func (s *stubExpoRepository) CountExpos(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.expos)), nil
}

func (s *stubExpoRepository) ExpoFieldValues(context.Context) (persistence.ExpoFieldValues, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := persistence.ExpoFieldValues{Regions: []string{}, Industries: []string{}}
	seenRegion := make(map[string]bool)
	seenIndustry := make(map[string]bool)
	for _, expo := range s.expos {
		if expo.Region != "" && !seenRegion[expo.Region] {
			seenRegion[expo.Region] = true
			values.Regions = append(values.Regions, expo.Region)
		}
		if expo.Industry != "" && !seenIndustry[expo.Industry] {
			seenIndustry[expo.Industry] = true
			values.Industries = append(values.Industries, expo.Industry)
		}
	}
	sort.Strings(values.Regions)
	sort.Strings(values.Industries)
	return values, nil
}

type stubCompanyRepository struct {
	mu        sync.Mutex
	companies map[string]persistence.Company
	order     []string
}

func newStubCompanyRepository() *stubCompanyRepository {
	return &stubCompanyRepository{companies: make(map[string]persistence.Company)}
}

func (s *stubCompanyRepository) CreateCompany(_ context.Context, company persistence.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if company.ShortlistStage == "" {
		company.ShortlistStage = "none"
	}
	s.companies[company.ID] = company
	s.order = append(s.order, company.ID)
	return nil
}

func (s *stubCompanyRepository) CreateCompanies(ctx context.Context, companies []persistence.Company) error {
	for _, company := range companies {
		if err := s.CreateCompany(ctx, company); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubCompanyRepository) GetCompany(_ context.Context, id string) (persistence.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return persistence.Company{}, persistence.ErrNotFound
	}
	return company, nil
}

func (s *stubCompanyRepository) ListCompanies(_ context.Context, filter persistence.CompanyFilter, limit int) ([]persistence.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	companies := make([]persistence.Company, 0)
	for _, id := range s.order {
		company := s.companies[id]
		if filter.ExpoID != "" && company.ExpoID != filter.ExpoID {
			continue
		}
		if filter.Industry != "" && !containsFold(company.Industry, filter.Industry) {
			continue
		}
		if filter.HQ != "" && !containsFold(company.HQ, filter.HQ) {
			continue
		}
		if filter.Name != "" && !containsFold(company.Name, filter.Name) {
			continue
		}
		if filter.MinRevenue != nil && company.Revenue < *filter.MinRevenue {
			continue
		}
		if filter.MaxRevenue != nil && company.Revenue > *filter.MaxRevenue {
			continue
		}
		companies = append(companies, company)
		if len(companies) == limit {
			break
		}
	}
	return companies, nil
}

func (s *stubCompanyRepository) CountByExpo(_ context.Context, expoID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, company := range s.companies {
		if company.ExpoID == expoID {
			count++
		}
	}
	return count, nil
}

func (s *stubCompanyRepository) UpdateStage(_ context.Context, id, stage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return persistence.ErrNotFound
	}
	company.ShortlistStage = stage
	s.companies[id] = company
	return nil
}

func (s *stubCompanyRepository) AdvanceStageFromNone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	company, ok := s.companies[id]
	if !ok {
		return nil
	}
	if company.ShortlistStage == "" || company.ShortlistStage == "none" {
		company.ShortlistStage = "prospecting"
		s.companies[id] = company
	}
	return nil
}

func (s *stubCompanyRepository) CompanyOptions(_ context.Context, expoID string) (persistence.CompanyOptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	options := persistence.CompanyOptions{Industries: []string{}, HQs: []string{}}
	seenIndustry := make(map[string]bool)
	seenHQ := make(map[string]bool)
	for _, company := range s.companies {
		if expoID != "" && company.ExpoID != expoID {
			continue
		}
		if !options.Matched {
			options.Matched = true
			options.MinRevenue = company.Revenue
			options.MaxRevenue = company.Revenue
		}
		if company.Revenue < options.MinRevenue {
			options.MinRevenue = company.Revenue
		}
		if company.Revenue > options.MaxRevenue {
			options.MaxRevenue = company.Revenue
		}
		if company.Industry != "" && !seenIndustry[company.Industry] {
			seenIndustry[company.Industry] = true
			options.Industries = append(options.Industries, company.Industry)
		}
		if company.HQ != "" && !seenHQ[company.HQ] {
			seenHQ[company.HQ] = true
			options.HQs = append(options.HQs, company.HQ)
		}
	}
	sort.Strings(options.Industries)
	sort.Strings(options.HQs)
	return options, nil
}

type stubShortlistRepository struct {
	mu         sync.Mutex
	shortlists map[string]persistence.Shortlist
	order      []string
}

func newStubShortlistRepository() *stubShortlistRepository {
	return &stubShortlistRepository{shortlists: make(map[string]persistence.Shortlist)}
}

func (s *stubShortlistRepository) CreateShortlist(_ context.Context, shortlist persistence.Shortlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shortlists {
		if existing.UserID == shortlist.UserID && existing.CompanyID == shortlist.CompanyID && existing.ExpoID == shortlist.ExpoID {
			return persistence.ErrDuplicate
		}
	}
	s.shortlists[shortlist.ID] = shortlist
	s.order = append(s.order, shortlist.ID)
	return nil
}

func (s *stubShortlistRepository) FindShortlist(_ context.Context, userID, companyID, expoID string) (persistence.Shortlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shortlist := range s.shortlists {
		if shortlist.UserID == userID && shortlist.CompanyID == companyID && shortlist.ExpoID == expoID {
			return shortlist, nil
		}
	}
	return persistence.Shortlist{}, persistence.ErrNotFound
}

func (s *stubShortlistRepository) ListShortlists(_ context.Context, userID, expoID string, limit int) ([]persistence.Shortlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shortlists := make([]persistence.Shortlist, 0)
	for _, id := range s.order {
		shortlist := s.shortlists[id]
		if shortlist.UserID != userID {
			continue
		}
		if expoID != "" && shortlist.ExpoID != expoID {
			continue
		}
		shortlists = append(shortlists, shortlist)
		if len(shortlists) == limit {
			break
		}
	}
	return shortlists, nil
}

func (s *stubShortlistRepository) UpdateShortlistNotes(_ context.Context, id, userID, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shortlist, ok := s.shortlists[id]
	if !ok || shortlist.UserID != userID {
		return nil
	}
	shortlist.Notes = notes
	s.shortlists[id] = shortlist
	return nil
}

func (s *stubShortlistRepository) DeleteShortlist(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shortlist, ok := s.shortlists[id]
	if !ok || shortlist.UserID != userID {
		return nil
	}
	delete(s.shortlists, id)
	return nil
}

type stubNetworkRepository struct {
	mu       sync.Mutex
	networks map[string]persistence.Network
	order    []string
}

func newStubNetworkRepository() *stubNetworkRepository {
	return &stubNetworkRepository{networks: make(map[string]persistence.Network)}
}

func (s *stubNetworkRepository) CreateNetwork(_ context.Context, network persistence.Network) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[network.ID] = network
	s.order = append(s.order, network.ID)
	return nil
}

func (s *stubNetworkRepository) ListNetworks(_ context.Context, userID, expoID, status string, limit int) ([]persistence.Network, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	networks := make([]persistence.Network, 0)
	for _, id := range s.order {
		network := s.networks[id]
		if network.UserID != userID {
			continue
		}
		if expoID != "" && network.ExpoID != expoID {
			continue
		}
		if status != "" && network.Status != status {
			continue
		}
		networks = append(networks, network)
		if len(networks) == limit {
			break
		}
	}
	return networks, nil
}

func (s *stubNetworkRepository) UpdateNetwork(_ context.Context, id, userID string, patch persistence.NetworkPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	network, ok := s.networks[id]
	if !ok || network.UserID != userID {
		return nil
	}
	if patch.Status != nil {
		network.Status = *patch.Status
	}
	if patch.MeetingType != nil {
		network.MeetingType = *patch.MeetingType
	}
	if patch.ScheduledTime != nil {
		network.ScheduledTime = *patch.ScheduledTime
	}
	if patch.Notes != nil {
		network.Notes = *patch.Notes
	}
	if patch.ContactName != nil {
		network.ContactName = *patch.ContactName
	}
	if patch.ContactRole != nil {
		network.ContactRole = *patch.ContactRole
	}
	s.networks[id] = network
	return nil
}

func (s *stubNetworkRepository) DeleteNetwork(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	network, ok := s.networks[id]
	if !ok || network.UserID != userID {
		return nil
	}
	delete(s.networks, id)
	return nil
}

type stubExpoDayRepository struct {
	mu   sync.Mutex
	days map[string]persistence.ExpoDay
}

func newStubExpoDayRepository() *stubExpoDayRepository {
	return &stubExpoDayRepository{days: make(map[string]persistence.ExpoDay)}
}

func (s *stubExpoDayRepository) CreateExpoDay(_ context.Context, day persistence.ExpoDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[day.ID] = day
	return nil
}

func (s *stubExpoDayRepository) ListExpoDays(_ context.Context, userID, expoID string, limit int) ([]persistence.ExpoDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make([]persistence.ExpoDay, 0)
	for _, day := range s.days {
		if day.UserID != userID {
			continue
		}
		if expoID != "" && day.ExpoID != expoID {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].TimeSlot < days[j].TimeSlot })
	if len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

func (s *stubExpoDayRepository) UpdateExpoDay(_ context.Context, id, userID string, patch persistence.ExpoDayPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[id]
	if !ok || day.UserID != userID {
		return nil
	}
	if patch.Status != nil {
		day.Status = *patch.Status
	}
	if patch.Notes != nil {
		day.Notes = *patch.Notes
	}
	s.days[id] = day
	return nil
}

func (s *stubExpoDayRepository) DeleteExpoDay(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[id]
	if !ok || day.UserID != userID {
		return nil
	}
	delete(s.days, id)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
