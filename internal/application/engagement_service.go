package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/persistence"
)

const engagementListLimit = 500

// EngagementService manages the per-user shortlist, network and expo day
// records of variant A.
type EngagementService struct {
	shortlists  persistence.ShortlistRepository
	networks    persistence.NetworkRepository
	expoDays    persistence.ExpoDayRepository
	companies   persistence.CompanyRepository
	expos       persistence.ExpoRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEngagementService constructs an EngagementService with the provided dependencies.
func NewEngagementService(
	shortlists persistence.ShortlistRepository,
	networks persistence.NetworkRepository,
	expoDays persistence.ExpoDayRepository,
	companies persistence.CompanyRepository,
	expos persistence.ExpoRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *EngagementService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EngagementService{
		shortlists:  shortlists,
		networks:    networks,
		expoDays:    expoDays,
		companies:   companies,
		expos:       expos,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EngagementService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EngagementService", operation, attrs...)
}

// CreateShortlist records interest in a company. The operation is idempotent
// per (user, company, expo): repeats return the existing record's ID. The
// first shortlist touch advances the company's stage from none to prospecting
// exactly once.
func (s *EngagementService) CreateShortlist(ctx context.Context, principal Principal, params CreateShortlistParams) (ShortlistResult, error) {
	logger := s.loggerWith(ctx, "CreateShortlist", "company_id", params.CompanyID)

	vErr := &ValidationError{}
	if params.CompanyID == "" {
		vErr.add("company_id", "company_id is required")
	}
	if params.ExpoID == "" {
		vErr.add("expo_id", "expo_id is required")
	}
	if vErr.HasErrors() {
		return ShortlistResult{}, vErr
	}

	shortlist := persistence.Shortlist{
		ID:        s.idGenerator(),
		UserID:    principal.UserID,
		CompanyID: params.CompanyID,
		ExpoID:    params.ExpoID,
		Notes:     params.Notes,
		CreatedAt: s.now().UTC(),
	}

	if err := s.shortlists.CreateShortlist(ctx, shortlist); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			existing, findErr := s.shortlists.FindShortlist(ctx, principal.UserID, params.CompanyID, params.ExpoID)
			if findErr != nil {
				return ShortlistResult{}, fmt.Errorf("failed to load existing shortlist: %w", findErr)
			}
			logger.Info("shortlist already exists", "shortlist_id", existing.ID)
			return ShortlistResult{ID: existing.ID, AlreadyExists: true}, nil
		}
		logger.Error("failed to store shortlist", "error", err)
		return ShortlistResult{}, fmt.Errorf("failed to create shortlist: %w", err)
	}

	if err := s.companies.AdvanceStageFromNone(ctx, params.CompanyID); err != nil {
		logger.Error("failed to advance company stage", "error", err)
		return ShortlistResult{}, fmt.Errorf("failed to advance company stage: %w", err)
	}

	logger.Info("shortlist created", "shortlist_id", shortlist.ID)
	return ShortlistResult{ID: shortlist.ID, Shortlist: shortlist}, nil
}

// ListShortlists returns the caller's shortlist records joined with their
// company and expo documents. A stage filter applies to the joined company.
func (s *EngagementService) ListShortlists(ctx context.Context, principal Principal, expoID, stage string) ([]ShortlistView, error) {
	shortlists, err := s.shortlists.ListShortlists(ctx, principal.UserID, expoID, engagementListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlists: %w", err)
	}

	views := make([]ShortlistView, 0, len(shortlists))
	for _, shortlist := range shortlists {
		view := ShortlistView{Shortlist: shortlist}
		view.Company = s.lookupCompany(ctx, shortlist.CompanyID)
		view.Expo = s.lookupExpo(ctx, shortlist.ExpoID)
		if stage != "" && (view.Company == nil || view.Company.ShortlistStage != stage) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateShortlistNotes replaces the notes on an owned record. Non-owned and
// missing records are silent no-ops.
func (s *EngagementService) UpdateShortlistNotes(ctx context.Context, principal Principal, id, notes string) error {
	if err := s.shortlists.UpdateShortlistNotes(ctx, id, principal.UserID, notes); err != nil {
		return fmt.Errorf("failed to update shortlist: %w", err)
	}
	return nil
}

// DeleteShortlist removes an owned record. Non-owned and missing records are
// silent no-ops.
func (s *EngagementService) DeleteShortlist(ctx context.Context, principal Principal, id string) error {
	if err := s.shortlists.DeleteShortlist(ctx, id, principal.UserID); err != nil {
		return fmt.Errorf("failed to delete shortlist: %w", err)
	}
	return nil
}

// CreateNetwork records an outreach attempt toward a company contact.
func (s *EngagementService) CreateNetwork(ctx context.Context, principal Principal, params CreateNetworkParams) (persistence.Network, error) {
	logger := s.loggerWith(ctx, "CreateNetwork", "company_id", params.CompanyID)

	vErr := &ValidationError{}
	if params.CompanyID == "" {
		vErr.add("company_id", "company_id is required")
	}
	if params.ExpoID == "" {
		vErr.add("expo_id", "expo_id is required")
	}
	if vErr.HasErrors() {
		return persistence.Network{}, vErr
	}

	status := params.Status
	if status == "" {
		status = "request_sent"
	}
	meetingType := params.MeetingType
	if meetingType == "" {
		meetingType = "booth_visit"
	}

	network := persistence.Network{
		ID:            s.idGenerator(),
		UserID:        principal.UserID,
		CompanyID:     params.CompanyID,
		ExpoID:        params.ExpoID,
		ContactName:   params.ContactName,
		ContactRole:   params.ContactRole,
		Status:        status,
		MeetingType:   meetingType,
		ScheduledTime: params.ScheduledTime,
		Notes:         params.Notes,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.networks.CreateNetwork(ctx, network); err != nil {
		logger.Error("failed to store network", "error", err)
		return persistence.Network{}, fmt.Errorf("failed to create network: %w", err)
	}

	logger.Info("network created", "network_id", network.ID)
	return network, nil
}

// ListNetworks returns the caller's outreach records joined with their company
// and expo documents.
func (s *EngagementService) ListNetworks(ctx context.Context, principal Principal, expoID, status string) ([]NetworkView, error) {
	networks, err := s.networks.ListNetworks(ctx, principal.UserID, expoID, status, engagementListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}

	views := make([]NetworkView, 0, len(networks))
	for _, network := range networks {
		views = append(views, NetworkView{
			Network: network,
			Company: s.lookupCompany(ctx, network.CompanyID),
			Expo:    s.lookupExpo(ctx, network.ExpoID),
		})
	}
	return views, nil
}

// UpdateNetwork applies a partial update to an owned record. Statuses are
// free-form labels; no transition graph is enforced.
func (s *EngagementService) UpdateNetwork(ctx context.Context, principal Principal, id string, patch persistence.NetworkPatch) error {
	if err := s.networks.UpdateNetwork(ctx, id, principal.UserID, patch); err != nil {
		return fmt.Errorf("failed to update network: %w", err)
	}
	return nil
}

// DeleteNetwork removes an owned record.
func (s *EngagementService) DeleteNetwork(ctx context.Context, principal Principal, id string) error {
	if err := s.networks.DeleteNetwork(ctx, id, principal.UserID); err != nil {
		return fmt.Errorf("failed to delete network: %w", err)
	}
	return nil
}

// CreateExpoDay plans an on-site visit slot. New slots start as planned.
func (s *EngagementService) CreateExpoDay(ctx context.Context, principal Principal, params CreateExpoDayParams) (persistence.ExpoDay, error) {
	logger := s.loggerWith(ctx, "CreateExpoDay", "company_id", params.CompanyID)

	vErr := &ValidationError{}
	if params.CompanyID == "" {
		vErr.add("company_id", "company_id is required")
	}
	if params.ExpoID == "" {
		vErr.add("expo_id", "expo_id is required")
	}
	if vErr.HasErrors() {
		return persistence.ExpoDay{}, vErr
	}

	meetingType := params.MeetingType
	if meetingType == "" {
		meetingType = "booth_visit"
	}

	day := persistence.ExpoDay{
		ID:          s.idGenerator(),
		UserID:      principal.UserID,
		ExpoID:      params.ExpoID,
		CompanyID:   params.CompanyID,
		TimeSlot:    params.TimeSlot,
		Status:      "planned",
		MeetingType: meetingType,
		Booth:       params.Booth,
		Notes:       params.Notes,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.expoDays.CreateExpoDay(ctx, day); err != nil {
		logger.Error("failed to store expo day", "error", err)
		return persistence.ExpoDay{}, fmt.Errorf("failed to create expo day: %w", err)
	}

	logger.Info("expo day created", "expo_day_id", day.ID)
	return day, nil
}

// ListExpoDays returns the caller's visit slots ordered by time slot, joined
// with company and expo documents.
func (s *EngagementService) ListExpoDays(ctx context.Context, principal Principal, expoID string) ([]ExpoDayView, error) {
	days, err := s.expoDays.ListExpoDays(ctx, principal.UserID, expoID, engagementListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expo days: %w", err)
	}

	views := make([]ExpoDayView, 0, len(days))
	for _, day := range days {
		views = append(views, ExpoDayView{
			ExpoDay: day,
			Company: s.lookupCompany(ctx, day.CompanyID),
			Expo:    s.lookupExpo(ctx, day.ExpoID),
		})
	}
	return views, nil
}

// UpdateExpoDay applies a partial status/notes update to an owned slot.
func (s *EngagementService) UpdateExpoDay(ctx context.Context, principal Principal, id string, patch persistence.ExpoDayPatch) error {
	if err := s.expoDays.UpdateExpoDay(ctx, id, principal.UserID, patch); err != nil {
		return fmt.Errorf("failed to update expo day: %w", err)
	}
	return nil
}

// DeleteExpoDay removes an owned slot.
func (s *EngagementService) DeleteExpoDay(ctx context.Context, principal Principal, id string) error {
	if err := s.expoDays.DeleteExpoDay(ctx, id, principal.UserID); err != nil {
		return fmt.Errorf("failed to delete expo day: %w", err)
	}
	return nil
}

// lookupCompany loads a referenced company, tolerating dangling references.
func (s *EngagementService) lookupCompany(ctx context.Context, id string) *persistence.Company {
	company, err := s.companies.GetCompany(ctx, id)
	if err != nil {
		return nil
	}
	return &company
}

// lookupExpo loads a referenced expo, tolerating dangling references.
func (s *EngagementService) lookupExpo(ctx context.Context, id string) *persistence.Expo {
	expo, err := s.expos.GetExpo(ctx, id)
	if err != nil {
		return nil
	}
	return &expo
}
