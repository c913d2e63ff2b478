package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/persistence"
)

type seedExpo struct {
	Name     string
	Region   string
	Industry string
	Date     string
}

type seedCompany struct {
	Expo     string
	Name     string
	HQ       string
	Revenue  float64
	Booth    string
	Industry string
	Contacts []persistence.Contact
}

type seedUser struct {
	Email    string
	Password string
	Name     string
	Role     string
}

var seedExpos = []seedExpo{
	{Name: "IFA Berlin 2026", Region: "Europe", Industry: "Consumer Electronics", Date: "2026-09-04"},
	{Name: "CES Las Vegas 2026", Region: "North America", Industry: "Technology", Date: "2026-01-06"},
	{Name: "MWC Barcelona 2026", Region: "Europe", Industry: "Telecoms & Mobile", Date: "2026-02-23"},
	{Name: "Hannover Messe 2026", Region: "Europe", Industry: "Industrial Automation", Date: "2026-04-20"},
	{Name: "GITEX Dubai 2026", Region: "Middle East", Industry: "Technology", Date: "2026-10-14"},
}

var seedCompanies = []seedCompany{
	{Expo: "IFA Berlin 2026", Name: "Siemens AG", HQ: "Munich, Germany", Revenue: 72000, Booth: "Hall 1 A-101", Industry: "Electronics", Contacts: []persistence.Contact{{Name: "Klaus Weber", Role: "VP Sales EMEA"}, {Name: "Anna Fischer", Role: "Head of Partnerships"}}},
	{Expo: "IFA Berlin 2026", Name: "Bosch GmbH", HQ: "Stuttgart, Germany", Revenue: 88000, Booth: "Hall 2 B-205", Industry: "Smart Home", Contacts: []persistence.Contact{{Name: "Thomas Mueller", Role: "Director IoT"}, {Name: "Lisa Braun", Role: "Sales Manager"}}},
	{Expo: "IFA Berlin 2026", Name: "Philips NV", HQ: "Amsterdam, Netherlands", Revenue: 18500, Booth: "Hall 3 C-110", Industry: "Health Tech", Contacts: []persistence.Contact{{Name: "Jan van Berg", Role: "CTO"}, {Name: "Sophie Laurent", Role: "BD Manager"}}},
	{Expo: "IFA Berlin 2026", Name: "Samsung Electronics", HQ: "Seoul, South Korea", Revenue: 245000, Booth: "Hall 1 A-300", Industry: "Consumer Electronics", Contacts: []persistence.Contact{{Name: "Min-jun Park", Role: "VP European Ops"}}},
	{Expo: "IFA Berlin 2026", Name: "LG Electronics", HQ: "Seoul, South Korea", Revenue: 63000, Booth: "Hall 2 D-400", Industry: "Home Appliances", Contacts: []persistence.Contact{{Name: "Hyun-woo Kim", Role: "Director Strategy"}}},
	{Expo: "IFA Berlin 2026", Name: "Miele & Cie", HQ: "Guetersloh, Germany", Revenue: 5200, Booth: "Hall 4 E-101", Industry: "Home Appliances", Contacts: []persistence.Contact{{Name: "Markus Schneider", Role: "Head of Digital"}}},
	{Expo: "CES Las Vegas 2026", Name: "NVIDIA Corporation", HQ: "Santa Clara, USA", Revenue: 60900, Booth: "Central Hall 1001", Industry: "AI & Semiconductors", Contacts: []persistence.Contact{{Name: "Sarah Chen", Role: "VP Enterprise"}, {Name: "David Park", Role: "BD Lead"}}},
	{Expo: "CES Las Vegas 2026", Name: "Tesla Inc", HQ: "Austin, USA", Revenue: 96800, Booth: "West Hall 2200", Industry: "Automotive & Energy", Contacts: []persistence.Contact{{Name: "James Rodriguez", Role: "VP Partnerships"}}},
	{Expo: "CES Las Vegas 2026", Name: "Apple Inc", HQ: "Cupertino, USA", Revenue: 383000, Booth: "North Hall 3000", Industry: "Consumer Electronics", Contacts: []persistence.Contact{{Name: "Emily Watson", Role: "Enterprise Sales Dir"}}},
	{Expo: "CES Las Vegas 2026", Name: "Qualcomm", HQ: "San Diego, USA", Revenue: 38500, Booth: "Central Hall 1500", Industry: "Semiconductors", Contacts: []persistence.Contact{{Name: "Michael Torres", Role: "VP IoT Solutions"}}},
	{Expo: "CES Las Vegas 2026", Name: "Meta Platforms", HQ: "Menlo Park, USA", Revenue: 134900, Booth: "West Hall 2500", Industry: "XR & Metaverse", Contacts: []persistence.Contact{{Name: "Rachel Kim", Role: "Director Partnerships"}}},
	{Expo: "MWC Barcelona 2026", Name: "Ericsson AB", HQ: "Stockholm, Sweden", Revenue: 27200, Booth: "Fira Hall 2 2A10", Industry: "Telecoms Infrastructure", Contacts: []persistence.Contact{{Name: "Erik Lindberg", Role: "SVP Networks"}}},
	{Expo: "MWC Barcelona 2026", Name: "Nokia Corporation", HQ: "Espoo, Finland", Revenue: 25400, Booth: "Fira Hall 3 3B20", Industry: "Network Equipment", Contacts: []persistence.Contact{{Name: "Mikko Virtanen", Role: "VP Cloud"}}},
	{Expo: "MWC Barcelona 2026", Name: "Huawei Technologies", HQ: "Shenzhen, China", Revenue: 99200, Booth: "Fira Hall 1 1C30", Industry: "Telecoms & ICT", Contacts: []persistence.Contact{{Name: "Wei Zhang", Role: "Director Enterprise EU"}}},
	{Expo: "MWC Barcelona 2026", Name: "Deutsche Telekom", HQ: "Bonn, Germany", Revenue: 114200, Booth: "Fira Hall 4 4D10", Industry: "Telecoms Operator", Contacts: []persistence.Contact{{Name: "Hans Richter", Role: "Head of Innovation"}}},
	{Expo: "Hannover Messe 2026", Name: "ABB Ltd", HQ: "Zurich, Switzerland", Revenue: 32200, Booth: "Hall 11 A01", Industry: "Industrial Automation", Contacts: []persistence.Contact{{Name: "Stefan Keller", Role: "VP Robotics"}}},
	{Expo: "Hannover Messe 2026", Name: "KUKA AG", HQ: "Augsburg, Germany", Revenue: 3900, Booth: "Hall 11 B05", Industry: "Robotics", Contacts: []persistence.Contact{{Name: "Martin Bauer", Role: "CTO"}}},
	{Expo: "Hannover Messe 2026", Name: "SAP SE", HQ: "Walldorf, Germany", Revenue: 32500, Booth: "Hall 8 C10", Industry: "Enterprise Software", Contacts: []persistence.Contact{{Name: "Julia Wagner", Role: "VP Manufacturing"}}},
	{Expo: "GITEX Dubai 2026", Name: "Emirates NBD", HQ: "Dubai, UAE", Revenue: 8400, Booth: "Hall A A-200", Industry: "FinTech & Banking", Contacts: []persistence.Contact{{Name: "Ahmed Al-Rashid", Role: "Head of Digital"}}},
	{Expo: "GITEX Dubai 2026", Name: "Etisalat (e&)", HQ: "Abu Dhabi, UAE", Revenue: 14300, Booth: "Hall B B-100", Industry: "Telecoms", Contacts: []persistence.Contact{{Name: "Omar Hassan", Role: "VP Enterprise"}}},
}

var seedUsers = []seedUser{
	{Email: "admin@expointel.com", Password: "admin123", Name: "Admin User", Role: "admin"},
	{Email: "demo@expointel.com", Password: "demo123", Name: "Sarah Mitchell", Role: "user"},
}

// SeedService loads demo directory data and accounts into an empty store.
type SeedService struct {
	expos       persistence.ExpoRepository
	companies   persistence.CompanyRepository
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSeedService constructs a SeedService with the provided dependencies.
func NewSeedService(expos persistence.ExpoRepository, companies persistence.CompanyRepository, users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SeedService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SeedService{
		expos:       expos,
		companies:   companies,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Seed inserts the demo expos, companies and accounts. Any existing expo
// makes the whole call a no-op, so repeated seeding never duplicates data.
// IDs are freshly generated on every successful run.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	logger := serviceLogger(ctx, s.logger, "SeedService", "Seed")

	count, err := s.expos.CountExpos(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to count expos: %w", err)
	}
	if count > 0 {
		logger.Info("seed skipped, data already present")
		return SeedResult{AlreadySeeded: true}, nil
	}

	now := s.now().UTC()

	expoIDs := make(map[string]string, len(seedExpos))
	for _, entry := range seedExpos {
		expo := persistence.Expo{
			ID:        s.idGenerator(),
			Name:      entry.Name,
			Region:    entry.Region,
			Industry:  entry.Industry,
			Date:      entry.Date,
			CreatedAt: now,
		}
		if err := s.expos.CreateExpo(ctx, expo); err != nil {
			return SeedResult{}, fmt.Errorf("failed to seed expo %q: %w", entry.Name, err)
		}
		expoIDs[entry.Name] = expo.ID
	}

	companies := make([]persistence.Company, 0, len(seedCompanies))
	for _, entry := range seedCompanies {
		expoID, ok := expoIDs[entry.Expo]
		if !ok {
			continue
		}
		companies = append(companies, persistence.Company{
			ID:             s.idGenerator(),
			ExpoID:         expoID,
			Name:           entry.Name,
			HQ:             entry.HQ,
			Revenue:        entry.Revenue,
			Booth:          entry.Booth,
			Industry:       entry.Industry,
			ShortlistStage: "none",
			Contacts:       entry.Contacts,
			CreatedAt:      now,
		})
	}
	if err := s.companies.CreateCompanies(ctx, companies); err != nil {
		return SeedResult{}, fmt.Errorf("failed to seed companies: %w", err)
	}

	for _, entry := range seedUsers {
		hash, err := CreatePasswordHash(entry.Password, DefaultArgon2idParams)
		if err != nil {
			return SeedResult{}, fmt.Errorf("failed to hash seed password: %w", err)
		}
		user := persistence.User{
			ID:           s.idGenerator(),
			Email:        entry.Email,
			Name:         entry.Name,
			PasswordHash: hash,
			Role:         entry.Role,
			CreatedAt:    now,
		}
		if err := s.users.CreateUser(ctx, user); err != nil && !errors.Is(err, persistence.ErrDuplicate) {
			return SeedResult{}, fmt.Errorf("failed to seed user %q: %w", entry.Email, err)
		}
	}

	logger.Info("seed complete", "expos", len(seedExpos), "companies", len(companies))
	return SeedResult{Expos: len(seedExpos), Companies: len(companies)}, nil
}
