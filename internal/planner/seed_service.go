package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

type seedExpo struct {
	Name     string
	Date     string
	Location string
}

type seedExhibitor struct {
	Expo      string
	Company   string
	HQ        string
	Revenue   float64
	Booth     string
	Industry  string
	Solutions []string
}

type seedAccount struct {
	Email    string
	Password string
	Name     string
	Role     string
}

var seedExpos = []seedExpo{
	{Name: "TechSummit Berlin 2026", Date: "2026-05-12", Location: "Messe Berlin, Germany"},
	{Name: "Future Retail Expo 2026", Date: "2026-09-22", Location: "ExCeL London, UK"},
}

var seedExhibitors = []seedExhibitor{
	{Expo: "TechSummit Berlin 2026", Company: "CloudNova GmbH", HQ: "Berlin, Germany", Revenue: 12000, Booth: "Hall 1 A-10", Industry: "Cloud Infrastructure", Solutions: []string{"IaaS", "Kubernetes"}},
	{Expo: "TechSummit Berlin 2026", Company: "DataForge AB", HQ: "Stockholm, Sweden", Revenue: 8400, Booth: "Hall 1 B-22", Industry: "Data Platforms", Solutions: []string{"Streaming", "Warehousing"}},
	{Expo: "TechSummit Berlin 2026", Company: "SecureLayer BV", HQ: "Amsterdam, Netherlands", Revenue: 5600, Booth: "Hall 2 C-05", Industry: "Cybersecurity", Solutions: []string{"Zero Trust", "SIEM"}},
	{Expo: "TechSummit Berlin 2026", Company: "RoboWorks SpA", HQ: "Milan, Italy", Revenue: 3100, Booth: "Hall 2 D-14", Industry: "Robotics", Solutions: []string{"AMR", "Vision"}},
	{Expo: "Future Retail Expo 2026", Company: "ShelfSense Ltd", HQ: "London, UK", Revenue: 2700, Booth: "Hall A 101", Industry: "Retail Tech", Solutions: []string{"Shelf Analytics"}},
	{Expo: "Future Retail Expo 2026", Company: "PayFlow SA", HQ: "Paris, France", Revenue: 9800, Booth: "Hall A 120", Industry: "FinTech", Solutions: []string{"Payments", "BNPL"}},
	{Expo: "Future Retail Expo 2026", Company: "LogiChain Oy", HQ: "Helsinki, Finland", Revenue: 4300, Booth: "Hall B 210", Industry: "Logistics", Solutions: []string{"Last Mile", "Tracking"}},
	{Expo: "Future Retail Expo 2026", Company: "AdVantage Inc", HQ: "New York, USA", Revenue: 15400, Booth: "Hall B 230", Industry: "Marketing Tech", Solutions: []string{"Personalization"}},
}

var seedAccounts = []seedAccount{
	{Email: "admin@expointel.com", Password: "admin123", Name: "Admin User", Role: "admin"},
	{Email: "demo@expointel.com", Password: "demo123", Name: "Sarah Mitchell", Role: "user"},
}

// SeedService loads demo planner data into an empty store.
type SeedService struct {
	expos       persistence.ExpoRepository
	exhibitors  persistence.ExhibitorRepository
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSeedService constructs a SeedService with the provided dependencies.
func NewSeedService(expos persistence.ExpoRepository, exhibitors persistence.ExhibitorRepository, users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SeedService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedService{
		expos:       expos,
		exhibitors:  exhibitors,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// SeedResult reports the outcome of the idempotent seed operation.
type SeedResult struct {
	AlreadySeeded bool
	Expos         int
	Exhibitors    int
}

// Seed inserts the demo expos, exhibitors and accounts. Any existing expo
// makes the whole call a no-op.
func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	count, err := s.expos.CountExpos(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to count expos: %w", err)
	}
	if count > 0 {
		s.logger.InfoContext(ctx, "seed skipped, data already present", "service", "SeedService")
		return SeedResult{AlreadySeeded: true}, nil
	}

	now := s.now().UTC()

	expoIDs := make(map[string]string, len(seedExpos))
	for _, entry := range seedExpos {
		expo := persistence.Expo{
			ID:        s.idGenerator(),
			Name:      entry.Name,
			Date:      entry.Date,
			Location:  entry.Location,
			CreatedAt: now,
		}
		if err := s.expos.CreateExpo(ctx, expo); err != nil {
			return SeedResult{}, fmt.Errorf("failed to seed expo %q: %w", entry.Name, err)
		}
		expoIDs[entry.Name] = expo.ID
	}

	exhibitors := make([]persistence.Exhibitor, 0, len(seedExhibitors))
	for _, entry := range seedExhibitors {
		expoID, ok := expoIDs[entry.Expo]
		if !ok {
			continue
		}
		exhibitors = append(exhibitors, persistence.Exhibitor{
			ID:        s.idGenerator(),
			ExpoID:    expoID,
			Company:   entry.Company,
			HQ:        entry.HQ,
			Revenue:   entry.Revenue,
			Booth:     entry.Booth,
			Industry:  entry.Industry,
			Solutions: entry.Solutions,
			CreatedAt: now,
		})
	}
	if err := s.exhibitors.CreateExhibitors(ctx, exhibitors); err != nil {
		return SeedResult{}, fmt.Errorf("failed to seed exhibitors: %w", err)
	}

	for _, entry := range seedAccounts {
		hash, err := application.CreatePasswordHash(entry.Password, application.DefaultArgon2idParams)
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

	s.logger.InfoContext(ctx, "seed complete", "service", "SeedService", "expos", len(seedExpos), "exhibitors", len(exhibitors))
	return SeedResult{Expos: len(seedExpos), Exhibitors: len(exhibitors)}, nil
}
