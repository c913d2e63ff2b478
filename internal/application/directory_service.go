package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/persistence"
)

const (
	expoListLimit    = 100
	companyListLimit = 500
)

// validStages is the closed label set for a company's shortlist stage. The
// stage is a label, not a sequential machine: any member may follow any other.
var validStages = map[string]bool{
	"prospecting":          true,
	"prospecting_complete": true,
	"engaging":             true,
	"closed_won":           true,
	"closed_lost":          true,
}

// DirectoryService serves the expo and company catalog.
type DirectoryService struct {
	expos       persistence.ExpoRepository
	companies   persistence.CompanyRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDirectoryService constructs a DirectoryService with the provided dependencies.
func NewDirectoryService(expos persistence.ExpoRepository, companies persistence.CompanyRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DirectoryService{
		expos:       expos,
		companies:   companies,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// ListExpos returns filtered expos, each decorated with its company count.
func (s *DirectoryService) ListExpos(ctx context.Context, filter persistence.ExpoFilter) ([]ExpoView, error) {
	expos, err := s.expos.ListExpos(ctx, filter, expoListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expos: %w", err)
	}

	views := make([]ExpoView, 0, len(expos))
	for _, expo := range expos {
		count, err := s.companies.CountByExpo(ctx, expo.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count companies: %w", err)
		}
		views = append(views, ExpoView{Expo: expo, CompanyCount: count})
	}
	return views, nil
}

// GetExpo returns one expo with its company count.
func (s *DirectoryService) GetExpo(ctx context.Context, id string) (ExpoView, error) {
	expo, err := s.expos.GetExpo(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ExpoView{}, ErrNotFound
		}
		return ExpoView{}, fmt.Errorf("failed to load expo: %w", err)
	}

	count, err := s.companies.CountByExpo(ctx, expo.ID)
	if err != nil {
		return ExpoView{}, fmt.Errorf("failed to count companies: %w", err)
	}
	return ExpoView{Expo: expo, CompanyCount: count}, nil
}

// CreateExpo stores a new expo.
func (s *DirectoryService) CreateExpo(ctx context.Context, params CreateExpoParams) (ExpoView, error) {
	logger := s.loggerWith(ctx, "CreateExpo")

	if params.Name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return ExpoView{}, vErr
	}

	expo := persistence.Expo{
		ID:        s.idGenerator(),
		Name:      params.Name,
		Region:    params.Region,
		Industry:  params.Industry,
		Location:  params.Location,
		Date:      params.Date,
		CreatedAt: s.now().UTC(),
	}
	if err := s.expos.CreateExpo(ctx, expo); err != nil {
		logger.Error("failed to store expo", "error", err)
		return ExpoView{}, fmt.Errorf("failed to create expo: %w", err)
	}

	logger.Info("expo created", "expo_id", expo.ID)
	return ExpoView{Expo: expo}, nil
}

// ExpoFilters returns the distinct non-empty regions and industries.
func (s *DirectoryService) ExpoFilters(ctx context.Context) (persistence.ExpoFieldValues, error) {
	values, err := s.expos.ExpoFieldValues(ctx)
	if err != nil {
		return persistence.ExpoFieldValues{}, fmt.Errorf("failed to aggregate expo filters: %w", err)
	}
	return values, nil
}

// ListCompanies returns filtered companies.
func (s *DirectoryService) ListCompanies(ctx context.Context, filter persistence.CompanyFilter) ([]persistence.Company, error) {
	companies, err := s.companies.ListCompanies(ctx, filter, companyListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany returns one company.
func (s *DirectoryService) GetCompany(ctx context.Context, id string) (persistence.Company, error) {
	company, err := s.companies.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Company{}, ErrNotFound
		}
		return persistence.Company{}, fmt.Errorf("failed to load company: %w", err)
	}
	return company, nil
}

// UpdateStage sets a company's shortlist stage to one of the closed label set.
func (s *DirectoryService) UpdateStage(ctx context.Context, id, stage string) error {
	logger := s.loggerWith(ctx, "UpdateStage", "company_id", id)

	if !validStages[stage] {
		vErr := &ValidationError{}
		vErr.add("stage", "stage must be one of prospecting, prospecting_complete, engaging, closed_won, closed_lost")
		return vErr
	}

	if err := s.companies.UpdateStage(ctx, id, stage); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.Error("failed to update stage", "error", err)
		return fmt.Errorf("failed to update stage: %w", err)
	}

	logger.Info("stage updated", "stage", stage)
	return nil
}

// CompanyFilterOptions aggregates the filterable values over all companies or
// one expo. An empty company set yields the fixed default bounds.
func (s *DirectoryService) CompanyFilterOptions(ctx context.Context, expoID string) (persistence.CompanyOptions, error) {
	options, err := s.companies.CompanyOptions(ctx, expoID)
	if err != nil {
		return persistence.CompanyOptions{}, fmt.Errorf("failed to aggregate company options: %w", err)
	}

	if !options.Matched {
		options.MinRevenue = 0
		options.MaxRevenue = 1000
	}
	return options, nil
}
