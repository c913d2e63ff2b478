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

const (
	expoListLimit      = 100
	exhibitorListLimit = 500
)

// CatalogService serves the planner's expo and exhibitor directory.
type CatalogService struct {
	expos       persistence.ExpoRepository
	exhibitors  persistence.ExhibitorRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService constructs a CatalogService with the provided dependencies.
func NewCatalogService(expos persistence.ExpoRepository, exhibitors persistence.ExhibitorRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		expos:       expos,
		exhibitors:  exhibitors,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// ListExpos returns stored expos.
func (s *CatalogService) ListExpos(ctx context.Context) ([]persistence.Expo, error) {
	expos, err := s.expos.ListExpos(ctx, persistence.ExpoFilter{}, expoListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expos: %w", err)
	}
	return expos, nil
}

// GetExpo returns one expo.
func (s *CatalogService) GetExpo(ctx context.Context, id string) (persistence.Expo, error) {
	expo, err := s.expos.GetExpo(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Expo{}, application.ErrNotFound
		}
		return persistence.Expo{}, fmt.Errorf("failed to load expo: %w", err)
	}
	return expo, nil
}

// CreateExpo stores a new expo described by name, date and location.
func (s *CatalogService) CreateExpo(ctx context.Context, params CreateExpoParams) (persistence.Expo, error) {
	if params.Name == "" {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"name": "name is required"}}
		return persistence.Expo{}, vErr
	}

	expo := persistence.Expo{
		ID:        s.idGenerator(),
		Name:      params.Name,
		Date:      params.Date,
		Location:  params.Location,
		CreatedAt: s.now().UTC(),
	}
	if err := s.expos.CreateExpo(ctx, expo); err != nil {
		return persistence.Expo{}, fmt.Errorf("failed to create expo: %w", err)
	}

	s.logger.InfoContext(ctx, "expo created", "service", "CatalogService", "expo_id", expo.ID)
	return expo, nil
}

// ListExhibitors returns exhibitors matching the filter.
func (s *CatalogService) ListExhibitors(ctx context.Context, filter persistence.ExhibitorFilter) ([]persistence.Exhibitor, error) {
	exhibitors, err := s.exhibitors.ListExhibitors(ctx, filter, exhibitorListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibitors: %w", err)
	}
	return exhibitors, nil
}

// GetExhibitor returns one exhibitor.
func (s *CatalogService) GetExhibitor(ctx context.Context, id string) (persistence.Exhibitor, error) {
	exhibitor, err := s.exhibitors.GetExhibitor(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.Exhibitor{}, application.ErrNotFound
		}
		return persistence.Exhibitor{}, fmt.Errorf("failed to load exhibitor: %w", err)
	}
	return exhibitor, nil
}

// ExhibitorFilterOptions aggregates the distinct filterable exhibitor values.
func (s *CatalogService) ExhibitorFilterOptions(ctx context.Context) (persistence.ExhibitorOptions, error) {
	options, err := s.exhibitors.ExhibitorOptions(ctx)
	if err != nil {
		return persistence.ExhibitorOptions{}, fmt.Errorf("failed to aggregate exhibitor options: %w", err)
	}
	return options, nil
}
