package sqlite

import (
	"context"
	"strings"

	"github.com/example/expointel/internal/persistence"
)

// ExpoRepository implements persistence.ExpoRepository using SQLite.
type ExpoRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewExpoRepository creates a new SQLite expo repository.
func NewExpoRepository(pool *ConnectionPool) *ExpoRepository {
	return &ExpoRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateExpo inserts a new expo.
func (r *ExpoRepository) CreateExpo(ctx context.Context, expo persistence.Expo) error {
	query := `
		INSERT INTO expos (id, name, region, industry, location, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		expo.ID,
		expo.Name,
		expo.Region,
		expo.Industry,
		expo.Location,
		expo.Date,
		formatTime(expo.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// GetExpo retrieves an expo by ID.
func (r *ExpoRepository) GetExpo(ctx context.Context, id string) (persistence.Expo, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, name, region, industry, location, date, created_at
		FROM expos WHERE id = ?
	`, id)
	return r.scanExpo(row.Scan)
}

// ListExpos returns expos matching the filter, ordered by creation time.
func (r *ExpoRepository) ListExpos(ctx context.Context, filter persistence.ExpoFilter, limit int) ([]persistence.Expo, error) {
	query := `
		SELECT id, name, region, industry, location, date, created_at
		FROM expos
	`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if filter.Region != "" {
		conditions = append(conditions, "LOWER(region) LIKE ?")
		args = append(args, containsPattern(filter.Region))
	}
	if filter.Industry != "" {
		conditions = append(conditions, "LOWER(industry) LIKE ?")
		args = append(args, containsPattern(filter.Industry))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	expos := make([]persistence.Expo, 0)
	for rows.Next() {
		expo, err := r.scanExpo(rows.Scan)
		if err != nil {
			return nil, err
		}
		expos = append(expos, expo)
	}
	return expos, rows.Err()
}

// CountExpos counts all stored expos.
func (r *ExpoRepository) CountExpos(ctx context.Context) (int64, error) {
	var count int64
	err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM expos").Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// ExpoFieldValues aggregates distinct non-empty regions and industries.
func (r *ExpoRepository) ExpoFieldValues(ctx context.Context) (persistence.ExpoFieldValues, error) {
	values := persistence.ExpoFieldValues{
		Regions:    make([]string, 0),
		Industries: make([]string, 0),
	}

	regions, err := r.distinctColumn(ctx, "SELECT DISTINCT region FROM expos WHERE region <> '' ORDER BY region")
	if err != nil {
		return persistence.ExpoFieldValues{}, err
	}
	values.Regions = regions

	industries, err := r.distinctColumn(ctx, "SELECT DISTINCT industry FROM expos WHERE industry <> '' ORDER BY industry")
	if err != nil {
		return persistence.ExpoFieldValues{}, err
	}
	values.Industries = industries

	return values, nil
}

func (r *ExpoRepository) distinctColumn(ctx context.Context, query string) ([]string, error) {
	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func (r *ExpoRepository) scanExpo(scan func(dest ...any) error) (persistence.Expo, error) {
	var (
		expo      persistence.Expo
		createdAt string
	)
	if err := scan(&expo.ID, &expo.Name, &expo.Region, &expo.Industry, &expo.Location, &expo.Date, &createdAt); err != nil {
		return persistence.Expo{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Expo{}, err
	}
	expo.CreatedAt = parsed
	return expo, nil
}

// containsPattern builds a case-insensitive LIKE pattern for substring match.
func containsPattern(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
