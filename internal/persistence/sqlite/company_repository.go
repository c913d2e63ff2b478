package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/expointel/internal/persistence"
)

// CompanyRepository implements persistence.CompanyRepository using SQLite.
type CompanyRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCompanyRepository creates a new SQLite company repository.
func NewCompanyRepository(pool *ConnectionPool) *CompanyRepository {
	return &CompanyRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const companyColumns = "id, expo_id, name, hq, revenue, booth, industry, shortlist_stage, contacts, created_at"

// CreateCompany inserts a new company.
func (r *CompanyRepository) CreateCompany(ctx context.Context, company persistence.Company) error {
	contacts, err := encodeJSON(contactsOrEmpty(company.Contacts))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.helper.Exec(ctx, query,
		company.ID,
		company.ExpoID,
		company.Name,
		company.HQ,
		company.Revenue,
		company.Booth,
		company.Industry,
		stageOrNone(company.ShortlistStage),
		contacts,
		formatTime(company.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// CreateCompanies inserts a batch of companies in a single transaction.
func (r *CompanyRepository) CreateCompanies(ctx context.Context, companies []persistence.Company) error {
	if len(companies) == 0 {
		return nil
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO companies (` + companyColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer stmt.Close()

		for _, company := range companies {
			contacts, err := encodeJSON(contactsOrEmpty(company.Contacts))
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(
				company.ID,
				company.ExpoID,
				company.Name,
				company.HQ,
				company.Revenue,
				company.Booth,
				company.Industry,
				stageOrNone(company.ShortlistStage),
				contacts,
				formatTime(company.CreatedAt),
			); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// GetCompany retrieves a company by ID.
func (r *CompanyRepository) GetCompany(ctx context.Context, id string) (persistence.Company, error) {
	row := r.helper.QueryRow(ctx, "SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	return r.scanCompany(row.Scan)
}

// ListCompanies returns companies matching the filter, ordered by creation
// time.
func (r *CompanyRepository) ListCompanies(ctx context.Context, filter persistence.CompanyFilter, limit int) ([]persistence.Company, error) {
	query := "SELECT " + companyColumns + " FROM companies"
	conditions := make([]string, 0, 6)
	args := make([]any, 0, 7)

	if filter.ExpoID != "" {
		conditions = append(conditions, "expo_id = ?")
		args = append(args, filter.ExpoID)
	}
	if filter.Industry != "" {
		conditions = append(conditions, "LOWER(industry) LIKE ?")
		args = append(args, containsPattern(filter.Industry))
	}
	if filter.HQ != "" {
		conditions = append(conditions, "LOWER(hq) LIKE ?")
		args = append(args, containsPattern(filter.HQ))
	}
	if filter.Name != "" {
		conditions = append(conditions, "LOWER(name) LIKE ?")
		args = append(args, containsPattern(filter.Name))
	}
	if filter.MinRevenue != nil {
		conditions = append(conditions, "revenue >= ?")
		args = append(args, *filter.MinRevenue)
	}
	if filter.MaxRevenue != nil {
		conditions = append(conditions, "revenue <= ?")
		args = append(args, *filter.MaxRevenue)
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

	companies := make([]persistence.Company, 0)
	for rows.Next() {
		company, err := r.scanCompany(rows.Scan)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// CountByExpo counts companies attached to an expo.
func (r *CompanyRepository) CountByExpo(ctx context.Context, expoID string) (int64, error) {
	var count int64
	err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM companies WHERE expo_id = ?", expoID).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// UpdateStage sets a company's shortlist stage.
func (r *CompanyRepository) UpdateStage(ctx context.Context, id, stage string) error {
	result, err := r.helper.Exec(ctx, "UPDATE companies SET shortlist_stage = ? WHERE id = ?", stage, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// AdvanceStageFromNone promotes a company to "prospecting" only when its stage
// is still unset. No-op for companies already in the funnel.
func (r *CompanyRepository) AdvanceStageFromNone(ctx context.Context, id string) error {
	_, err := r.helper.Exec(ctx, `
		UPDATE companies SET shortlist_stage = 'prospecting'
		WHERE id = ? AND shortlist_stage IN ('', 'none')
	`, id)
	return r.mapper.MapError(err)
}

// CompanyOptions aggregates distinct industries, HQs and the observed revenue
// range over all companies, or over one expo when expoID is non-empty.
func (r *CompanyRepository) CompanyOptions(ctx context.Context, expoID string) (persistence.CompanyOptions, error) {
	where := ""
	args := make([]any, 0, 1)
	if expoID != "" {
		where = " WHERE expo_id = ?"
		args = append(args, expoID)
	}

	options := persistence.CompanyOptions{
		Industries: make([]string, 0),
		HQs:        make([]string, 0),
	}

	var count int64
	if err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM companies"+where, args...).Scan(&count); err != nil {
		return persistence.CompanyOptions{}, r.mapper.MapError(err)
	}
	if count == 0 {
		return options, nil
	}
	options.Matched = true

	row := r.helper.QueryRow(ctx, "SELECT MIN(revenue), MAX(revenue) FROM companies"+where, args...)
	if err := row.Scan(&options.MinRevenue, &options.MaxRevenue); err != nil {
		return persistence.CompanyOptions{}, r.mapper.MapError(err)
	}

	industries, err := r.distinctColumn(ctx, "SELECT DISTINCT industry FROM companies"+where+" ORDER BY industry", args)
	if err != nil {
		return persistence.CompanyOptions{}, err
	}
	options.Industries = industries

	hqs, err := r.distinctColumn(ctx, "SELECT DISTINCT hq FROM companies"+where+" ORDER BY hq", args)
	if err != nil {
		return persistence.CompanyOptions{}, err
	}
	options.HQs = hqs

	return options, nil
}

func (r *CompanyRepository) distinctColumn(ctx context.Context, query string, args []any) ([]string, error) {
	rows, err := r.helper.Query(ctx, query, args...)
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
		if value != "" {
			values = append(values, value)
		}
	}
	return values, rows.Err()
}

func (r *CompanyRepository) scanCompany(scan func(dest ...any) error) (persistence.Company, error) {
	var (
		company   persistence.Company
		contacts  string
		createdAt string
	)
	if err := scan(
		&company.ID,
		&company.ExpoID,
		&company.Name,
		&company.HQ,
		&company.Revenue,
		&company.Booth,
		&company.Industry,
		&company.ShortlistStage,
		&contacts,
		&createdAt,
	); err != nil {
		return persistence.Company{}, r.mapper.MapError(err)
	}

	company.Contacts = make([]persistence.Contact, 0)
	if err := decodeJSON(contacts, &company.Contacts); err != nil {
		return persistence.Company{}, err
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Company{}, err
	}
	company.CreatedAt = parsed
	return company, nil
}

func contactsOrEmpty(contacts []persistence.Contact) []persistence.Contact {
	if contacts == nil {
		return []persistence.Contact{}
	}
	return contacts
}

func stageOrNone(stage string) string {
	if stage == "" {
		return "none"
	}
	return stage
}
