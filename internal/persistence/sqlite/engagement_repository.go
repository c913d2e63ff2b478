package sqlite

import (
	"context"
	"strings"

	"github.com/example/expointel/internal/persistence"
)

// ShortlistRepository implements persistence.ShortlistRepository using SQLite.
type ShortlistRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewShortlistRepository creates a new SQLite shortlist repository.
func NewShortlistRepository(pool *ConnectionPool) *ShortlistRepository {
	return &ShortlistRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateShortlist inserts a new shortlist record. The table carries a unique
// index over (user_id, company_id, expo_id); violations surface as
// persistence.ErrDuplicate.
func (r *ShortlistRepository) CreateShortlist(ctx context.Context, shortlist persistence.Shortlist) error {
	query := `
		INSERT INTO shortlists (id, user_id, company_id, expo_id, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		shortlist.ID,
		shortlist.UserID,
		shortlist.CompanyID,
		shortlist.ExpoID,
		shortlist.Notes,
		formatTime(shortlist.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// FindShortlist locates the record for a (user, company, expo) triple.
func (r *ShortlistRepository) FindShortlist(ctx context.Context, userID, companyID, expoID string) (persistence.Shortlist, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, user_id, company_id, expo_id, notes, created_at
		FROM shortlists WHERE user_id = ? AND company_id = ? AND expo_id = ?
	`, userID, companyID, expoID)
	return r.scanShortlist(row.Scan)
}

// ListShortlists returns the user's shortlist records, optionally scoped to
// one expo, newest first.
func (r *ShortlistRepository) ListShortlists(ctx context.Context, userID, expoID string, limit int) ([]persistence.Shortlist, error) {
	query := `
		SELECT id, user_id, company_id, expo_id, notes, created_at
		FROM shortlists WHERE user_id = ?
	`
	args := []any{userID}
	if expoID != "" {
		query += " AND expo_id = ?"
		args = append(args, expoID)
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	shortlists := make([]persistence.Shortlist, 0)
	for rows.Next() {
		shortlist, err := r.scanShortlist(rows.Scan)
		if err != nil {
			return nil, err
		}
		shortlists = append(shortlists, shortlist)
	}
	return shortlists, rows.Err()
}

// UpdateShortlistNotes replaces the notes on an owned record. Updating a
// record that does not exist or belongs to another user is a no-op.
func (r *ShortlistRepository) UpdateShortlistNotes(ctx context.Context, id, userID, notes string) error {
	_, err := r.helper.Exec(ctx,
		"UPDATE shortlists SET notes = ? WHERE id = ? AND user_id = ?",
		notes, id, userID,
	)
	return r.mapper.MapError(err)
}

// DeleteShortlist removes an owned record. Deleting a record that does not
// exist or belongs to another user is a no-op.
func (r *ShortlistRepository) DeleteShortlist(ctx context.Context, id, userID string) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM shortlists WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return r.mapper.MapError(err)
}

func (r *ShortlistRepository) scanShortlist(scan func(dest ...any) error) (persistence.Shortlist, error) {
	var (
		shortlist persistence.Shortlist
		createdAt string
	)
	if err := scan(
		&shortlist.ID,
		&shortlist.UserID,
		&shortlist.CompanyID,
		&shortlist.ExpoID,
		&shortlist.Notes,
		&createdAt,
	); err != nil {
		return persistence.Shortlist{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Shortlist{}, err
	}
	shortlist.CreatedAt = parsed
	return shortlist, nil
}

// NetworkRepository implements persistence.NetworkRepository using SQLite.
type NetworkRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewNetworkRepository creates a new SQLite network repository.
func NewNetworkRepository(pool *ConnectionPool) *NetworkRepository {
	return &NetworkRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const networkColumns = "id, user_id, company_id, expo_id, contact_name, contact_role, status, meeting_type, scheduled_time, notes, created_at"

// CreateNetwork inserts a new outreach record.
func (r *NetworkRepository) CreateNetwork(ctx context.Context, network persistence.Network) error {
	query := `
		INSERT INTO networks (` + networkColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		network.ID,
		network.UserID,
		network.CompanyID,
		network.ExpoID,
		network.ContactName,
		network.ContactRole,
		network.Status,
		network.MeetingType,
		network.ScheduledTime,
		network.Notes,
		formatTime(network.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// ListNetworks returns the user's outreach records, optionally scoped by expo
// and status, newest first.
func (r *NetworkRepository) ListNetworks(ctx context.Context, userID, expoID, status string, limit int) ([]persistence.Network, error) {
	query := "SELECT " + networkColumns + " FROM networks WHERE user_id = ?"
	args := []any{userID}
	if expoID != "" {
		query += " AND expo_id = ?"
		args = append(args, expoID)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	networks := make([]persistence.Network, 0)
	for rows.Next() {
		network, err := r.scanNetwork(rows.Scan)
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}
	return networks, rows.Err()
}

// UpdateNetwork applies a partial update to an owned record. Missing and
// foreign records are silent no-ops.
func (r *NetworkRepository) UpdateNetwork(ctx context.Context, id, userID string, patch persistence.NetworkPatch) error {
	assignments := make([]string, 0, 6)
	args := make([]any, 0, 8)

	appendAssignment := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, column+" = ?")
			args = append(args, *value)
		}
	}
	appendAssignment("status", patch.Status)
	appendAssignment("meeting_type", patch.MeetingType)
	appendAssignment("scheduled_time", patch.ScheduledTime)
	appendAssignment("notes", patch.Notes)
	appendAssignment("contact_name", patch.ContactName)
	appendAssignment("contact_role", patch.ContactRole)

	if len(assignments) == 0 {
		return nil
	}

	query := "UPDATE networks SET " + strings.Join(assignments, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)

	_, err := r.helper.Exec(ctx, query, args...)
	return r.mapper.MapError(err)
}

// DeleteNetwork removes an owned record. Missing and foreign records are
// silent no-ops.
func (r *NetworkRepository) DeleteNetwork(ctx context.Context, id, userID string) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM networks WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return r.mapper.MapError(err)
}

func (r *NetworkRepository) scanNetwork(scan func(dest ...any) error) (persistence.Network, error) {
	var (
		network   persistence.Network
		createdAt string
	)
	if err := scan(
		&network.ID,
		&network.UserID,
		&network.CompanyID,
		&network.ExpoID,
		&network.ContactName,
		&network.ContactRole,
		&network.Status,
		&network.MeetingType,
		&network.ScheduledTime,
		&network.Notes,
		&createdAt,
	); err != nil {
		return persistence.Network{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Network{}, err
	}
	network.CreatedAt = parsed
	return network, nil
}

// ExpoDayRepository implements persistence.ExpoDayRepository using SQLite.
type ExpoDayRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewExpoDayRepository creates a new SQLite expo day repository.
func NewExpoDayRepository(pool *ConnectionPool) *ExpoDayRepository {
	return &ExpoDayRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const expoDayColumns = "id, user_id, company_id, expo_id, time_slot, status, meeting_type, booth, notes, created_at"

// CreateExpoDay inserts a new visit slot.
func (r *ExpoDayRepository) CreateExpoDay(ctx context.Context, day persistence.ExpoDay) error {
	query := `
		INSERT INTO expo_days (` + expoDayColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		day.ID,
		day.UserID,
		day.CompanyID,
		day.ExpoID,
		day.TimeSlot,
		day.Status,
		day.MeetingType,
		day.Booth,
		day.Notes,
		formatTime(day.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// ListExpoDays returns the user's visit slots ordered by time slot ascending.
func (r *ExpoDayRepository) ListExpoDays(ctx context.Context, userID, expoID string, limit int) ([]persistence.ExpoDay, error) {
	query := "SELECT " + expoDayColumns + " FROM expo_days WHERE user_id = ?"
	args := []any{userID}
	if expoID != "" {
		query += " AND expo_id = ?"
		args = append(args, expoID)
	}
	query += " ORDER BY time_slot, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	days := make([]persistence.ExpoDay, 0)
	for rows.Next() {
		day, err := r.scanExpoDay(rows.Scan)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// UpdateExpoDay applies a partial update to an owned slot. Missing and
// foreign slots are silent no-ops.
func (r *ExpoDayRepository) UpdateExpoDay(ctx context.Context, id, userID string, patch persistence.ExpoDayPatch) error {
	assignments := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if patch.Status != nil {
		assignments = append(assignments, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Notes != nil {
		assignments = append(assignments, "notes = ?")
		args = append(args, *patch.Notes)
	}
	if len(assignments) == 0 {
		return nil
	}

	query := "UPDATE expo_days SET " + strings.Join(assignments, ", ") + " WHERE id = ? AND user_id = ?"
	args = append(args, id, userID)

	_, err := r.helper.Exec(ctx, query, args...)
	return r.mapper.MapError(err)
}

// DeleteExpoDay removes an owned slot. Missing and foreign slots are silent
// no-ops.
func (r *ExpoDayRepository) DeleteExpoDay(ctx context.Context, id, userID string) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM expo_days WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return r.mapper.MapError(err)
}

func (r *ExpoDayRepository) scanExpoDay(scan func(dest ...any) error) (persistence.ExpoDay, error) {
	var (
		day       persistence.ExpoDay
		createdAt string
	)
	if err := scan(
		&day.ID,
		&day.UserID,
		&day.CompanyID,
		&day.ExpoID,
		&day.TimeSlot,
		&day.Status,
		&day.MeetingType,
		&day.Booth,
		&day.Notes,
		&createdAt,
	); err != nil {
		return persistence.ExpoDay{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.ExpoDay{}, err
	}
	day.CreatedAt = parsed
	return day, nil
}
