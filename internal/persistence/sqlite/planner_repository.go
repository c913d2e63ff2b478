package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/example/expointel/internal/persistence"
)

// ExhibitorRepository implements persistence.ExhibitorRepository using SQLite.
type ExhibitorRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewExhibitorRepository creates a new SQLite exhibitor repository.
func NewExhibitorRepository(pool *ConnectionPool) *ExhibitorRepository {
	return &ExhibitorRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const exhibitorColumns = "id, expo_id, company, hq, revenue, booth, industry, solutions, created_at"

// CreateExhibitor inserts a new exhibitor.
func (r *ExhibitorRepository) CreateExhibitor(ctx context.Context, exhibitor persistence.Exhibitor) error {
	solutions, err := encodeJSON(stringsOrEmpty(exhibitor.Solutions))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO exhibitors (` + exhibitorColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.helper.Exec(ctx, query,
		exhibitor.ID,
		exhibitor.ExpoID,
		exhibitor.Company,
		exhibitor.HQ,
		exhibitor.Revenue,
		exhibitor.Booth,
		exhibitor.Industry,
		solutions,
		formatTime(exhibitor.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// CreateExhibitors inserts a batch of exhibitors in a single transaction.
func (r *ExhibitorRepository) CreateExhibitors(ctx context.Context, exhibitors []persistence.Exhibitor) error {
	if len(exhibitors) == 0 {
		return nil
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO exhibitors (` + exhibitorColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return r.mapper.MapError(err)
		}
		defer stmt.Close()

		for _, exhibitor := range exhibitors {
			solutions, err := encodeJSON(stringsOrEmpty(exhibitor.Solutions))
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(
				exhibitor.ID,
				exhibitor.ExpoID,
				exhibitor.Company,
				exhibitor.HQ,
				exhibitor.Revenue,
				exhibitor.Booth,
				exhibitor.Industry,
				solutions,
				formatTime(exhibitor.CreatedAt),
			); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// GetExhibitor retrieves an exhibitor by ID.
func (r *ExhibitorRepository) GetExhibitor(ctx context.Context, id string) (persistence.Exhibitor, error) {
	row := r.helper.QueryRow(ctx, "SELECT "+exhibitorColumns+" FROM exhibitors WHERE id = ?", id)
	return r.scanExhibitor(row.Scan)
}

// ListExhibitors returns exhibitors matching the filter, ordered by creation
// time.
func (r *ExhibitorRepository) ListExhibitors(ctx context.Context, filter persistence.ExhibitorFilter, limit int) ([]persistence.Exhibitor, error) {
	query := "SELECT " + exhibitorColumns + " FROM exhibitors"
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 5)

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
		conditions = append(conditions, "LOWER(company) LIKE ?")
		args = append(args, containsPattern(filter.Name))
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

	exhibitors := make([]persistence.Exhibitor, 0)
	for rows.Next() {
		exhibitor, err := r.scanExhibitor(rows.Scan)
		if err != nil {
			return nil, err
		}
		exhibitors = append(exhibitors, exhibitor)
	}
	return exhibitors, rows.Err()
}

// CountExhibitors counts all stored exhibitors.
func (r *ExhibitorRepository) CountExhibitors(ctx context.Context) (int64, error) {
	var count int64
	err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM exhibitors").Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// ExhibitorOptions aggregates distinct HQs, industries and solution tags over
// the whole exhibitor collection. Solutions are flattened from the stored
// JSON arrays.
func (r *ExhibitorRepository) ExhibitorOptions(ctx context.Context) (persistence.ExhibitorOptions, error) {
	options := persistence.ExhibitorOptions{
		HQs:        make([]string, 0),
		Industries: make([]string, 0),
		Solutions:  make([]string, 0),
	}

	hqs, err := r.distinctColumn(ctx, "SELECT DISTINCT hq FROM exhibitors WHERE hq <> '' ORDER BY hq")
	if err != nil {
		return persistence.ExhibitorOptions{}, err
	}
	options.HQs = hqs

	industries, err := r.distinctColumn(ctx, "SELECT DISTINCT industry FROM exhibitors WHERE industry <> '' ORDER BY industry")
	if err != nil {
		return persistence.ExhibitorOptions{}, err
	}
	options.Industries = industries

	rows, err := r.helper.Query(ctx, "SELECT solutions FROM exhibitors")
	if err != nil {
		return persistence.ExhibitorOptions{}, r.mapper.MapError(err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return persistence.ExhibitorOptions{}, err
		}
		var solutions []string
		if err := decodeJSON(raw, &solutions); err != nil {
			return persistence.ExhibitorOptions{}, err
		}
		for _, solution := range solutions {
			if solution == "" || seen[solution] {
				continue
			}
			seen[solution] = true
			options.Solutions = append(options.Solutions, solution)
		}
	}
	if err := rows.Err(); err != nil {
		return persistence.ExhibitorOptions{}, err
	}
	sort.Strings(options.Solutions)

	return options, nil
}

func (r *ExhibitorRepository) distinctColumn(ctx context.Context, query string) ([]string, error) {
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

func (r *ExhibitorRepository) scanExhibitor(scan func(dest ...any) error) (persistence.Exhibitor, error) {
	var (
		exhibitor persistence.Exhibitor
		solutions string
		createdAt string
	)
	if err := scan(
		&exhibitor.ID,
		&exhibitor.ExpoID,
		&exhibitor.Company,
		&exhibitor.HQ,
		&exhibitor.Revenue,
		&exhibitor.Booth,
		&exhibitor.Industry,
		&solutions,
		&createdAt,
	); err != nil {
		return persistence.Exhibitor{}, r.mapper.MapError(err)
	}

	exhibitor.Solutions = make([]string, 0)
	if err := decodeJSON(solutions, &exhibitor.Solutions); err != nil {
		return persistence.Exhibitor{}, err
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Exhibitor{}, err
	}
	exhibitor.CreatedAt = parsed
	return exhibitor, nil
}

// ExhibitorListRepository implements persistence.ExhibitorListRepository
// using SQLite. Member IDs are stored as a JSON array to preserve order.
type ExhibitorListRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewExhibitorListRepository creates a new SQLite exhibitor list repository.
func NewExhibitorListRepository(pool *ConnectionPool) *ExhibitorListRepository {
	return &ExhibitorListRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateList inserts a new named list.
func (r *ExhibitorListRepository) CreateList(ctx context.Context, list persistence.ExhibitorList) error {
	members, err := encodeJSON(stringsOrEmpty(list.ExhibitorIDs))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO exhibitor_lists (id, user_id, expo_id, name, exhibitor_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.helper.Exec(ctx, query,
		list.ID,
		list.UserID,
		list.ExpoID,
		list.Name,
		members,
		formatTime(list.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// GetList retrieves an owned list by ID.
func (r *ExhibitorListRepository) GetList(ctx context.Context, id, userID string) (persistence.ExhibitorList, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, user_id, expo_id, name, exhibitor_ids, created_at
		FROM exhibitor_lists WHERE id = ? AND user_id = ?
	`, id, userID)
	return r.scanList(row.Scan)
}

// ListLists returns the user's lists, optionally scoped to one expo, newest
// first.
func (r *ExhibitorListRepository) ListLists(ctx context.Context, userID, expoID string, limit int) ([]persistence.ExhibitorList, error) {
	query := `
		SELECT id, user_id, expo_id, name, exhibitor_ids, created_at
		FROM exhibitor_lists WHERE user_id = ?
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

	lists := make([]persistence.ExhibitorList, 0)
	for rows.Next() {
		list, err := r.scanList(rows.Scan)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// UpdateListMembers replaces the member ID array on an owned list.
func (r *ExhibitorListRepository) UpdateListMembers(ctx context.Context, id, userID string, exhibitorIDs []string) error {
	members, err := encodeJSON(stringsOrEmpty(exhibitorIDs))
	if err != nil {
		return err
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE exhibitor_lists SET exhibitor_ids = ? WHERE id = ? AND user_id = ?",
		members, id, userID,
	)
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

// DeleteList removes an owned list. Missing and foreign lists are silent
// no-ops.
func (r *ExhibitorListRepository) DeleteList(ctx context.Context, id, userID string) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM exhibitor_lists WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return r.mapper.MapError(err)
}

func (r *ExhibitorListRepository) scanList(scan func(dest ...any) error) (persistence.ExhibitorList, error) {
	var (
		list      persistence.ExhibitorList
		members   string
		createdAt string
	)
	if err := scan(
		&list.ID,
		&list.UserID,
		&list.ExpoID,
		&list.Name,
		&members,
		&createdAt,
	); err != nil {
		return persistence.ExhibitorList{}, r.mapper.MapError(err)
	}

	list.ExhibitorIDs = make([]string, 0)
	if err := decodeJSON(members, &list.ExhibitorIDs); err != nil {
		return persistence.ExhibitorList{}, err
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.ExhibitorList{}, err
	}
	list.CreatedAt = parsed
	return list, nil
}

// AgendaRepository implements persistence.AgendaRepository using SQLite.
// Meetings live in their own table keyed by agenda and are deleted with it.
type AgendaRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAgendaRepository creates a new SQLite agenda repository.
func NewAgendaRepository(pool *ConnectionPool) *AgendaRepository {
	return &AgendaRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const meetingColumns = "id, exhibitor_id, time, agenda, status, notes, visiting_card, voice_note, transcript, action_items, checked_in, created_at"

// CreateAgenda inserts a new agenda with any embedded meetings.
func (r *AgendaRepository) CreateAgenda(ctx context.Context, agenda persistence.Agenda) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO agendas (id, user_id, expo_id, created_at)
			VALUES (?, ?, ?, ?)
		`, agenda.ID, agenda.UserID, agenda.ExpoID, formatTime(agenda.CreatedAt)); err != nil {
			return r.mapper.MapError(err)
		}

		for _, meeting := range agenda.Meetings {
			if err := insertMeeting(tx, agenda.ID, meeting); err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

// GetAgenda retrieves an owned agenda with its meetings.
func (r *AgendaRepository) GetAgenda(ctx context.Context, id, userID string) (persistence.Agenda, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, user_id, expo_id, created_at
		FROM agendas WHERE id = ? AND user_id = ?
	`, id, userID)

	agenda, err := r.scanAgenda(row.Scan)
	if err != nil {
		return persistence.Agenda{}, err
	}

	meetings, err := r.loadMeetings(ctx, agenda.ID)
	if err != nil {
		return persistence.Agenda{}, err
	}
	agenda.Meetings = meetings
	return agenda, nil
}

// ListAgendas returns the user's agendas with meetings, optionally scoped to
// one expo, newest first.
func (r *AgendaRepository) ListAgendas(ctx context.Context, userID, expoID string, limit int) ([]persistence.Agenda, error) {
	query := "SELECT id, user_id, expo_id, created_at FROM agendas WHERE user_id = ?"
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

	agendas := make([]persistence.Agenda, 0)
	for rows.Next() {
		agenda, err := r.scanAgenda(rows.Scan)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, agenda)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range agendas {
		meetings, err := r.loadMeetings(ctx, agendas[i].ID)
		if err != nil {
			return nil, err
		}
		agendas[i].Meetings = meetings
	}
	return agendas, nil
}

// DeleteAgenda removes an owned agenda and its meetings. Missing and foreign
// agendas are silent no-ops.
func (r *AgendaRepository) DeleteAgenda(ctx context.Context, id, userID string) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM agendas WHERE id = ? AND user_id = ?",
		id, userID,
	)
	return r.mapper.MapError(err)
}

// AddMeeting appends a meeting to an owned agenda.
func (r *AgendaRepository) AddMeeting(ctx context.Context, agendaID, userID string, meeting persistence.Meeting) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := agendaOwnedTx(tx, agendaID, userID); err != nil {
			return err
		}
		if err := insertMeeting(tx, agendaID, meeting); err != nil {
			return r.mapper.MapError(err)
		}
		return nil
	})
}

// UpdateMeeting applies a partial update to a meeting of an owned agenda and
// returns the updated row.
func (r *AgendaRepository) UpdateMeeting(ctx context.Context, agendaID, userID, meetingID string, patch persistence.MeetingPatch) (persistence.Meeting, error) {
	var updated persistence.Meeting

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := agendaOwnedTx(tx, agendaID, userID); err != nil {
			return err
		}

		assignments := make([]string, 0, 9)
		args := make([]any, 0, 11)

		appendString := func(column string, value *string) {
			if value != nil {
				assignments = append(assignments, column+" = ?")
				args = append(args, *value)
			}
		}
		appendString("time", patch.Time)
		appendString("agenda", patch.Agenda)
		appendString("status", patch.Status)
		appendString("notes", patch.Notes)
		appendString("transcript", patch.Transcript)
		appendString("action_items", patch.ActionItems)
		if patch.VisitingCard != nil {
			assignments = append(assignments, "visiting_card = ?")
			args = append(args, patch.VisitingCard)
		}
		if patch.VoiceNote != nil {
			assignments = append(assignments, "voice_note = ?")
			args = append(args, patch.VoiceNote)
		}
		if patch.CheckedIn != nil {
			assignments = append(assignments, "checked_in = ?")
			args = append(args, *patch.CheckedIn)
		}

		if len(assignments) > 0 {
			query := "UPDATE meetings SET " + strings.Join(assignments, ", ") + " WHERE id = ? AND agenda_id = ?"
			args = append(args, meetingID, agendaID)

			result, err := tx.Exec(query, args...)
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
		}

		row := tx.QueryRow(
			"SELECT "+meetingColumns+" FROM meetings WHERE id = ? AND agenda_id = ?",
			meetingID, agendaID,
		)
		meeting, err := r.scanMeeting(row.Scan)
		if err != nil {
			return err
		}
		updated = meeting
		return nil
	})
	if err != nil {
		return persistence.Meeting{}, err
	}
	return updated, nil
}

func (r *AgendaRepository) loadMeetings(ctx context.Context, agendaID string) ([]persistence.Meeting, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE agenda_id = ? ORDER BY time, created_at, id",
		agendaID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	meetings := make([]persistence.Meeting, 0)
	for rows.Next() {
		meeting, err := r.scanMeeting(rows.Scan)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

func (r *AgendaRepository) scanAgenda(scan func(dest ...any) error) (persistence.Agenda, error) {
	var (
		agenda    persistence.Agenda
		createdAt string
	)
	if err := scan(&agenda.ID, &agenda.UserID, &agenda.ExpoID, &createdAt); err != nil {
		return persistence.Agenda{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Agenda{}, err
	}
	agenda.CreatedAt = parsed
	agenda.Meetings = make([]persistence.Meeting, 0)
	return agenda, nil
}

func (r *AgendaRepository) scanMeeting(scan func(dest ...any) error) (persistence.Meeting, error) {
	var (
		meeting   persistence.Meeting
		createdAt string
	)
	if err := scan(
		&meeting.ID,
		&meeting.ExhibitorID,
		&meeting.Time,
		&meeting.Agenda,
		&meeting.Status,
		&meeting.Notes,
		&meeting.VisitingCard,
		&meeting.VoiceNote,
		&meeting.Transcript,
		&meeting.ActionItems,
		&meeting.CheckedIn,
		&createdAt,
	); err != nil {
		return persistence.Meeting{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.Meeting{}, err
	}
	meeting.CreatedAt = parsed
	return meeting, nil
}

func insertMeeting(tx *sql.Tx, agendaID string, meeting persistence.Meeting) error {
	_, err := tx.Exec(`
		INSERT INTO meetings (agenda_id, `+meetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		agendaID,
		meeting.ID,
		meeting.ExhibitorID,
		meeting.Time,
		meeting.Agenda,
		meeting.Status,
		meeting.Notes,
		meeting.VisitingCard,
		meeting.VoiceNote,
		meeting.Transcript,
		meeting.ActionItems,
		meeting.CheckedIn,
		formatTime(meeting.CreatedAt),
	)
	return err
}

func agendaOwnedTx(tx *sql.Tx, agendaID, userID string) error {
	var count int
	if err := tx.QueryRow(
		"SELECT COUNT(*) FROM agendas WHERE id = ? AND user_id = ?",
		agendaID, userID,
	).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
