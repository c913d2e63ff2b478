package sqlite

import (
	"context"
	"strings"

	"github.com/example/expointel/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateUser inserts a new user. Emails are stored lower-cased so uniqueness
// is case-insensitive.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.Name,
		user.PasswordHash,
		user.Role,
		formatTime(user.CreatedAt),
	)
	return r.mapper.MapError(err)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE id = ?
	`, id)
	return r.scanUser(row.Scan)
}

// GetUserByEmail retrieves a user by normalized email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE email = ?
	`, normalizeEmail(email))
	return r.scanUser(row.Scan)
}

// ListUsers returns users ordered by creation time, newest first.
func (r *UserRepository) ListUsers(ctx context.Context, limit int) ([]persistence.User, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM users ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	users := make([]persistence.User, 0)
	for rows.Next() {
		user, err := r.scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUserRole changes a user's role.
func (r *UserRepository) UpdateUserRole(ctx context.Context, id, role string) error {
	result, err := r.helper.Exec(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
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

func (r *UserRepository) scanUser(scan func(dest ...any) error) (persistence.User, error) {
	var (
		user      persistence.User
		createdAt string
	)
	if err := scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &createdAt); err != nil {
		return persistence.User{}, r.mapper.MapError(err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return persistence.User{}, err
	}
	user.CreatedAt = parsed
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
