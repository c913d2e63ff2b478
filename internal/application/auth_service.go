package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/expointel/internal/persistence"
)

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

// AuthService coordinates registration, login and bearer token resolution.
type AuthService struct {
	users          persistence.UserRepository
	tokens         *TokenIssuer
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users persistence.UserRepository, tokens *TokenIssuer, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		hashPassword:   func(password string) (string, error) { return CreatePasswordHash(password, DefaultArgon2idParams) },
		verifyPassword: VerifyPassword,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Register creates an account and signs the caller in. Duplicate emails
// (case-insensitive) yield ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	logger := s.loggerWith(ctx, "Register")

	email := strings.ToLower(strings.TrimSpace(params.Email))
	vErr := &ValidationError{}
	if email == "" || !strings.Contains(email, "@") {
		vErr.add("email", "a valid email address is required")
	}
	if params.Password == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		logger.Warn("registration rejected", "error_kind", ErrorKind(vErr))
		return AuthResult{}, vErr
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		// Default the display name to the email local part.
		name = email[:strings.Index(email, "@")]
	}

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		logger.Error("password hashing failed", "error", err)
		return AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := persistence.User{
		ID:           s.idGenerator(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			logger.Warn("registration rejected", "error_kind", ErrorKind(ErrEmailTaken))
			return AuthResult{}, ErrEmailTaken
		}
		logger.Error("failed to store user", "error", err)
		return AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		logger.Error("token issuance failed", "error", err)
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("user registered", "user_id", user.ID)
	return AuthResult{Token: token, User: publicUser(user)}, nil
}

// Login validates credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (AuthResult, error) {
	logger := s.loggerWith(ctx, "Login")

	email := strings.ToLower(strings.TrimSpace(params.Email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.Warn("login rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
			return AuthResult{}, ErrInvalidCredentials
		}
		logger.Error("failed to load user", "error", err)
		return AuthResult{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, params.Password); err != nil {
		logger.Warn("login rejected", "error_kind", ErrorKind(ErrInvalidCredentials))
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		logger.Error("token issuance failed", "error", err)
		return AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("user logged in", "user_id", user.ID)
	return AuthResult{Token: token, User: publicUser(user)}, nil
}

// ResolveToken verifies a bearer token and loads its account. A valid token
// for a deleted user is treated as invalid.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return User{}, err
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return User{}, ErrTokenInvalid
		}
		return User{}, fmt.Errorf("failed to load user: %w", err)
	}

	return publicUser(user), nil
}

// ListUsers returns account views for administration.
func (s *AuthService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if !principal.IsAdmin() {
		return nil, ErrUnauthorized
	}

	users, err := s.users.ListUsers(ctx, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	views := make([]User, 0, len(users))
	for _, user := range users {
		views = append(views, publicUser(user))
	}
	return views, nil
}

// UpdateUserRole changes another account's role. Admin only.
func (s *AuthService) UpdateUserRole(ctx context.Context, principal Principal, userID, role string) error {
	logger := s.loggerWith(ctx, "UpdateUserRole", "target_user_id", userID)

	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if role != "user" && role != "admin" {
		vErr := &ValidationError{}
		vErr.add("role", "role must be user or admin")
		return vErr
	}

	if err := s.users.UpdateUserRole(ctx, userID, role); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrNotFound
		}
		logger.Error("failed to update role", "error", err)
		return fmt.Errorf("failed to update role: %w", err)
	}

	logger.Info("role updated", "role", role)
	return nil
}
