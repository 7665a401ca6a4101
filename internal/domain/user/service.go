// Package user provides account registration, login and session
// invalidation. Sessions are JWTs; logout puts the token on a blocklist
// consulted by the API middleware.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/funny-life2033/HyperDriveAI-backend/pkg/auth"
)

var (
	// ErrEmailTaken is returned by Register when the email already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. Callers must not distinguish the two cases.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a user ID does not exist.
	ErrNotFound = errors.New("user not found")
)

// User is an account. The password hash never leaves the package through
// JSON.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	JWTAuthActive bool      `json:"jwtAuthActive"`
	DateJoined    time.Time `json:"dateJoined"`
}

// RegisterInput holds the fields required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Service provides user account operations.
type Service struct {
	db *sql.DB
}

// NewService creates a user Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user WHERE email = ?", input.Email,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("register: check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO user (username, email, password_hash, jwt_auth_active, date_joined) VALUES (?, ?, ?, 0, ?)",
		input.Username, input.Email, hash, now,
	)
	if err != nil {
		return nil, fmt.Errorf("register: insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("register: last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Login verifies credentials, marks the session active and issues a JWT.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE user SET jwt_auth_active = 1 WHERE id = ?", u.ID,
	); err != nil {
		return nil, "", fmt.Errorf("login: activate session: %w", err)
	}
	u.JWTAuthActive = true

	token, err := auth.GenerateJWT(u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	return u, token, nil
}

// Logout blocklists the presented token and marks the session inactive.
// Blocklisting the same token twice is harmless.
func (s *Service) Logout(ctx context.Context, userID int64, token string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO jwt_token_blocklist (token, created_at) VALUES (?, ?)", token, now,
	); err != nil {
		return fmt.Errorf("logout: blocklist token: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE user SET jwt_auth_active = 0 WHERE id = ?", userID,
	); err != nil {
		return fmt.Errorf("logout: deactivate session: %w", err)
	}
	return nil
}

// IsTokenBlocked reports whether a token has been invalidated by logout.
func (s *Service) IsTokenBlocked(ctx context.Context, token string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM jwt_token_blocklist WHERE token = ?", token,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check token blocklist: %w", err)
	}
	return count > 0, nil
}

// GetByID fetches a user by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, jwt_auth_active, date_joined FROM user WHERE id = ?", id,
	)
	return scanUser(row)
}

func (s *Service) getByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, jwt_auth_active, date_joined FROM user WHERE email = ?", email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u        User
		active   int
		joinedAt string
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &active, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.JWTAuthActive = active != 0
	if t, parseErr := time.Parse(time.RFC3339, joinedAt); parseErr == nil {
		u.DateJoined = t
	}
	return &u, nil
}
