package user_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/funny-life2033/HyperDriveAI-backend/internal/domain/user"
	"github.com/funny-life2033/HyperDriveAI-backend/internal/infra/sqlite"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "user-service-test-secret!!!!!!!!") //nolint:errcheck
	os.Exit(m.Run())
}

func newTestService(t *testing.T) (*user.Service, *sql.DB) {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	return user.NewService(db), db
}

func TestRegister_CreatesUser(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	u, err := svc.Register(context.Background(), user.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero user ID")
	}
	if u.Email != "alice@example.com" || u.Username != "alice" {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if u.JWTAuthActive {
		t.Error("fresh account should not have an active session")
	}
}

func TestRegister_DuplicateEmail_Fails(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	input := user.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "pw"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, user.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_Success_IssuesTokenAndActivatesSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, user.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	u, token, err := svc.Login(ctx, "carol@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Error("expected a JWT")
	}
	if !u.JWTAuthActive {
		t.Error("login should activate the session")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, user.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "dave@example.com", "nope"},
		{"unknown email", "nobody@example.com", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Login(ctx, tt.email, tt.password); !errors.Is(err, user.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestLogout_BlocklistsTokenAndDeactivates(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, user.RegisterInput{
		Username: "erin", Email: "erin@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	u, token, err := svc.Login(ctx, "erin@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(ctx, u.ID, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	blocked, err := svc.IsTokenBlocked(ctx, token)
	if err != nil {
		t.Fatalf("IsTokenBlocked failed: %v", err)
	}
	if !blocked {
		t.Error("token should be blocklisted after logout")
	}

	refreshed, err := svc.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if refreshed.JWTAuthActive {
		t.Error("logout should deactivate the session")
	}

	// Logging out twice with the same token is not an error.
	if err := svc.Logout(ctx, u.ID, token); err != nil {
		t.Errorf("repeated Logout failed: %v", err)
	}
}

func TestIsTokenBlocked_UnknownToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	blocked, err := svc.IsTokenBlocked(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("IsTokenBlocked failed: %v", err)
	}
	if blocked {
		t.Error("unknown token should not be blocked")
	}
}

func TestGetByID_Missing(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.GetByID(context.Background(), 9999); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
