package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshkart/freshkart-backend/internal/users"
	pkgauth "github.com/freshkart/freshkart-backend/pkg/auth"
	"github.com/freshkart/freshkart-backend/pkg/config"
	"github.com/freshkart/freshkart-backend/pkg/enums"
	pkgerrors "github.com/freshkart/freshkart-backend/pkg/errors"
)

const userSchema = `CREATE TABLE users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	phone TEXT,
	role TEXT NOT NULL DEFAULT 'user',
	shop_id TEXT,
	is_active INTEGER NOT NULL DEFAULT 1,
	last_login_at DATETIME,
	created_at DATETIME,
	updated_at DATETIME
)`

type fakeSessions struct {
	open    []string
	revoked []string
	err     error
}

func (f *fakeSessions) Open(_ context.Context, accessID string) error {
	if f.err != nil {
		return f.err
	}
	f.open = append(f.open, accessID)
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	if f.err != nil {
		return f.err
	}
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-please-rotate",
		Issuer:            "freshkart",
		ExpirationMinutes: 30,
	}
}

func newAuthService(t *testing.T) (Service, *fakeSessions, *gorm.DB) {
	t.Helper()
	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Exec(userSchema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}

	sessions := &fakeSessions{}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		// Zero password config clamps to the cheapest argon2 parameters.
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	return svc, sessions, conn
}

func authCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected a typed error, got %v", err)
	}
	return typed.Code()
}

func TestRegisterIssuesSessionBackedToken(t *testing.T) {
	svc, sessions, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:    " Asha@Example.com ",
		Password: "correct-horse",
		Name:     " Asha ",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.Email != "asha@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Name != "Asha" {
		t.Fatalf("expected trimmed name, got %q", result.User.Name)
	}
	if result.User.Role != enums.RoleUser {
		t.Fatalf("expected customer role, got %s", result.User.Role)
	}
	if result.User.PasswordHash != "" {
		t.Fatal("password hash must never leave the service")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != enums.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(sessions.open) != 1 || sessions.open[0] != claims.ID {
		t.Fatalf("expected session opened for jti %q, got %v", claims.ID, sessions.open)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "longenough", Name: "A"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short", Name: "A"}},
		{"missing name", RegisterInput{Email: "a@b.com", Password: "longenough"}},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.input)
		if code := authCode(t, err); code != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %s", tc.name, code)
		}
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	input := RegisterInput{Email: "dup@example.com", Password: "correct-horse", Name: "Dup"}

	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, input)
	if code := authCode(t, err); code != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %s", code)
	}
}

func TestLoginVerifiesCredentials(t *testing.T) {
	svc, _, conn := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "asha@example.com", Password: "correct-horse", Name: "Asha"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	// TouchLastLogin persists even when the returned copy predates it.
	var lastLoginCount int64
	if err := conn.Table("users").Where("email = ? AND last_login_at IS NOT NULL", "asha@example.com").Count(&lastLoginCount).Error; err != nil {
		t.Fatalf("read last login: %v", err)
	}
	if lastLoginCount != 1 {
		t.Fatal("expected last_login_at recorded")
	}

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	if code := authCode(t, err); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %s", code)
	}

	_, err = svc.Login(ctx, "nobody@example.com", "whatever")
	if code := authCode(t, err); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %s", code)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, _, conn := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "gone@example.com", Password: "correct-horse", Name: "Gone"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := conn.Exec("UPDATE users SET is_active = 0 WHERE email = ?", "gone@example.com").Error; err != nil {
		t.Fatalf("disable account: %v", err)
	}

	_, err := svc.Login(ctx, "gone@example.com", "correct-horse")
	if code := authCode(t, err); code != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for disabled account, got %s", code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _ := newAuthService(t)
	ctx := context.Background()

	err := svc.Logout(ctx, "  ")
	if code := authCode(t, err); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for blank session id, got %s", code)
	}

	if err := svc.Logout(ctx, "session-abc"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "session-abc" {
		t.Fatalf("expected session revoked, got %v", sessions.revoked)
	}
}
