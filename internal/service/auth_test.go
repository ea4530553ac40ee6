package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pixeltrack/api/internal/config"
	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/security"
)

type fakeUserFinder struct {
	users map[string]models.User
}

func (f *fakeUserFinder) FindByAccountName(_ context.Context, accountName string) (models.User, error) {
	u, ok := f.users[accountName]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeLoginRecorder struct {
	events []models.LoginEvent
	err    error
}

func (f *fakeLoginRecorder) Insert(_ context.Context, event models.LoginEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeLoginRecorder) {
	t.Helper()

	salt, err := security.GenerateSalt(12)
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	hash, err := security.HashPassword(salt, "correct-horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	users := &fakeUserFinder{users: map[string]models.User{
		"admin": {
			ID:           7,
			AccountName:  "admin",
			Salt:         salt,
			PasswordHash: hash,
			GrantID:      models.GrantAdmin,
			State:        models.ActiveState(),
		},
		"ghost": {
			ID:           8,
			AccountName:  "ghost",
			Salt:         salt,
			PasswordHash: hash,
			GrantID:      models.GrantAdmin,
			State:        models.DeletedState(time.Now().UTC()),
		},
	}}
	logins := &fakeLoginRecorder{}
	sec := config.SecurityConfig{TokenSecret: "test-secret", TokenTTLMinutes: 30}
	return NewAuthService(users, logins, sec, zerolog.Nop()), logins
}

func TestLoginSuccess(t *testing.T) {
	svc, logins := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "admin", "correct-horse")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.UserID != 7 || result.AccountName != "admin" {
		t.Errorf("unexpected identity: %+v", result)
	}
	if result.ExpiresIn != 30 {
		t.Errorf("expected 30 minute expiry, got %d", result.ExpiresIn)
	}

	subject, err := security.ParseToken("test-secret", result.Token)
	if err != nil {
		t.Fatalf("issued token fails verification: %v", err)
	}
	if subject != "admin" {
		t.Errorf("expected token subject admin, got %q", subject)
	}

	if len(logins.events) != 1 {
		t.Fatalf("expected one login event, got %d", len(logins.events))
	}
	event := logins.events[0]
	if event.UserID != 7 || event.LoginStatus != 1 || event.Token != result.Token {
		t.Errorf("unexpected login event: %+v", event)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, logins := newAuthFixture(t)

	if _, err := svc.Login(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(logins.events) != 0 {
		t.Error("failed login should not record an event")
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.Login(context.Background(), "nobody", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginDeletedAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	if _, err := svc.Login(context.Background(), "ghost", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for a deleted user, got %v", err)
	}
}
