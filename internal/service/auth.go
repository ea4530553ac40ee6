package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"pixeltrack/api/internal/config"
	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/security"
)

// ErrInvalidCredentials covers every login failure mode so the response
// never reveals whether the account exists.
var ErrInvalidCredentials = errors.New("incorrect username or password")

type UserFinder interface {
	FindByAccountName(ctx context.Context, accountName string) (models.User, error)
}

type LoginRecorder interface {
	Insert(ctx context.Context, event models.LoginEvent) error
}

type AuthService struct {
	users  UserFinder
	logins LoginRecorder
	sec    config.SecurityConfig
	log    zerolog.Logger
}

func NewAuthService(users UserFinder, logins LoginRecorder, sec config.SecurityConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logins: logins,
		sec:    sec,
		log:    log,
	}
}

type LoginResult struct {
	UserID      int
	AccountName string
	Token       string
	ExpiresIn   int
	Expiry      time.Time
}

// Login verifies the credentials against the live account state, issues a
// signed token and appends a login audit row.
func (s *AuthService) Login(ctx context.Context, accountName string, password string) (LoginResult, error) {
	user, err := s.users.FindByAccountName(ctx, accountName)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !user.State.Active() {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !security.VerifyPassword(user.Salt, password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiry, err := security.SignToken(s.sec.TokenSecret, user.AccountName, s.sec.TokenTTL())
	if err != nil {
		return LoginResult{}, err
	}

	event := models.LoginEvent{
		UserID:      user.ID,
		LoginAt:     time.Now().UTC(),
		LoginStatus: 1,
		Token:       token,
		TokenExpiry: expiry,
	}
	if err := s.logins.Insert(ctx, event); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		UserID:      user.ID,
		AccountName: user.AccountName,
		Token:       token,
		ExpiresIn:   s.sec.TokenTTLMinutes,
		Expiry:      expiry,
	}, nil
}
