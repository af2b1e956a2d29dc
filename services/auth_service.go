//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"

	"chatkit/auth"
	"chatkit/errors"
	"chatkit/repositories"
)

type IAuthService interface {
	Register(ctx context.Context, email, password, confirm string) (Token, error)
	Login(ctx context.Context, email, password string) (Token, error)
}

type Token string

// AuthService turns credentials into sessions. It owns trimming and
// policy; hashing lives in auth, persistence in the profile repository.
type AuthService struct {
	profiles       repositories.IProfileRepository
	issuer         *auth.TokenIssuer
	allowedDomains []string // empty means any domain registers
	log            *slog.Logger
}

func NewAuthService(profiles repositories.IProfileRepository, issuer *auth.TokenIssuer, allowedDomains []string, log *slog.Logger) *AuthService {
	return &AuthService{profiles: profiles, issuer: issuer, allowedDomains: allowedDomains, log: log}
}

// Register creates an account and returns its first session token.
func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (Token, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	confirm = strings.TrimSpace(confirm)

	// 1. Shape checks, before anything expensive or remote.
	if email == "" || password == "" || confirm == "" {
		return "", errors.ErrFieldsRequired
	}
	if err := auth.ValidateCredentials(auth.Credentials{Email: email, Password: password}); err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.ErrPasswordMismatch
	}
	if !auth.AllowedDomain(email, s.allowedDomains) {
		return "", errors.ErrDomainNotAllowed
	}

	// 2. Hash here so the repository never sees a plain password.
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", errors.SystemWrap(err, "password hashing failed")
	}

	// 3. Persist; ErrUserAlreadyExists propagates untouched.
	userID, err := s.profiles.CreateAccount(ctx, email, hash)
	if err != nil {
		return "", err
	}

	// 4. First session.
	token, err := s.issuer.Issue(userID, []string{"user"})
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	s.log.Info("account registered", "userID", userID)
	return Token(token), nil
}

// Login verifies credentials and returns a session token. Lookup and
// verification failures collapse into one generic error so callers
// cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", errors.ErrFieldsRequired
	}

	account, found, err := s.profiles.AccountByEmail(ctx, email)
	if err != nil || !found {
		return "", errors.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID, account.Roles)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	s.log.Debug("user logged in", "userID", account.ID)
	return Token(token), nil
}
