package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"chatkit/auth"
	"chatkit/contract"
	"chatkit/errors"
	"chatkit/repositories"

	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	accounts map[string]repositories.Account
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{accounts: map[string]repositories.Account{}}
}

func (f *fakeProfileRepo) CreateAccount(_ context.Context, email, passwordHash string) (string, error) {
	if _, exists := f.accounts[email]; exists {
		return "", errors.ErrUserAlreadyExists
	}
	id := "user-" + email
	f.accounts[email] = repositories.Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        []string{"user"},
		CreatedAt:    time.Now(),
	}
	return id, nil
}

func (f *fakeProfileRepo) AccountByEmail(_ context.Context, email string) (repositories.Account, bool, error) {
	account, found := f.accounts[email]
	return account, found, nil
}

func (f *fakeProfileRepo) StoreProfile(context.Context, string, contract.Document) error {
	return nil
}

func (f *fakeProfileRepo) ProfileExists(context.Context, string) (bool, error) {
	return false, nil
}

func newTestAuthService(profiles repositories.IProfileRepository, allowedDomains []string) (*AuthService, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewAuthService(profiles, issuer, allowedDomains, slog.Default()), issuer
}

func Test_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should issue a session for a valid registration", func(t *testing.T) {
		req := require.New(t)
		service, issuer := newTestAuthService(newFakeProfileRepo(), nil)

		token, err := service.Register(ctx, "alice@example.com", "s3cret-pass", "s3cret-pass")
		req.NoError(err)

		claims, err := issuer.Validate(string(token))
		req.NoError(err)
		req.Equal("user-alice@example.com", claims.UserID)
	})

	t.Run("should reject blank fields", func(t *testing.T) {
		req := require.New(t)
		service, _ := newTestAuthService(newFakeProfileRepo(), nil)

		_, err := service.Register(ctx, "alice@example.com", "  ", "")
		req.ErrorIs(err, errors.ErrFieldsRequired)
	})

	t.Run("should reject a malformed email", func(t *testing.T) {
		req := require.New(t)
		service, _ := newTestAuthService(newFakeProfileRepo(), nil)

		_, err := service.Register(ctx, "not-an-email", "s3cret-pass", "s3cret-pass")
		req.ErrorIs(err, errors.ErrFieldsRequired)
	})

	t.Run("should reject mismatched confirmation", func(t *testing.T) {
		req := require.New(t)
		service, _ := newTestAuthService(newFakeProfileRepo(), nil)

		_, err := service.Register(ctx, "alice@example.com", "s3cret-pass", "other")
		req.ErrorIs(err, errors.ErrPasswordMismatch)
	})

	t.Run("should enforce the domain allow list", func(t *testing.T) {
		req := require.New(t)
		service, _ := newTestAuthService(newFakeProfileRepo(), []string{"corp.example"})

		_, err := service.Register(ctx, "alice@gmail.com", "s3cret-pass", "s3cret-pass")
		req.ErrorIs(err, errors.ErrDomainNotAllowed)

		_, err = service.Register(ctx, "alice@CORP.example", "s3cret-pass", "s3cret-pass")
		req.NoError(err)
	})

	t.Run("should reject a duplicate account", func(t *testing.T) {
		req := require.New(t)
		service, _ := newTestAuthService(newFakeProfileRepo(), nil)

		_, err := service.Register(ctx, "alice@example.com", "s3cret-pass", "s3cret-pass")
		req.NoError(err)
		_, err = service.Register(ctx, "alice@example.com", "s3cret-pass", "s3cret-pass")
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func Test_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("should return a session for valid credentials", func(t *testing.T) {
		req := require.New(t)
		profiles := newFakeProfileRepo()
		service, issuer := newTestAuthService(profiles, nil)

		_, err := service.Register(ctx, "alice@example.com", "s3cret-pass", "s3cret-pass")
		req.NoError(err)

		token, err := service.Login(ctx, "alice@example.com", "s3cret-pass")
		req.NoError(err)

		claims, err := issuer.Validate(string(token))
		req.NoError(err)
		req.Equal("user-alice@example.com", claims.UserID)
	})

	t.Run("should not reveal whether the account exists", func(t *testing.T) {
		req := require.New(t)
		profiles := newFakeProfileRepo()
		service, _ := newTestAuthService(profiles, nil)

		_, err := service.Register(ctx, "alice@example.com", "s3cret-pass", "s3cret-pass")
		req.NoError(err)

		_, unknownErr := service.Login(ctx, "ghost@example.com", "whatever")
		_, wrongErr := service.Login(ctx, "alice@example.com", "wrong-pass")
		req.ErrorIs(unknownErr, errors.ErrInvalidCredentials)
		req.ErrorIs(wrongErr, errors.ErrInvalidCredentials)
	})
}
