package repositories

import (
	"context"
	"log/slog"
	"testing"

	"chatkit/contract"
	"chatkit/errors"

	"github.com/stretchr/testify/require"
)

func Test_CreateAccount_Then_Lookup_By_Email(t *testing.T) {
	req := require.New(t)
	repo := NewProfileRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	id, err := repo.CreateAccount(ctx, "alice@example.com", "hash")
	req.NoError(err)
	req.NotEmpty(id)

	account, found, err := repo.AccountByEmail(ctx, "alice@example.com")
	req.NoError(err)
	req.True(found)
	req.Equal(id, account.ID)
	req.Equal("alice@example.com", account.Email)
	req.Equal("hash", account.PasswordHash)
	req.Equal([]string{"user"}, account.Roles)
	req.False(account.CreatedAt.IsZero())
}

func Test_CreateAccount_Rejects_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repo := NewProfileRepository(newTestStore(t), slog.Default())
	ctx := context.Background()

	_, err := repo.CreateAccount(ctx, "alice@example.com", "hash")
	req.NoError(err)

	_, err = repo.CreateAccount(ctx, "alice@example.com", "other")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_StoreProfile_Merges_Without_Clobbering_Account(t *testing.T) {
	req := require.New(t)
	store := newTestStore(t)
	repo := NewProfileRepository(store, slog.Default())
	ctx := context.Background()

	id, err := repo.CreateAccount(ctx, "alice@example.com", "hash")
	req.NoError(err)

	err = repo.StoreProfile(ctx, id, contract.Document{"displayName": "Alice"})
	req.NoError(err)

	account, found, err := repo.AccountByEmail(ctx, "alice@example.com")
	req.NoError(err)
	req.True(found)
	req.Equal("hash", account.PasswordHash)

	exists, err := repo.ProfileExists(ctx, id)
	req.NoError(err)
	req.True(exists)
}

func Test_ProfileExists_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := NewProfileRepository(newTestStore(t), slog.Default())

	exists, err := repo.ProfileExists(context.Background(), "ghost")
	req.NoError(err)
	req.False(exists)
}
