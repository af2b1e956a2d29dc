//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"time"

	"chatkit/contract"
	"chatkit/errors"
)

type IProfileRepository interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (string, error)
	AccountByEmail(ctx context.Context, email string) (Account, bool, error)
	StoreProfile(ctx context.Context, userID string, fields contract.Document) error
	ProfileExists(ctx context.Context, userID string) (bool, error)
}

// Account is the stored identity of one user.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

type ProfileRepository struct {
	store contract.DocumentStore
	log   *slog.Logger
	now   func() time.Time
}

func NewProfileRepository(store contract.DocumentStore, log *slog.Logger) *ProfileRepository {
	return &ProfileRepository{store: store, log: log, now: time.Now}
}

// CreateAccount persists a new user record and returns its ID. The email
// uniqueness check is a read-then-write, same as channel creation.
func (r *ProfileRepository) CreateAccount(ctx context.Context, email, passwordHash string) (string, error) {
	if _, found, err := r.AccountByEmail(ctx, email); err != nil {
		return "", err
	} else if found {
		return "", errors.ErrUserAlreadyExists
	}

	userID := r.store.NewKey(UserCollection)
	err := r.store.Set(ctx, UserCollection, userID, contract.Document{
		fieldID:           userID,
		fieldEmail:        email,
		fieldPasswordHash: passwordHash,
		fieldRoles:        []string{"user"},
		fieldCreated:      r.now().Unix(),
	}, true)
	if err != nil {
		return "", errors.SystemWrap(err, "account creation failed")
	}
	r.log.Info("account created", "userID", userID)
	return userID, nil
}

func (r *ProfileRepository) AccountByEmail(ctx context.Context, email string) (Account, bool, error) {
	records, err := r.store.Find(ctx, UserCollection, contract.Query{
		Field:  fieldEmail,
		Equals: email,
	})
	if err != nil {
		return Account{}, false, errors.SystemWrap(err, "account lookup failed")
	}
	if len(records) == 0 {
		return Account{}, false, nil
	}
	doc := records[0].Fields
	return Account{
		ID:           records[0].Key,
		Email:        docString(doc, fieldEmail),
		PasswordHash: docString(doc, fieldPasswordHash),
		Roles:        docStrings(doc, fieldRoles),
		CreatedAt:    docTime(doc, fieldCreated),
	}, true, nil
}

// StoreProfile merges arbitrary app-level profile fields into the user
// record without touching the account fields.
func (r *ProfileRepository) StoreProfile(ctx context.Context, userID string, fields contract.Document) error {
	if err := r.store.Set(ctx, UserCollection, userID, fields, true); err != nil {
		return errors.SystemWrap(err, "profile update failed")
	}
	return nil
}

func (r *ProfileRepository) ProfileExists(ctx context.Context, userID string) (bool, error) {
	_, found, err := r.store.Get(ctx, UserCollection, userID)
	if err != nil {
		return false, errors.SystemWrap(err, "profile lookup failed")
	}
	return found, nil
}
