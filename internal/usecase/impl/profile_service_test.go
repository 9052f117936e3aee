package impl

import (
	"context"
	"testing"
	"time"

	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/service"
	"smarttrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileServiceFixtures struct {
	service   usecase.ProfileUsecase
	db        *memDB
	publisher *recordingPublisher
}

func createTestProfileService(t *testing.T) *profileServiceFixtures {
	t.Helper()

	db := newMemDB()
	publisher := &recordingPublisher{}

	return &profileServiceFixtures{
		service: NewProfileService(ProfileServiceParams{
			TxManager:   &memTxManager{db: db},
			AccountRepo: &memAccountRepo{state: db.state},
			Publisher:   publisher,
			Logger:      newDiscardLogger(),
		}),
		db:        db,
		publisher: publisher,
	}
}

func (f *profileServiceFixtures) seed(account entity.Account) uuid.UUID {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.db.state.accounts[account.ID] = account

	return account.ID
}

func TestProfileService_GetCurrentAccount(t *testing.T) {
	f := createTestProfileService(t)
	ctx := context.Background()

	activeID := f.seed(entity.Account{Email: "uma@example.com", PasswordHash: "x", Active: true})
	inactiveID := f.seed(entity.Account{Email: "vic@example.com", PasswordHash: "x", Active: false})

	account, err := f.service.GetCurrentAccount(ctx, activeID)
	require.NoError(t, err)
	assert.Equal(t, "uma@example.com", account.Email)

	_, err = f.service.GetCurrentAccount(ctx, inactiveID)
	assert.ErrorIs(t, err, domainerrors.ErrAccountDeactivated)

	_, err = f.service.GetCurrentAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestProfileService_GetProfile(t *testing.T) {
	f := createTestProfileService(t)
	created := time.Date(2026, 4, 4, 4, 4, 4, 0, time.UTC)
	id := f.seed(entity.Account{
		Email:        "wes@example.com",
		FullName:     "Wes",
		PasswordHash: "x",
		Verified:     true,
		Active:       true,
		CreatedAt:    created,
	})

	out, err := f.service.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, out.ID)
	assert.Equal(t, "Wes", out.FullName)
	assert.True(t, out.Verified)
	assert.Nil(t, out.AvatarURL)
	assert.Equal(t, created, out.CreatedAt)

	_, err = f.service.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	f := createTestProfileService(t)
	ctx := context.Background()
	id := f.seed(entity.Account{Email: "xia@example.com", FullName: "Xia", PasswordHash: "x", Active: true})

	avatar := "https://img.example/xia.png"
	out, err := f.service.UpdateProfile(ctx, id, &usecase.UpdateProfileInput{AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Xia", out.FullName)
	require.NotNil(t, out.AvatarURL)
	assert.Equal(t, avatar, *out.AvatarURL)

	name := "Xia Li"
	out, err = f.service.UpdateProfile(ctx, id, &usecase.UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Xia Li", out.FullName)
	assert.Equal(t, avatar, *out.AvatarURL)

	stored := f.db.state.accounts[id]
	assert.Equal(t, "Xia Li", stored.FullName)

	_, err = f.service.UpdateProfile(ctx, uuid.New(), &usecase.UpdateProfileInput{FullName: &name})
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
}

func TestProfileService_DeleteAccountRemovesTokens(t *testing.T) {
	f := createTestProfileService(t)
	ctx := context.Background()

	id := f.seed(entity.Account{Email: "yan@example.com", PasswordHash: "x", Active: true})
	otherID := f.seed(entity.Account{Email: "zed@example.com", PasswordHash: "x", Active: true})
	for i, owner := range []uuid.UUID{id, id, otherID} {
		tokenID := uuid.New()
		f.db.state.tokens[tokenID] = entity.RefreshToken{ID: tokenID, AccountID: owner, TokenHash: string(rune('a' + i))}
	}

	require.NoError(t, f.service.DeleteAccount(ctx, id))

	assert.Equal(t, 1, f.db.accountCount())
	tokens := f.db.tokens()
	require.Len(t, tokens, 1)
	assert.Equal(t, otherID, tokens[0].AccountID)
	assert.Equal(t, []service.AccountEventType{service.AccountEventDeleted}, f.publisher.types())

	assert.ErrorIs(t, f.service.DeleteAccount(ctx, id), domainerrors.ErrAccountNotFound)
}
