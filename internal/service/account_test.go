package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin246j/account-service/internal/domain"
	"github.com/robin246j/account-service/internal/service"
)

func str(s string) *string { return &s }

func TestAccount_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	id, err := acc.Register(ctx, service.RegisterInput{
		Email:       "a@x.com",
		Password:    "pw1",
		DisplayName: "A",
		Username:    "a",
		Token:       "opaque-token-123",
	})
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	u, err := acc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "A", u.DisplayName)
	assert.Equal(t, "a", u.Username)
	// stored token comes back untouched
	assert.Equal(t, "opaque-token-123", u.Token)
}

func TestAccount_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	_, err := acc.Register(ctx, service.RegisterInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = acc.Register(ctx, service.RegisterInput{Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, 1, users.count(), "store must hold exactly one record for the email")
}

func TestAccount_LoginFailures(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	_, err := acc.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = acc.Register(ctx, service.RegisterInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = acc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAccount_StoresHashNotPassword(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	_, err := acc.Register(ctx, service.RegisterInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	u, err := users.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
	assert.False(t, u.EmailVerified, "new users start unverified")
}

func TestAccount_UpdateProfile_PartialOverwrite(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	_, err := acc.Register(ctx, service.RegisterInput{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	require.NoError(t, acc.UpdateProfile(ctx, "a@x.com", domain.Profile{
		Bio:     str("hello"),
		Address: str("somewhere"),
	}))
	// second update touches only phone; bio/address must survive
	require.NoError(t, acc.UpdateProfile(ctx, "a@x.com", domain.Profile{
		PhoneNumber: str("555-0100"),
	}))

	u, err := users.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotNil(t, u.Profile.Bio)
	assert.Equal(t, "hello", *u.Profile.Bio)
	require.NotNil(t, u.Profile.Address)
	assert.Equal(t, "somewhere", *u.Profile.Address)
	require.NotNil(t, u.Profile.PhoneNumber)
	assert.Equal(t, "555-0100", *u.Profile.PhoneNumber)
	assert.Nil(t, u.Profile.Cultivation)
}

func TestAccount_UpdateProfile_UpsertCreates(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	acc := service.NewAccount(users)

	// nobody registered — upsert quirk creates a profile-only document
	require.NoError(t, acc.UpdateProfile(ctx, "new@x.com", domain.Profile{Bio: str("b")}))

	u, err := users.FindUserByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Empty(t, u.PasswordHash)
	require.NotNil(t, u.Profile.Bio)
	assert.Equal(t, "b", *u.Profile.Bio)
}
