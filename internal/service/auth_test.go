package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, password string) (*AuthService, *memStore) {
	t.Helper()
	snap := fixture()
	if password != "" {
		hash, err := HashPassword(password)
		require.NoError(t, err)
		snap.Users[0].Password = hash
	}
	store := newMemStore(snap)
	return NewAuthService(store, loaded(store)), store
}

func TestLogin(t *testing.T) {
	svc, _ := newAuth(t, "123456")

	u, err := svc.Login(context.Background(), "zs", "123456")
	require.NoError(t, err)
	assert.Equal(t, "U1", u.ID)

	_, err = svc.Login(context.Background(), "zs", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(context.Background(), "nobody", "123456")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginRejectsPlaintextRow(t *testing.T) {
	svc, store := newAuth(t, "")
	store.snap.Users[0].Password = "123456"

	_, err := svc.Login(context.Background(), "zs", "123456")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginStoreError(t *testing.T) {
	svc, store := newAuth(t, "123456")
	store.fail = errRemote

	_, err := svc.Login(context.Background(), "zs", "123456")
	assert.ErrorIs(t, err, errRemote)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, store := newAuth(t, "123456")
	ctx := context.Background()

	err := svc.ChangePassword(ctx, "U1", "123456", "123")
	assert.True(t, IsValidation(err))

	err = svc.ChangePassword(ctx, "U1", "bad-old", "abcdef")
	require.Error(t, err)
	assert.Equal(t, "原密码不正确", err.Error())
	assert.Empty(t, store.Writes())

	require.NoError(t, svc.ChangePassword(ctx, "U1", "123456", "abcdef"))
	assert.Equal(t, []string{"user:U1"}, store.Writes())

	u, err := svc.Login(ctx, "zs", "abcdef")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("abcdef")))

	assert.ErrorIs(t, svc.ChangePassword(ctx, "U404", "x", "abcdef"), ErrNotFound)
}

func TestIsHashed(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, IsHashed(hash))
	assert.False(t, IsHashed("pw"))
	assert.False(t, IsHashed("$2a$garbage"))
	assert.False(t, IsHashed(""))
}
