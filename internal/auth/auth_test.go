// internal/auth/auth_test.go
package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/auth"
	"github.com/jason-s-yu/kokodi/internal/memstore"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string, ttl time.Duration) (*auth.Service, *memstore.Store) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	store := memstore.New()
	return auth.NewService(store, secret, ttl, logrus.NewEntry(logger)), store
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t, "s3cret", time.Hour)

	u, err := svc.Register(ctx, "  alice ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	resolved, err := store.ResolvePlayer(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, resolved)

	token, loggedIn, err := svc.Login(ctx, "ALICE", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, loggedIn.ID)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "s3cret", time.Hour)

	_, err := svc.Register(ctx, "", "hunter22")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)
	_, err = svc.Register(ctx, "bob", "short")
	assert.ErrorIs(t, err, auth.ErrInvalidInput)

	_, err = svc.Register(ctx, "bob", "hunter22")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Bob", "another1")
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, "s3cret", time.Hour)
	_, err := svc.Register(ctx, "alice", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestParseToken_Rejects(t *testing.T) {
	svc, _ := newService(t, "s3cret", time.Hour)
	other, _ := newService(t, "different", time.Hour)
	expired, _ := newService(t, "s3cret", -time.Minute)
	userID := uuid.New()

	foreign, err := other.IssueToken(userID)
	require.NoError(t, err)
	stale, err := expired.IssueToken(userID)
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: userID.String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"expired":      stale,
		"alg none":     unsigned,
		"bad subject":  badSubject,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
