package auth

import (
	"testing"
	"time"

	"feedback-service/internal/biz"
	"feedback-service/internal/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewTokenManager(&conf.Auth{
		Secret:            "test-secret",
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
	})
}

func TestLoginAndVerify(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Login("admin@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", sess.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Login("admin@example.com", "wrong")
	assert.ErrorIs(t, err, biz.ErrAuthRequired)

	_, err = m.Login("someone@else.com", "s3cret")
	assert.ErrorIs(t, err, biz.ErrAuthRequired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, biz.ErrAuthRequired, "token=%q", token)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	m := newTestManager(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	other := NewTokenManager(&conf.Auth{
		Secret:            "different-secret",
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
	})

	token, err := other.Login("admin@example.com", "s3cret")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, biz.ErrAuthRequired)
}

func TestDefaultExpiry(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, 24*time.Hour, m.expiry)
}
