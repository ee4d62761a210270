package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("demo@qubicball.com", "demo123", "", "test-secret", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestCheckCredentials(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		email, password string
		want            bool
	}{
		{"demo@qubicball.com", "demo123", true},
		{"demo@qubicball.com", "demo1234", false},
		{"demo@qubicball.com", "Demo123", false},
		{"Demo@qubicball.com", "demo123", false},
		{" demo@qubicball.com", "demo123", false},
		{"demo@qubicball.com", "", false},
		{"", "", false},
		{"demo@qubicball.com", "demo123" + strings.Repeat("x", 80), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, svc.CheckCredentials(tc.email, tc.password), "%q/%q", tc.email, tc.password)
	}
}

func TestNewServiceWithPrecomputedHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := NewService("ops@example.com", "", string(hash), "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, svc.CheckCredentials("ops@example.com", "s3cret"))
	assert.False(t, svc.CheckCredentials("ops@example.com", "demo123"))

	_, err = NewService("ops@example.com", "", "not-a-hash", "k", time.Hour)
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Authenticate(&LoginRequest{Email: "demo@qubicball.com", Password: "demo123"})
	require.NoError(t, err)
	assert.Equal(t, "demo@qubicball.com", user.Email)

	_, err = svc.Authenticate(&LoginRequest{Email: "demo@qubicball.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.GenerateToken(&User{Email: "demo@qubicball.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "demo@qubicball.com", claims.Email)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateTokenRejects(t *testing.T) {
	svc := newTestService(t)

	other, err := NewService("demo@qubicball.com", "demo123", "", "other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.GenerateToken(&User{Email: "demo@qubicball.com"})
	require.NoError(t, err)

	expired, err := NewService("demo@qubicball.com", "demo123", "", "test-secret", -time.Minute)
	require.NoError(t, err)
	stale, err := expired.GenerateToken(&User{Email: "demo@qubicball.com"})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "demo@qubicball.com"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign.Token,
		"expired":      stale.Token,
		"none alg":     unsigned,
	} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
