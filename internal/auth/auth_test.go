package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), domain.ErrUnauthorized)
}

func TestNewTokensRequiresSecret(t *testing.T) {
	_, err := NewTokens("")
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"JWT_SECRET"}, cfgErr.Fields)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens(testSecret)
	require.NoError(t, err)

	raw, err := tokens.Issue(&domain.User{ID: "u1", Username: "ana", Rights: 2})
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "u1", claims.ID)
	assert.Equal(t, 2, claims.Rights)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestTokenExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tokens, err := NewTokens(testSecret, WithTokenClock(clock))
	require.NoError(t, err)
	raw, err := tokens.Issue(&domain.User{Username: "ana"})
	require.NoError(t, err)

	now = now.Add(23 * time.Hour)
	_, err = tokens.Verify(raw)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenWrongSecret(t *testing.T) {
	a, err := NewTokens(testSecret)
	require.NoError(t, err)
	b, err := NewTokens("another-secret-another-secret-xx")
	require.NoError(t, err)

	raw, err := a.Issue(&domain.User{Username: "ana"})
	require.NoError(t, err)
	_, err = b.Verify(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = a.Verify("not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	tokens, err := NewTokens(testSecret)
	require.NoError(t, err)
	raw, err := tokens.Issue(&domain.User{Username: "ana"})
	require.NoError(t, err)

	h := tokens.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFrom(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(c.Username))
	}))

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
		wantBody string
	}{
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized, "JWT missing"},
		{"invalid", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }, http.StatusUnauthorized, "Invalid JWT"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) }, http.StatusOK, "ana"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: raw}) }, http.StatusOK, "ana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/fatfit/ana", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
