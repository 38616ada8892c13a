package fatsecret

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

func TestNewCredentialsExchangerRequiresCredentials(t *testing.T) {
	_, err := NewCredentialsExchanger(Credentials{}, nil)

	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"FATSECRET_CLIENT_ID", "FATSECRET_CLIENT_SECRET"}, ce.Fields)

	_, err = NewCredentialsExchanger(Credentials{ClientID: "id"}, nil)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"FATSECRET_CLIENT_SECRET"}, ce.Fields)
}

func TestCredentialsExchangerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		id, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "app-id", id)
		assert.Equal(t, "app-secret", secret)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc123","token_type":"Bearer","expires_in":86400}`))
	}))
	defer srv.Close()

	ex, err := NewCredentialsExchanger(Credentials{ClientID: "app-id", ClientSecret: "app-secret", TokenURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	grant, err := ex.Exchange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", grant.AccessToken)
	assert.Equal(t, 24*time.Hour, grant.ExpiresIn)
}

func TestCredentialsExchangerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	ex, err := NewCredentialsExchanger(Credentials{ClientID: "id", ClientSecret: "bad", TokenURL: srv.URL}, srv.Client())
	require.NoError(t, err)

	_, err = ex.Exchange(context.Background())
	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.StatusCode)
	assert.Contains(t, pe.Body, "invalid_client")
}

func TestCredentialsExchangerNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ex, err := NewCredentialsExchanger(Credentials{ClientID: "id", ClientSecret: "s", TokenURL: url}, nil)
	require.NoError(t, err)

	_, err = ex.Exchange(context.Background())
	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Zero(t, pe.StatusCode)
	assert.Error(t, pe.Err)
}
