package fatsecret

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

// DefaultTokenURL is FatSecret's OAuth 2.0 token endpoint.
const DefaultTokenURL = "https://oauth.fatsecret.com/connect/token"

const providerOAuth = "fatsecret oauth"

// Credentials identify the application to FatSecret.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// CredentialsExchanger performs the client-credentials grant with
// golang.org/x/oauth2, authenticating with HTTP Basic.
type CredentialsExchanger struct {
	cfg  clientcredentials.Config
	http *http.Client
}

// NewCredentialsExchanger validates the credentials up front. A missing id or
// secret is a *domain.ConfigurationError and is not retried.
func NewCredentialsExchanger(creds Credentials, httpClient *http.Client) (*CredentialsExchanger, error) {
	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, "FATSECRET_CLIENT_ID")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "FATSECRET_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{Fields: missing}
	}

	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &CredentialsExchanger{
		cfg: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
			Scopes:       creds.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		http: httpClient,
	}, nil
}

// Exchange trades the credentials for a bearer token.
func (e *CredentialsExchanger) Exchange(ctx context.Context) (Grant, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.http)

	tok, err := e.cfg.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			status := 0
			if re.Response != nil {
				status = re.Response.StatusCode
			}
			return Grant{}, &domain.ProviderError{Provider: providerOAuth, StatusCode: status, Body: string(re.Body), Err: err}
		}
		return Grant{}, &domain.ProviderError{Provider: providerOAuth, Err: err}
	}

	var ttl time.Duration
	if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry).Round(time.Second)
	}
	return Grant{AccessToken: tok.AccessToken, ExpiresIn: ttl}, nil
}
