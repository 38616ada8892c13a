package auth

import (
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

// Issuer is the iss claim on every session token.
const (
	Issuer     = "FatFit"
	DefaultTTL = 24 * time.Hour
)

// Claims is the session token payload.
type Claims struct {
	Username string `json:"username"`
	ID       string `json:"id"`
	Rights   int    `json:"rights"`
	jwt.Claims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	signer jose.Signer
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures Tokens.
type TokenOption func(*Tokens)

// WithTTL sets the token lifetime.
func WithTTL(d time.Duration) TokenOption {
	return func(t *Tokens) { t.ttl = d }
}

// WithTokenClock replaces time.Now.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(t *Tokens) { t.now = now }
}

// NewTokens builds a signer for secret. An empty secret is a
// configuration error.
func NewTokens(secret string, opts ...TokenOption) (*Tokens, error) {
	if secret == "" {
		return nil, &domain.ConfigurationError{Fields: []string{"JWT_SECRET"}}
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: []byte(secret)},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating signer: %w", err)
	}

	t := &Tokens{secret: []byte(secret), signer: signer, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue signs a token for user.
func (t *Tokens) Issue(user *domain.User) (string, error) {
	now := t.now()
	claims := Claims{
		Username: user.Username,
		ID:       user.ID,
		Rights:   user.Rights,
		Claims: jwt.Claims{
			Issuer:   Issuer,
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	raw, err := jwt.Signed(t.signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return raw, nil
}

// Verify checks signature, issuer and expiry. Any failure is
// domain.ErrUnauthorized.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	tok, err := jwt.ParseSigned(raw, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	var claims Claims
	if err := tok.Claims(t.secret, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if err := claims.ValidateWithLeeway(jwt.Expected{Issuer: Issuer, Time: t.now()}, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return &claims, nil
}
