package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvConfigFile, EnvPort, EnvAddr, EnvCORSOrigins, EnvLogLevel, EnvLogJSON,
		EnvMongoURI, EnvMongoDatabase, EnvFatSecretID, EnvFatSecretSecret,
		EnvFitnessTribeKey, EnvFitnessTribeURL, EnvJWTSecret, EnvCookieSecure,
		EnvResetSpec, EnvQuizPath, EnvPlanCacheTTL,
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, "1 0 * * *", cfg.Reset.Spec)
	assert.Equal(t, "Users", cfg.Mongo.Database)
	assert.Equal(t, time.Hour, cfg.AI.PlanCacheTTL)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:5173")
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "fatfit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  allowed_origins: ["https://app.example.com"]
logging:
  level: debug
fatsecret:
  client_id: file-id
  client_secret: file-secret
ai:
  timeout: 30s
reset:
  spec: "5 0 * * *"
`), 0o600))

	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvFatSecretID, "env-id")
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogJSON, "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "env-id", cfg.FatSecret.ClientID)
	assert.Equal(t, "file-secret", cfg.FatSecret.ClientSecret)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "5 0 * * *", cfg.Reset.Spec)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv(EnvLogJSON, "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestCORSOriginsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCORSOrigins, " https://a.example , ,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{EnvFatSecretID, EnvFatSecretSecret, EnvJWTSecret}, cfgErr.Fields)

	cfg.FatSecret.ClientID = "id"
	cfg.FatSecret.ClientSecret = "secret"
	cfg.Auth.JWTSecret = "jwt"
	assert.NoError(t, cfg.Validate())
}
