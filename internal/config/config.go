// Package config loads service settings from defaults, an optional YAML
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/fatfit/internal/domain"
)

// Environment variable names.
const (
	EnvConfigFile      = "FATFIT_CONFIG"
	EnvPort            = "PORT"
	EnvAddr            = "FATFIT_ADDR"
	EnvCORSOrigins     = "FATFIT_CORS_ORIGINS"
	EnvLogLevel        = "FATFIT_LOG_LEVEL"
	EnvLogJSON         = "FATFIT_LOG_JSON"
	EnvMongoURI        = "MONGO_URI"
	EnvMongoDatabase   = "MONGO_DATABASE"
	EnvFatSecretID     = "FATSECRET_CLIENT_ID"
	EnvFatSecretSecret = "FATSECRET_CLIENT_SECRET"
	EnvFitnessTribeKey = "FITNESS_TRIBE_API_KEY"
	EnvFitnessTribeURL = "FITNESS_TRIBE_BASE_URL"
	EnvJWTSecret       = "JWT_SECRET"
	EnvCookieSecure    = "FATFIT_COOKIE_SECURE"
	EnvResetSpec       = "FATFIT_RESET_SPEC"
	EnvQuizPath        = "FATFIT_QUIZ"
	EnvPlanCacheTTL    = "FATFIT_PLAN_CACHE_TTL"
)

const (
	defaultAddr           = ":3001"
	defaultResetSpec      = "1 0 * * *"
	defaultPlanCacheTTL   = time.Hour
	defaultAIPlanTimeout  = 90 * time.Second
	defaultShutdownPeriod = 10 * time.Second
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Mongo     MongoConfig     `yaml:"mongo"`
	FatSecret FatSecretConfig `yaml:"fatsecret"`
	AI        AIConfig        `yaml:"ai"`
	Auth      AuthConfig      `yaml:"auth"`
	Reset     ResetConfig     `yaml:"reset"`
	QuizPath  string          `yaml:"quiz_path"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// MongoConfig selects the document store. An empty URI means in-memory.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type FatSecretConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
	BaseURL      string `yaml:"base_url"`
}

type AIConfig struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	PlanCacheTTL time.Duration `yaml:"plan_cache_ttl"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

type ResetConfig struct {
	Spec string `yaml:"spec"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: defaultAddr,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"https://fatfit.onrender.com",
				"https://fatfitb-test.onrender.com",
			},
			ShutdownTimeout: defaultShutdownPeriod,
		},
		Logging: LoggingConfig{Level: "info"},
		Mongo:   MongoConfig{Database: "Users"},
		AI: AIConfig{
			Timeout:      defaultAIPlanTimeout,
			PlanCacheTTL: defaultPlanCacheTTL,
		},
		Auth:  AuthConfig{TokenTTL: 24 * time.Hour, CookieSecure: true},
		Reset: ResetConfig{Spec: defaultResetSpec},
	}
}

// Load reads .env (if present), then the YAML file at path (or at
// $FATFIT_CONFIG when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, EnvAddr)
	if port := os.Getenv(EnvPort); port != "" {
		c.Server.Addr = ":" + port
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Mongo.URI, EnvMongoURI)
	setString(&c.Mongo.Database, EnvMongoDatabase)
	setString(&c.FatSecret.ClientID, EnvFatSecretID)
	setString(&c.FatSecret.ClientSecret, EnvFatSecretSecret)
	setString(&c.AI.APIKey, EnvFitnessTribeKey)
	setString(&c.AI.BaseURL, EnvFitnessTribeURL)
	setString(&c.Auth.JWTSecret, EnvJWTSecret)
	setString(&c.Reset.Spec, EnvResetSpec)
	setString(&c.QuizPath, EnvQuizPath)

	if err := setBool(&c.Logging.JSON, EnvLogJSON); err != nil {
		return err
	}
	if err := setBool(&c.Auth.CookieSecure, EnvCookieSecure); err != nil {
		return err
	}
	if v := os.Getenv(EnvPlanCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPlanCacheTTL, err)
		}
		c.AI.PlanCacheTTL = d
	}
	return nil
}

// Validate reports every setting the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.FatSecret.ClientID == "" {
		missing = append(missing, EnvFatSecretID)
	}
	if c.FatSecret.ClientSecret == "" {
		missing = append(missing, EnvFatSecretSecret)
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, EnvJWTSecret)
	}
	if len(missing) > 0 {
		return &domain.ConfigurationError{Fields: missing}
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", env, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
