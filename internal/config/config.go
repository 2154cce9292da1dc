// Package config loads crosspost settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credentials identify one OAuth app.
type Credentials struct {
	ClientID     string
	ClientSecret string // #nosec G117 - loaded from the environment, never logged
}

// Config holds every setting the CLI and the HTTP server need.
type Config struct {
	ConfigDir   string
	RedirectURI string

	LinkedIn Credentials
	Facebook Credentials

	// Upstream overrides, used by tests and staging.
	LinkedInAPIURL   string
	LinkedInOAuthURL string
	GraphAPIURL      string

	ListenAddr  string
	CORSOrigins []string
	RateLimit   float64
	HTTPTimeout time.Duration

	OTLPEndpoint string
	Verbose      bool
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		ConfigDir:   getEnv("CROSSPOST_CONFIG_DIR", defaultConfigDir()),
		RedirectURI: getEnv("CROSSPOST_REDIRECT_URI", "http://localhost:8080/callback"),

		LinkedIn: Credentials{
			ClientID:     getEnv("CROSSPOST_LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("CROSSPOST_LINKEDIN_CLIENT_SECRET", ""),
		},
		Facebook: Credentials{
			ClientID:     getEnv("CROSSPOST_FACEBOOK_CLIENT_ID", ""),
			ClientSecret: getEnv("CROSSPOST_FACEBOOK_CLIENT_SECRET", ""),
		},

		LinkedInAPIURL:   getEnv("CROSSPOST_LINKEDIN_API_URL", ""),
		LinkedInOAuthURL: getEnv("CROSSPOST_LINKEDIN_OAUTH_URL", ""),
		GraphAPIURL:      getEnv("CROSSPOST_GRAPH_API_URL", ""),

		ListenAddr:  getEnv("CROSSPOST_LISTEN_ADDR", ":8080"),
		CORSOrigins: splitList(getEnv("CROSSPOST_CORS_ORIGINS", "http://localhost:3000")),
		RateLimit:   getEnvFloat64("CROSSPOST_RATE_LIMIT", 5),
		HTTPTimeout: getEnvDuration("CROSSPOST_HTTP_TIMEOUT", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Verbose:      getEnvBool("CROSSPOST_VERBOSE", false),
	}

	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("CROSSPOST_RATE_LIMIT must be positive, got %v", cfg.RateLimit)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("CROSSPOST_HTTP_TIMEOUT must be positive, got %v", cfg.HTTPTimeout)
	}

	return cfg, nil
}

// CredentialsFor returns the OAuth app for provider ("linkedin" or
// "facebook"), failing with the variables to set when it is incomplete.
func (c *Config) CredentialsFor(provider string) (Credentials, error) {
	var creds Credentials
	switch provider {
	case "linkedin":
		creds = c.LinkedIn
	case "facebook":
		creds = c.Facebook
	default:
		return Credentials{}, fmt.Errorf("invalid provider %q: must be 'linkedin' or 'facebook'", provider)
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		upper := strings.ToUpper(provider)
		return Credentials{}, fmt.Errorf("missing credentials: set CROSSPOST_%s_CLIENT_ID and CROSSPOST_%s_CLIENT_SECRET environment variables", upper, upper)
	}
	return creds, nil
}

func defaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "crosspost")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
