// ABOUTME: Configuration loader for the kost CLI
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL = "http://localhost:8000/api/"
	appDirName    = "kost"
)

type Config struct {
	// Backend
	APIURL   string // base for all REST calls, always ends with "/"
	OAuthURL string // origin serving /accounts/<provider>/login/
	Timeout  int    // seconds per HTTP request (default 30)
	AllProxy string // optional ssh+socks5://user@host:port?private-key=/path

	// Local state
	ConfigDir string // session file and debug log live here
	CacheTTL  int    // seconds to cache list responses (default 30, 0 disables)

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file, then the environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiURL, err := NormalizeAPIURL(getEnv("KOST_API_URL", DefaultAPIURL))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:   apiURL,
		OAuthURL: strings.TrimSuffix(getEnv("KOST_OAUTH_URL", originOf(apiURL)), "/"),
		Timeout:  getEnvInt("KOST_TIMEOUT", 30),
		AllProxy: os.Getenv("KOST_ALL_PROXY"),

		ConfigDir: getEnv("KOST_CONFIG_DIR", DefaultConfigDir()),
		CacheTTL:  getEnvInt("KOST_CACHE_TTL", 30),

		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.Timeout < 1 || cfg.Timeout > 600 {
		return nil, fmt.Errorf("KOST_TIMEOUT must be between 1 and 600, got %d", cfg.Timeout)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("KOST_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	return cfg, nil
}

// NormalizeAPIURL adds a scheme when missing and a trailing slash so that
// relative endpoint paths resolve under the API base.
func NormalizeAPIURL(raw string) (string, error) {
	raw = ensureScheme(strings.TrimSpace(raw))
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid API URL %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String(), nil
}

// DefaultConfigDir returns the default config directory under XDG_CONFIG_HOME
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

// originOf returns scheme://host of a URL
func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
