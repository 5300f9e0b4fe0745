package config

import (
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"XDG_CONFIG_HOME": "/tmp/xdg",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.OAuthURL != "http://localhost:8000" {
		t.Errorf("Expected OAuth URL derived from API origin, got %s", cfg.OAuthURL)
	}
	if cfg.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.Timeout)
	}
	if cfg.CacheTTL != 30 {
		t.Errorf("Expected default cache TTL 30, got %d", cfg.CacheTTL)
	}
	if cfg.ConfigDir != filepath.Join("/tmp/xdg", "kost") {
		t.Errorf("Expected XDG config dir, got %s", cfg.ConfigDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected default log level warn, got %s", cfg.LogLevel)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"KOST_API_URL":    "kost.example.com/api",
		"KOST_OAUTH_URL":  "https://auth.example.com/",
		"KOST_TIMEOUT":    "5",
		"KOST_CACHE_TTL":  "0",
		"KOST_CONFIG_DIR": "/var/lib/kost",
		"KOST_ALL_PROXY":  "ssh+socks5://jump@bastion:22?private-key=/key",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://kost.example.com/api/" {
		t.Errorf("Expected normalized API URL, got %s", cfg.APIURL)
	}
	if cfg.OAuthURL != "https://auth.example.com" {
		t.Errorf("Expected OAuth URL without trailing slash, got %s", cfg.OAuthURL)
	}
	if cfg.Timeout != 5 || cfg.CacheTTL != 0 {
		t.Errorf("Expected timeout 5 and cache TTL 0, got %d and %d", cfg.Timeout, cfg.CacheTTL)
	}
	if cfg.ConfigDir != "/var/lib/kost" {
		t.Errorf("Expected config dir override, got %s", cfg.ConfigDir)
	}
	if cfg.AllProxy == "" {
		t.Error("Expected proxy to be set")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad scheme", map[string]string{"KOST_API_URL": "ftp://kost.example.com"}},
		{"timeout too low", map[string]string{"KOST_TIMEOUT": "0"}},
		{"timeout too high", map[string]string{"KOST_TIMEOUT": "601"}},
		{"negative cache ttl", map[string]string{"KOST_CACHE_TTL": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanEnv(t, tt.vars))

			if _, err := Load(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestNormalizeAPIURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://localhost:8000/api", "http://localhost:8000/api/"},
		{"http://localhost:8000/api/", "http://localhost:8000/api/"},
		{"kost.example.com", "https://kost.example.com/"},
	}

	for _, tt := range tests {
		got, err := NormalizeAPIURL(tt.input)
		if err != nil {
			t.Errorf("NormalizeAPIURL(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("NormalizeAPIURL(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeAPIURL_MissingHost(t *testing.T) {
	if _, err := NormalizeAPIURL("http://"); err == nil {
		t.Error("Expected error for missing host")
	}
}
