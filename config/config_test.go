package config

import (
	"strings"
	"testing"
)

func TestProfileURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://www.etoro.com"}

	tests := []string{"jaynemesis", "Wesl3y", "a"}

	for _, username := range tests {
		url := cfg.ProfileURL(username)
		want := "https://www.etoro.com/people/" + username
		if url != want {
			t.Errorf("ProfileURL(%q) = %q; want %q", username, url, want)
		}
		if !strings.HasSuffix(url, "/people/"+username) {
			t.Errorf("ProfileURL(%q) = %q; username must be the final path segment", username, url)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BROWSER_HEADLESS", "BROWSER_TIMEOUT", "ETORO_DEFAULT_USERNAME", "ETORO_BASE_URL", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if !cfg.Headless {
		t.Error("expected headless by default")
	}
	if cfg.Timeout != 30 {
		t.Errorf("default timeout = %d; want 30", cfg.Timeout)
	}
	if cfg.BaseURL != "https://www.etoro.com" {
		t.Errorf("default base URL = %q", cfg.BaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("BROWSER_TIMEOUT", "12")
	t.Setenv("ETORO_DEFAULT_USERNAME", "someone")

	cfg := Load()
	if cfg.Headless {
		t.Error("expected headless disabled")
	}
	if cfg.Timeout != 12 {
		t.Errorf("timeout = %d; want 12", cfg.Timeout)
	}
	if cfg.DefaultUsername != "someone" {
		t.Errorf("default username = %q", cfg.DefaultUsername)
	}
}

func TestLoadBadInt(t *testing.T) {
	t.Setenv("BROWSER_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Timeout != 30 {
		t.Errorf("timeout = %d; want fallback 30 on unparseable value", cfg.Timeout)
	}
}
