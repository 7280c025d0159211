package config

import (
	"log"
	"os"
	"strconv"
)

const defaultBaseURL = "https://www.etoro.com"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Headless        bool
	Timeout         int // page-load wait, seconds
	DefaultUsername string
	ChromeBin       string
	Debug           bool

	BaseURL string
}

// Load returns a Config populated from the environment. Call after any .env
// loading has happened.
func Load() *Config {
	return &Config{
		Headless:        getEnvBool("BROWSER_HEADLESS", true),
		Timeout:         getEnvInt("BROWSER_TIMEOUT", 30),
		DefaultUsername: getEnv("ETORO_DEFAULT_USERNAME", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),
		Debug:           getEnvBool("DEBUG", false),
		BaseURL:         getEnv("ETORO_BASE_URL", defaultBaseURL),
	}
}

// ProfileURL returns the public profile URL for a username.
func (c *Config) ProfileURL(username string) string {
	return c.BaseURL + "/people/" + username
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.Printf("[config] Ignoring non-numeric %s=%q", key, val)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
