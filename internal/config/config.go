package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort      = "8080"
	defaultStorePath = ".hidden-habits-state.json"
)

// Config is everything this service reads from the environment. The hidden
// tab is disabled when no password (or password hash) is set; the remote KV
// strategy is selected when a KV URL is present.
type Config struct {
	Port string

	Password      string
	PasswordHash  string
	SessionSecret string

	RemoteKVURL   string
	RemoteKVToken string
	StorePath     string
}

// Load reads configuration from the environment, after best-effort loading a
// local .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", defaultPort),
		Password:      strings.TrimSpace(os.Getenv("HIDDEN_TAB_PASSWORD")),
		PasswordHash:  strings.TrimSpace(os.Getenv("HIDDEN_TAB_PASSWORD_HASH")),
		SessionSecret: strings.TrimSpace(os.Getenv("HIDDEN_TAB_SESSION_SECRET")),
		RemoteKVURL:   strings.TrimSpace(os.Getenv("REMOTE_KV_URL")),
		RemoteKVToken: strings.TrimSpace(os.Getenv("REMOTE_KV_TOKEN")),
		StorePath:     getEnv("STORE_PATH", defaultStorePath),
	}
	return cfg
}

// UseRemoteKV selects the persistence strategy. This is a deployment
// decision; callers of the repository port never see it.
func (c *Config) UseRemoteKV() bool {
	return c.RemoteKVURL != ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
