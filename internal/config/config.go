// Package config loads the console configuration from the environment, with
// an optional .env file for development.
package config

import (
	"errors"

	"github.com/joho/godotenv"

	"github.com/lbatschelet/feelvonroll-admin/internal/utils"
)

type Config struct {
	Addr            string // listen address
	APIBaseURL      string // upstream feelvonroll API
	InstallationURL string // public installation frontend, used for station QR URLs
	SessionSecret   string // signs session cookies and seals upstream tokens
	StaticDir       string // optional: serve the built console frontend
	DevFrontendURL  string // optional: proxy / to a frontend dev server
	AllowOrigin     string // optional: CORS origin for a separately served frontend
	PageSize        int    // default pin list page size
}

// Load reads .env (if present) and the environment. The API base URL and the
// session secret have no safe defaults and must be set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:            utils.SafeEnv("FVR_ADDR", ":8080"),
		APIBaseURL:      utils.SafeEnv("FVR_API_URL", ""),
		InstallationURL: utils.SafeEnv("FVR_INSTALLATION_URL", "https://feelvonroll.ch"),
		SessionSecret:   utils.SafeEnv("FVR_SESSION_SECRET", ""),
		StaticDir:       utils.SafeEnv("FVR_STATIC_DIR", ""),
		DevFrontendURL:  utils.SafeEnv("FVR_DEV_FRONTEND_URL", ""),
		AllowOrigin:     utils.SafeEnv("FVR_ALLOW_ORIGIN", ""),
		PageSize:        utils.SafeEnvInt("FVR_PAGE_SIZE", 25),
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("FVR_API_URL required")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("FVR_SESSION_SECRET required")
	}
	return cfg, nil
}
