package config

import (
	"errors"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Sugar is assigned by main during startup.
var Sugar = zap.NewNop().Sugar()

type Config struct {
	Address         string `env:"RUN_ADDRESS"`
	BackendBaseURL  string `env:"BACKEND_BASE_URL"`
	MediaBaseURL    string `env:"MEDIA_BASE_URL"`
	Lang            string `env:"BACKEND_LANG"`
	ServiceUserName string `env:"SERVICE_USERNAME"`
	ServicePassword string `env:"SERVICE_PASSWORD"`
	RedisAddr       string `env:"REDIS_URL"`
	GinMode         string `env:"GIN_MODE"`
	ReconcileSpec   string `env:"RECONCILE_CRON"`
}

// Initialize reads flags first and lets environment variables override them,
// after loading a .env file when one is present.
func Initialize() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		Sugar.Infoln("no .env file found, using system environment variables")
	}

	cfg := new(Config)
	pflag.StringVarP(&cfg.Address, "addr", "a", "localhost:8080", "Net address host:port to serve on")
	pflag.StringVarP(&cfg.BackendBaseURL, "backend", "b", "", "Base URL of the rewards backend API")
	pflag.StringVarP(&cfg.MediaBaseURL, "media", "m", "", "Base URL of the static media host")
	pflag.StringVarP(&cfg.Lang, "lang", "l", "en", "lang header sent to the backend (en or ar)")
	pflag.StringVarP(&cfg.RedisAddr, "redis", "r", "", "Redis address for the deferred-task queue (optional)")
	pflag.StringVarP(&cfg.ReconcileSpec, "reconcile", "c", "*/5 * * * *", "Cron spec for the order reconciliation sweep")
	pflag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.BackendBaseURL == "" {
		return nil, errors.New("backend base URL is required (flag -b or BACKEND_BASE_URL)")
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.ReconcileSpec == "" {
		cfg.ReconcileSpec = "*/5 * * * *"
	}

	Sugar.Infow("configuration loaded",
		"address", cfg.Address,
		"backend", cfg.BackendBaseURL,
		"media", cfg.MediaBaseURL,
		"lang", cfg.Lang,
		"redis", cfg.RedisAddr,
	)
	return cfg, nil
}
