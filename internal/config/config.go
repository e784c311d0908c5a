// Package config reads the server and CLI settings from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultInspectionTemplate = "https://github.com/FajarDPA/Laporan-Inspeksi/raw/main/INSPEKSI.docx"
	DefaultRBDTemplate        = "https://github.com/FajarDPA/Laporan-Inspeksi/raw/main/RBD.xlsx"
)

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Config struct {
	Port        string
	DBPath      string
	AutoMigrate bool

	InspectionTemplate string
	RBDTemplate        string
	TemplateTimeout    time.Duration

	SMTP SMTP

	VesselsFile  string
	SessionTTL   time.Duration
	RBDSignPlace string
}

// Load reads .env (a missing file is only logged) and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:               get("PORT", "8080"),
		DBPath:             get("DB_PATH", "reports.db"),
		InspectionTemplate: get("TEMPLATE_INSPECTION_URL", DefaultInspectionTemplate),
		RBDTemplate:        get("TEMPLATE_RBD_URL", DefaultRBDTemplate),
		VesselsFile:        getenv("VESSELS_FILE"),
		RBDSignPlace:       get("RBD_SIGN_PLACE", "Jakarta"),
		SMTP: SMTP{
			Host:     getenv("SMTP_HOST"),
			Username: getenv("SMTP_USERNAME"),
			Password: getenv("SMTP_PASSWORD"),
		},
	}
	cfg.SMTP.From = get("SMTP_FROM", cfg.SMTP.Username)

	var err error
	if cfg.AutoMigrate, err = strconv.ParseBool(get("AUTO_MIGRATE", "false")); err != nil {
		return Config{}, fmt.Errorf("AUTO_MIGRATE: %w", err)
	}
	if cfg.SMTP.Port, err = strconv.Atoi(get("SMTP_PORT", "465")); err != nil {
		return Config{}, fmt.Errorf("SMTP_PORT: %w", err)
	}
	if cfg.TemplateTimeout, err = time.ParseDuration(get("TEMPLATE_TIMEOUT", "30s")); err != nil {
		return Config{}, fmt.Errorf("TEMPLATE_TIMEOUT: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "12h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	return cfg, nil
}
