// Package config loads the runtime configuration from environment variables,
// optionally overlaid with a YAML file for the list-valued settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// Menu source.
	PDFURL     string
	MenuPage   int
	DayColumns []int

	// Mail settings.
	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
	Recipients   []string

	// Filtering.
	FilterWords     []string
	FilterAllergens []string

	// Optional surfaces.
	Port              string // HTTP server, disabled when empty
	AdminPasswordHash string // bcrypt hash guarding /menu.json, open when empty
	MCPTransport      string // "stdio" enables the MCP server
	RunLogPath        string // sqlite run log, disabled when empty
	RunLogRetention   int    // days of run records to keep, 0 keeps everything
	RefreshInterval   string // re-fetch interval in serve mode, e.g. "6h"

	// DryRun skips mail dispatch and relaxes SMTP validation.
	DryRun bool

	LogLevel string
}

// fileConfig is the YAML shape of the list-valued settings.
type fileConfig struct {
	Recipients      []string `yaml:"recipients"`
	FilterWords     []string `yaml:"filter_words"`
	FilterAllergens []string `yaml:"filter_allergens"`
}

// Load reads the configuration. CONFIG_FILE, when set, names a YAML file
// whose lists override the corresponding environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		PDFURL:            env("MENSA_PDF_URL", "https://www.stw.berlin/assets/speiseplaene/526/aktuelle_woche_de.pdf"),
		SMTPHost:          env("SMTP_HOST", "smtp.gmail.com"),
		SMTPEmail:         os.Getenv("SMTP_EMAIL"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		Recipients:        splitList(os.Getenv("RECIPIENTS")),
		FilterWords:       splitList(os.Getenv("FILTER_WORDS")),
		FilterAllergens:   splitList(os.Getenv("FILTER_ALLERGENS")),
		Port:              os.Getenv("PORT"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		MCPTransport:      os.Getenv("MCP_TRANSPORT"),
		RunLogPath:        os.Getenv("RUN_LOG_DB"),
		RefreshInterval:   env("REFRESH_INTERVAL", "6h"),
		DryRun:            strings.EqualFold(env("DRY_RUN", "false"), "true"),
		LogLevel:          env("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SMTPPort, err = envInt("SMTP_PORT", 465); err != nil {
		return nil, err
	}
	if cfg.MenuPage, err = envInt("MENU_PAGE", 2); err != nil {
		return nil, err
	}
	if cfg.RunLogRetention, err = envInt("RUN_LOG_RETENTION_DAYS", 0); err != nil {
		return nil, err
	}
	if cfg.DayColumns, err = parseColumns(env("DAY_COLUMNS", "4,8,12,16,20")); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	if len(fc.Recipients) > 0 {
		c.Recipients = trimAll(fc.Recipients)
	}
	if len(fc.FilterWords) > 0 {
		c.FilterWords = trimAll(fc.FilterWords)
	}
	if len(fc.FilterAllergens) > 0 {
		c.FilterAllergens = trimAll(fc.FilterAllergens)
	}
	return nil
}

func (c *Config) validate() error {
	if c.DryRun {
		return nil
	}
	if c.SMTPEmail == "" || c.SMTPPassword == "" || len(c.Recipients) == 0 {
		return errors.New("config: SMTP_EMAIL, SMTP_PASSWORD and RECIPIENTS are required (or set DRY_RUN=true)")
	}
	return nil
}

// parseColumns parses the five comma-separated Monday–Friday column indices.
func parseColumns(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) != 5 {
		return nil, fmt.Errorf("config: DAY_COLUMNS needs 5 indices, got %d", len(parts))
	}
	cols := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("config: DAY_COLUMNS entry %q is not a valid index", p)
		}
		cols[i] = v
	}
	return cols, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, v)
	}
	return n, nil
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

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
