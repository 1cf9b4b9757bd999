package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration. Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxPhotoBytes <= 0 {
		return fmt.Errorf("server.max_photo_bytes must be > 0 (got %d)", c.Server.MaxPhotoBytes)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("export.format must be csv or xlsx (got %q)", c.Export.Format)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if s.Interval < 0 {
		return fmt.Errorf("interval must be >= 0 (got %s)", s.Interval)
	}
	if s.Retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", s.Retries)
	}
	if !s.Enabled() {
		return nil
	}
	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL (got %q)", s.URL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", s.Timeout)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}
