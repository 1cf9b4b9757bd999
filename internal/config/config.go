// Package config loads the server configuration from YAML and environment.
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Sync     SyncConfig     `yaml:"sync"`
	Export   ExportConfig   `yaml:"export"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"NEUANFANG_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"NEUANFANG_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"NEUANFANG_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"NEUANFANG_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"NEUANFANG_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxPhotoBytes   int64         `yaml:"max_photo_bytes"  env:"NEUANFANG_MAX_PHOTO_BYTES"  env-default:"10485760"`
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"NEUANFANG_DB" env-default:"neuanfang.sqlite3"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"NEUANFANG_LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"  env:"NEUANFANG_LOG"`
}

// AuthConfig holds account settings.
type AuthConfig struct {
	OwnerName string        `yaml:"owner_name" env:"NEUANFANG_OWNER"     env-default:"admin"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"NEUANFANG_TOKEN_TTL" env-default:"168h"`
}

// SyncConfig holds the remote backup settings. An empty URL disables sync.
type SyncConfig struct {
	URL       string        `yaml:"url"        env:"NEUANFANG_SYNC_URL"`
	Token     string        `yaml:"token"      env:"NEUANFANG_SYNC_TOKEN"`
	Interval  time.Duration `yaml:"interval"   env:"NEUANFANG_SYNC_INTERVAL"   env-default:"15m"`
	Timeout   time.Duration `yaml:"timeout"    env:"NEUANFANG_SYNC_TIMEOUT"    env-default:"30s"`
	Retries   int           `yaml:"retries"    env:"NEUANFANG_SYNC_RETRIES"    env-default:"3"`
	RetryWait time.Duration `yaml:"retry_wait" env:"NEUANFANG_SYNC_RETRY_WAIT" env-default:"1s"`
}

// Enabled reports whether a remote is configured.
func (s SyncConfig) Enabled() bool {
	return s.URL != ""
}

// ExportConfig holds export settings.
type ExportConfig struct {
	Format string `yaml:"format" env:"NEUANFANG_EXPORT_FORMAT" env-default:"csv"`
}
