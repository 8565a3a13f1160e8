// Package config loads service configuration from defaults, an optional YAML
// file and environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/mailer"
	"github.com/jonathan/strategy-profiler/internal/server/ratelimit"
)

// EnvConfigPath names the variable that points at a YAML config file.
const EnvConfigPath = "PROFILER_CONFIG"

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig selects the results store. A postgres URL wins; otherwise
// results go to SQLite at SQLitePath.
type DatabaseConfig struct {
	URL        string `koanf:"url"`
	SQLitePath string `koanf:"sqlite_path"`
}

// AuthConfig holds admin authentication settings.
type AuthConfig struct {
	JWTSecret          string `koanf:"jwt_secret"`
	JWTExpirationHours int    `koanf:"jwt_expiration_hours"`
	BcryptCost         int    `koanf:"bcrypt_cost"`
	PasswordPepper     string `koanf:"password_pepper"`
	AdminPasswordHash  string `koanf:"admin_password_hash"`
	AdminPassword      string `koanf:"admin_password"`
}

// Config is the full service configuration.
type Config struct {
	Server        ServerConfig     `koanf:"server"`
	Database      DatabaseConfig   `koanf:"database"`
	SMTP          mailer.Config    `koanf:"smtp"`
	Auth          AuthConfig       `koanf:"auth"`
	RateLimit     ratelimit.Config `koanf:"rate_limit"`
	ReferencePath string           `koanf:"reference_path"`
	TemplatePath  string           `koanf:"template_path"`
	LogLevel      string           `koanf:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{SQLitePath: db.DefaultSQLitePath},
		SMTP: mailer.Config{
			Port:      mailer.DefaultSMTPPort,
			BackupDir: mailer.DefaultBackupDir,
		},
		Auth: AuthConfig{
			JWTExpirationHours: DefaultJWTExpirationHours,
			BcryptCost:         DefaultBcryptCost,
		},
		RateLimit: ratelimit.DefaultConfig(),
		LogLevel:  "info",
	}
}

// envKeys maps the flat deployment variable names onto config keys.
var envKeys = map[string]string{
	"PORT":                 "server.port",
	"ALLOWED_ORIGINS":      "server.allowed_origins",
	"DATABASE_URL":         "database.url",
	"SQLITE_PATH":          "database.sqlite_path",
	"EMAIL_SENDER":         "smtp.sender",
	"SMTP_SERVER":          "smtp.server",
	"SMTP_PORT":            "smtp.port",
	"SMTP_USERNAME":        "smtp.username",
	"SMTP_PASSWORD":        "smtp.password",
	"EMAIL_LOG_DIR":        "smtp.backup_dir",
	"JWT_SECRET":           "auth.jwt_secret",
	"JWT_EXPIRATION_HOURS": "auth.jwt_expiration_hours",
	"BCRYPT_COST":          "auth.bcrypt_cost",
	"PASSWORD_PEPPER":      "auth.password_pepper",
	"ADMIN_PASSWORD_HASH":  "auth.admin_password_hash",
	"ADMIN_PASSWORD":       "auth.admin_password",
	"RATE_LIMIT_ENABLED":   "rate_limit.enabled",
	"RATE_LIMIT_WHITELIST": "rate_limit.whitelist",
	"RATE_LIMIT_BLACKLIST": "rate_limit.blacklist",
	"REFERENCE_PATH":       "reference_path",
	"TEMPLATE_PATH":        "template_path",
	"LOG_LEVEL":            "log_level",
}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"server.allowed_origins": true,
	"rate_limit.whitelist":   true,
	"rate_limit.blacklist":   true,
}

// Load builds a Config by layering, low to high precedence:
//  1. Default()
//  2. the YAML file at path, or at $PROFILER_CONFIG when path is empty
//  3. environment variables listed in envKeys
//
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	base := Default()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok || value == "" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := *base
	resetLists(k, &cfg)
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resetLists drops default list values that the file or environment
// replaces, so decoding never merges new elements into the defaults.
func resetLists(k *koanf.Koanf, cfg *Config) {
	if k.Exists("server.allowed_origins") {
		cfg.Server.AllowedOrigins = nil
	}
	if k.Exists("rate_limit.whitelist") {
		cfg.RateLimit.Whitelist = nil
	}
	if k.Exists("rate_limit.blacklist") {
		cfg.RateLimit.Blacklist = nil
	}
	if k.Exists("rate_limit.endpoints") {
		cfg.RateLimit.Endpoints = nil
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration has valid values. Auth settings are
// checked separately by JWT, Password and Admin since the CLI runs without them.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return fmt.Errorf("config error: 'smtp.port' must be between 1 and 65535, got %d", c.SMTP.Port)
	}
	if strings.TrimSpace(c.SMTP.BackupDir) == "" {
		return fmt.Errorf("config error: 'smtp.backup_dir' must not be empty")
	}
	if c.Database.URL == "" && strings.TrimSpace(c.Database.SQLitePath) == "" {
		return fmt.Errorf("config error: one of 'database.url' or 'database.sqlite_path' is required")
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("config error: 'log_level': %w", err)
	}
	for i, ep := range c.RateLimit.Endpoints {
		if ep.Path == "" {
			return fmt.Errorf("config error: 'rate_limit.endpoints[%d].path' must not be empty", i)
		}
		if ep.Limit < 0 || ep.Burst < 0 {
			return fmt.Errorf("config error: 'rate_limit.endpoints[%d]' limits must be non-negative", i)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
