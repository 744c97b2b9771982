// Package config loads application configuration from flags, environment
// variables and an optional journeydemo.yaml file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "JOURNEYDEMO"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Log settings.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DevStaticDir is served instead of the embedded UI in dev mode.
const DevStaticDir = "internal/adapter/driving/web/static"

// Config holds the resolved application configuration.
type Config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	StorageDriver   string        `mapstructure:"storage_driver"`
	DBPath          string        `mapstructure:"db_path"`
	SecretKey       string        `mapstructure:"secret_key"`
	EnvFile         string        `mapstructure:"env_file"`
	DevMode         bool          `mapstructure:"dev_mode"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	LogFile         string        `mapstructure:"log_file"`
	StaticDir       string        `mapstructure:"static_dir"`
	UpdateCheck     bool          `mapstructure:"update_check"`
	UpdateRepo      string        `mapstructure:"update_repo"`
	DashboardURL    string        `mapstructure:"dashboard_url"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`
	OpenBrowser     bool          `mapstructure:"open_browser"`

	// ConfigFile is the yaml file that was read, or "".
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"listen_addr":      "127.0.0.1:0",
	"storage_driver":   DriverSQLite,
	"db_path":          "",
	"secret_key":       "",
	"env_file":         ".env",
	"dev_mode":         false,
	"log_level":        "info",
	"log_format":       LogFormatText,
	"log_file":         "",
	"static_dir":       "",
	"update_check":     true,
	"update_repo":      "UseAlloy/journey-application-demo",
	"dashboard_url":    "https://app.alloy.co",
	"rate_limit_rps":   5.0,
	"rate_limit_burst": 10,
	"upstream_timeout": 30 * time.Second,
	"open_browser":     false,
}

// flagNames maps config keys to their command-line flag names.
var flagNames = map[string]string{
	"listen_addr":      "listen",
	"storage_driver":   "storage",
	"db_path":          "db",
	"env_file":         "env-file",
	"dev_mode":         "dev",
	"log_level":        "log-level",
	"log_format":       "log-format",
	"log_file":         "log-file",
	"static_dir":       "static-dir",
	"update_check":     "update-check",
	"rate_limit_rps":   "rate-limit",
	"upstream_timeout": "upstream-timeout",
	"open_browser":     "open",
}

// RegisterFlags defines the flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a journeydemo.yaml config file")
	fs.String("listen", defaults["listen_addr"].(string), "listen address (port 0 picks a free port)")
	fs.String("storage", DriverSQLite, "storage driver: sqlite, bolt or memory")
	fs.String("db", "", "database file (default: user config dir)")
	fs.String("env-file", ".env", "credential fallback file")
	fs.Bool("dev", false, "development mode: serve UI from disk and mirror saved credentials to the env file")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", LogFormatText, "log format: text or json")
	fs.String("log-file", "", "also append logs to this file")
	fs.String("static-dir", "", "serve UI assets from this directory")
	fs.Bool("update-check", true, "check GitHub for a newer release")
	fs.Float64("rate-limit", 5, "proxy requests per second (0 disables)")
	fs.Duration("upstream-timeout", 30*time.Second, "timeout for calls to the Alloy API")
	fs.Bool("open", false, "open the UI in the default browser")
}

// Load resolves configuration with precedence flags > environment > config
// file > defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagNames {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	explicit := ""
	if fs != nil {
		explicit, _ = fs.GetString("config")
	}
	if explicit == "" {
		explicit = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName("journeydemo")
		v.SetConfigType("yaml")
		if dir, err := DataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)

	if cfg.DBPath == "" && cfg.StorageDriver != DriverMemory {
		dir, err := DataDir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(dir, "journeydemo."+dbExtension(cfg.StorageDriver))
	}
	if cfg.DevMode && cfg.StaticDir == "" {
		cfg.StaticDir = DevStaticDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks every field that has a constrained value set.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ListenAddr, validation.Required, validation.By(validateHostPort)),
		validation.Field(&c.StorageDriver, validation.Required, validation.In(DriverSQLite, DriverBolt, DriverMemory)),
		validation.Field(&c.SecretKey, validation.Length(64, 64), is.Hexadecimal),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogFormat, validation.In(LogFormatText, LogFormatJSON)),
		validation.Field(&c.UpdateRepo, validation.When(c.UpdateCheck, validation.Required, validation.By(validateRepo))),
		validation.Field(&c.DashboardURL, validation.Required, is.URL),
		validation.Field(&c.RateLimitRPS, validation.Min(0.0)),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitRPS > 0, validation.Required, validation.Min(1))),
		validation.Field(&c.UpstreamTimeout, validation.Min(time.Duration(0))),
	)
}

// EncryptionKey decodes SecretKey. It returns nil when no key is set, which
// stores settings in plaintext.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.SecretKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("%s_SECRET_KEY: %w", EnvPrefix, err)
	}
	return key, nil
}

// DataDir returns the per-user directory holding the database and the
// optional config file.
func DataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "journeydemo"), nil
}

func dbExtension(driver string) string {
	if driver == DriverBolt {
		return "bolt"
	}
	return "db"
}

func validateHostPort(value any) error {
	addr, _ := value.(string)
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}

func validateRepo(value any) error {
	repo, _ := value.(string)
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return validation.NewError("validation_invalid_repo", "must be owner/repo")
	}
	return nil
}
