package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/database"
	tinyhttp "github.com/sagarc03/tinyweb/http"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for tinyweb.
type Config struct {
	// Env selects the log output: "prod"/"production" log JSON, anything
	// else logs colored text.
	Env     string        `mapstructure:"env"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Dev     DevConfig     `mapstructure:"dev"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds the step engine and its TCP listener settings.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
	// ReadTimeout and PollInterval are in milliseconds.
	ReadTimeout    int `mapstructure:"read_timeout" validate:"min=1"`
	PollInterval   int `mapstructure:"poll_interval" validate:"min=1"`
	FileChunkSize  int `mapstructure:"file_chunk_size" validate:"min=1"`
	MaxRequestLine int `mapstructure:"max_request_line" validate:"min=16"`
	MaxBodySize    int `mapstructure:"max_body_size" validate:"min=0"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Type     string `mapstructure:"type" validate:"required,oneof=filesystem sqlite postgres"`
	Path     string `mapstructure:"path" validate:"required_if=Type filesystem"`
	DSN      string `mapstructure:"dsn" validate:"required_unless=Type filesystem"`
	Table    string `mapstructure:"table" validate:"required"`
	Capacity int64  `mapstructure:"capacity" validate:"min=0"`
}

// DevConfig holds the desktop mirror server configuration.
type DevConfig struct {
	Port int                 `mapstructure:"port" validate:"required,min=1,max=65535"`
	CORS tinyhttp.CORSConfig `mapstructure:"cors"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// EngineConfig converts the server settings into a tinyweb.Config. Logger,
// Clock and Yield are left for the caller.
func (c ServerConfig) EngineConfig() tinyweb.Config {
	return tinyweb.Config{
		ReadTimeout:    time.Duration(c.ReadTimeout) * time.Millisecond,
		FileChunkSize:  c.FileChunkSize,
		MaxRequestLine: c.MaxRequestLine,
		MaxBodySize:    c.MaxBodySize,
	}
}

// DatabaseConfig converts the storage settings into a database.Config.
func (c StorageConfig) DatabaseConfig() database.Config {
	return database.Config{
		Type:     c.Type,
		Path:     c.Path,
		DSN:      c.DSN,
		Table:    c.Table,
		Capacity: c.Capacity,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"storage-type": "storage.type",
	"storage-dsn":  "storage.dsn",
	"storage-path": "storage.path",
	"port":         "server.port",
	"dev-port":     "dev.port",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 500) // milliseconds
	v.SetDefault("server.poll_interval", 1)  // milliseconds
	v.SetDefault("server.file_chunk_size", tinyweb.DefaultFileChunkSize)
	v.SetDefault("server.max_request_line", tinyweb.DefaultMaxRequestLine)
	v.SetDefault("server.max_body_size", tinyweb.DefaultMaxBodySize)

	v.SetDefault("storage.type", "filesystem")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.table", "tinyweb_files")
	v.SetDefault("storage.capacity", 1<<20)

	v.SetDefault("dev.port", 8081)
	v.SetDefault("dev.cors.enabled", false)
	v.SetDefault("dev.cors.allowed_origins", []string{"*"})
	v.SetDefault("dev.cors.allowed_methods", []string{"GET", "PUT", "POST", "DELETE"})

	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("TINYWEB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
