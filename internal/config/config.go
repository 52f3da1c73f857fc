package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DecodeConfig names the capture input and the generated outputs. Output
// and UESB are optional; empty Output means stdout.
type DecodeConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	UESB   string `mapstructure:"uesb"`
	Format string `mapstructure:"format"` // text | yaml
}

// LumberjackConfig configures rolling log files.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig selects log level, encoder and optional file sink.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"` // console | json
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig controls the optional Prometheus endpoint served while a
// replay runs.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// Config is the top-level configuration.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ErrBadFormat reports an unsupported report format selector.
var ErrBadFormat = errors.New("unsupported report format")

// Load reads configuration from an optional YAML file, NRF24_-prefixed
// environment variables and defaults, in ascending precedence of env over
// file over defaults. A missing file is only an error when a path was
// given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	return load(v, path)
}

// LoadWithFlags is Load with command-line flags layered on top. Changed
// flags take precedence over environment and file values.
func LoadWithFlags(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	bind := func(key, flag string) {
		if f := fs.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
	bind("decode.input", "input")
	bind("decode.output", "output")
	bind("decode.uesb", "uesb")
	bind("decode.format", "format")
	bind("logging.level", "log-level")
	bind("metrics.enable", "metrics")
	bind("metrics.addr", "metrics-addr")
	return load(v, path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("NRF24")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("nrf24decode")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Decode.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("%w: %q", ErrBadFormat, c.Decode.Format)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("decode.format", "text")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.maxSize", 50)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 14)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9109")
	v.SetDefault("metrics.path", "/metrics")
}
