package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "text", cfg.Decode.Format)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.False(t, cfg.Metrics.Enable)
	require.Equal(t, ":9109", cfg.Metrics.Addr)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nrf24decode.yaml")
	data := []byte(`
decode:
  input: trace.csv
  format: yaml
logging:
  level: debug
metrics:
  enable: true
  addr: ":9200"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "trace.csv", cfg.Decode.Input)
	require.Equal(t, "yaml", cfg.Decode.Format)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Metrics.Enable)
	require.Equal(t, ":9200", cfg.Metrics.Addr)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NRF24_DECODE_FORMAT", "yaml")
	t.Setenv("NRF24_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "yaml", cfg.Decode.Format)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadBadFormat(t *testing.T) {
	t.Setenv("NRF24_DECODE_FORMAT", "xml")

	_, err := Load("")
	require.ErrorIs(t, err, ErrBadFormat)
}

func TestLoadWithFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("input", "", "")
	fs.String("format", "text", "")
	fs.String("log-level", "info", "")
	require.NoError(t, fs.Parse([]string{"--input", "flag.csv", "--format", "yaml"}))

	cfg, err := LoadWithFlags("", fs)
	require.NoError(t, err)
	require.Equal(t, "flag.csv", cfg.Decode.Input)
	require.Equal(t, "yaml", cfg.Decode.Format)
	require.Equal(t, "info", cfg.Logging.Level)
}
