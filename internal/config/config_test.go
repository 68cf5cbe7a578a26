package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "empty config gets defaults",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "tileset.json", c.Loader.ManifestName)
				assert.Equal(t, ".pnts", c.Loader.PayloadExt)
				assert.Equal(t, FormatText, c.Output.Format)
			},
		},
		{
			name: "payload extension is normalized",
			modify: func(c *Config) {
				c.Loader.PayloadExt = "PNTS"
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, ".pnts", c.Loader.PayloadExt)
			},
		},
		{
			name: "format is case insensitive",
			modify: func(c *Config) {
				c.Output.Format = " JSON "
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, FormatJSON, c.Output.Format)
			},
		},
		{
			name: "unknown format",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			modify: func(c *Config) {
				c.Loader.Workers = -1
			},
			wantErr: true,
		},
		{
			name: "zero workers means unbounded",
			modify: func(c *Config) {
				c.Loader.Workers = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.Loader.Workers)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if tt.modify != nil {
				tt.modify(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkers, cfg.Loader.Workers)
	assert.Equal(t, "tileset.json", cfg.Loader.ManifestName)
	assert.Equal(t, ".pnts", cfg.Loader.PayloadExt)
	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.False(t, cfg.Output.Progress)
	assert.False(t, cfg.Logging.Silent)
}

func TestLoad_File(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "loader.yaml")
	content := `
loader:
  workers: 3
  manifest_name: root.json
output:
  format: yaml
  export: out.ply.zst
logging:
  silent: true
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	cfg, err := Load(viper.New(), cfgFile)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Loader.Workers)
	assert.Equal(t, "root.json", cfg.Loader.ManifestName)
	assert.Equal(t, ".pnts", cfg.Loader.PayloadExt)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, "out.ply.zst", cfg.Output.Export)
	assert.True(t, cfg.Logging.Silent)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CESIUM_LOADER_LOADER_WORKERS", "2")
	t.Setenv("CESIUM_LOADER_OUTPUT_FORMAT", "json")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Loader.Workers)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoad_InvalidFormat(t *testing.T) {
	t.Setenv("CESIUM_LOADER_OUTPUT_FORMAT", "csv")

	_, err := Load(viper.New(), "")
	assert.Error(t, err)
}

func TestConfig_LoaderOptions(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	opts := cfg.LoaderOptions("/data/tileset.json")
	assert.Equal(t, "/data/tileset.json", opts.Input)
	assert.Equal(t, cfg.Loader.Workers, opts.Workers)
	assert.Equal(t, cfg.Loader.ManifestName, opts.ManifestName)
	assert.Equal(t, cfg.Loader.PayloadExt, opts.PayloadExt)
}
