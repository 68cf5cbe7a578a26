package config

import (
	"fmt"
	"strings"

	"github.com/ecopia-map/cesium_loader/internal/loader"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	DefaultWorkers = 8
	DefaultFormat  = FormatText
)

// Config represents the application configuration
type Config struct {
	Loader  LoaderConfig  `mapstructure:"loader" yaml:"loader"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type LoaderConfig struct {
	Workers      int    `mapstructure:"workers" yaml:"workers"`
	ManifestName string `mapstructure:"manifest_name" yaml:"manifest_name"`
	PayloadExt   string `mapstructure:"payload_ext" yaml:"payload_ext"`
}

type OutputConfig struct {
	Format      string `mapstructure:"format" yaml:"format"`
	Export      string `mapstructure:"export" yaml:"export"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
	Progress    bool   `mapstructure:"progress" yaml:"progress"`
}

type LoggingConfig struct {
	Silent bool `mapstructure:"silent" yaml:"silent"`
}

// Validate normalizes recoverable values and rejects the others
func (c *Config) Validate() error {
	if c.Loader.Workers < 0 {
		return fmt.Errorf("invalid loader.workers %d: must be >= 0", c.Loader.Workers)
	}
	if strings.TrimSpace(c.Loader.ManifestName) == "" {
		c.Loader.ManifestName = loader.DefaultManifestName
	}
	c.Loader.PayloadExt = loader.NormalizeExt(c.Loader.PayloadExt)

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultFormat
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output.format %q: expected one of %s, %s, %s", c.Output.Format, FormatText, FormatJSON, FormatYAML)
	}

	return nil
}

// LoaderOptions builds the runtime options of a load rooted at input
func (c *Config) LoaderOptions(input string) *loader.LoaderOptions {
	opts := &loader.LoaderOptions{
		Input:        input,
		ManifestName: c.Loader.ManifestName,
		PayloadExt:   c.Loader.PayloadExt,
		Workers:      c.Loader.Workers,
	}
	opts.ApplyDefaults()
	return opts
}
