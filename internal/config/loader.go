package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ecopia-map/cesium_loader/internal/loader"
)

const EnvPrefix = "CESIUM_LOADER"

// Load reads the configuration from defaults, an optional YAML file and
// CESIUM_LOADER_* environment variables, in increasing order of precedence.
// Flags bound to v by the caller take precedence over all of them.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("loader.workers", DefaultWorkers)
	v.SetDefault("loader.manifest_name", loader.DefaultManifestName)
	v.SetDefault("loader.payload_ext", loader.DefaultPayloadExt)

	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.export", "")
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("output.progress", false)

	v.SetDefault("logging.silent", false)
}
