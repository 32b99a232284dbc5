// Package config loads the icegraph command line configuration.
//
// Settings come, in increasing precedence, from defaults, an icegraph.yaml file in the
// working directory (or the file named by --config), ICEGRAPH_* environment variables
// and command line flags. Nested keys map to variables with underscores, so store.path
// is read from ICEGRAPH_STORE_PATH.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/icegraph"
	"github.com/syssam/icegraph/dialect"
	"github.com/syssam/icegraph/engine"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ICEGRAPH"

// Config is the icegraph command line configuration.
type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Generate GenerateConfig `mapstructure:"generate"`
	Verbose  bool           `mapstructure:"verbose"`
}

// StoreConfig selects and configures the store the engine commands operate on.
type StoreConfig struct {
	Path     string `mapstructure:"path"`
	Dialect  string `mapstructure:"dialect"`
	Codec    string `mapstructure:"codec"`
	HeadSize int    `mapstructure:"head_size"`
}

// GenerateConfig configures the generate command.
type GenerateConfig struct {
	Schema  string `mapstructure:"schema"`
	Target  string `mapstructure:"target"`
	Package string `mapstructure:"package"`
	Header  string `mapstructure:"header"`
	Workers int    `mapstructure:"workers"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"store":   "store.path",
	"dialect": "store.dialect",
	"codec":   "store.codec",
	"head":    "store.head_size",
	"schema":  "generate.schema",
	"target":  "generate.target",
	"package": "generate.package",
	"header":  "generate.header",
	"workers": "generate.workers",
	"verbose": "verbose",
}

// Load reads the configuration. configFile may be empty to look for icegraph.yaml in
// the working directory. Flags of cmd that are set override every other source.
func Load(configFile string, cmd *cobra.Command) (*Config, error) {
	v := viper.New()

	v.SetDefault("store.path", "")
	v.SetDefault("store.dialect", dialect.Badger)
	v.SetDefault("store.codec", icegraph.DefaultCodec.Name())
	v.SetDefault("store.head_size", engine.DefaultHeadSize)
	v.SetDefault("generate.schema", "schema.yml")
	v.SetDefault("generate.target", "")
	v.SetDefault("generate.package", "")
	v.SetDefault("generate.header", "")
	v.SetDefault("generate.workers", 0)
	v.SetDefault("verbose", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("icegraph")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Dialect {
	case dialect.Badger, dialect.Bolt, dialect.SQLite:
	default:
		return fmt.Errorf("invalid store dialect %q (want %s, %s or %s)", c.Store.Dialect, dialect.Badger, dialect.Bolt, dialect.SQLite)
	}
	if _, ok := icegraph.CodecByName(c.Store.Codec); !ok {
		return fmt.Errorf("invalid store codec %q", c.Store.Codec)
	}
	if c.Store.HeadSize < 1 {
		return fmt.Errorf("store head size must be positive, got %d", c.Store.HeadSize)
	}
	if c.Generate.Workers < 0 {
		return fmt.Errorf("generate workers must not be negative, got %d", c.Generate.Workers)
	}
	return nil
}

// RequireStore returns an error unless a store path is configured.
func (c *Config) RequireStore() error {
	if c.Store.Path == "" {
		return fmt.Errorf("no store configured: pass --store or set %s_STORE_PATH", EnvPrefix)
	}
	return nil
}

// Codec returns the configured codec.
func (c *Config) Codec() icegraph.Codec {
	codec, _ := icegraph.CodecByName(c.Store.Codec)
	return codec
}
