package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is what the CLI needs to reach a table.
type Config struct {
	Backend  string   `mapstructure:"backend"`
	DSN      string   `mapstructure:"dsn"`
	Driver   string   `mapstructure:"driver"`
	Schema   string   `mapstructure:"schema"`
	Table    string   `mapstructure:"table"`
	Columns  []string `mapstructure:"columns"`
	LogLevel string   `mapstructure:"log_level"`
}

func Default() Config {
	return Config{
		Backend:  "sqlite",
		Driver:   "sqlite",
		LogLevel: "info",
	}
}

// flagKeys maps config keys to CLI flag names.
var flagKeys = map[string]string{
	"backend":   "backend",
	"dsn":       "dsn",
	"driver":    "driver",
	"schema":    "schema",
	"table":     "table",
	"columns":   "column",
	"log_level": "log-level",
}

// Load merges, lowest first: defaults, the config file at path (optional,
// format by extension), environment variables with prefix (FSP_DSN for
// dsn), and flags that were set explicitly. flags may be nil.
func Load(prefix, path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("dsn", def.DSN)
	v.SetDefault("driver", def.Driver)
	v.SetDefault("schema", def.Schema)
	v.SetDefault("table", def.Table)
	v.SetDefault("columns", def.Columns)
	v.SetDefault("log_level", def.LogLevel)

	// 1. Config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// 2. Environment variables
	v.SetEnvPrefix(strings.TrimSuffix(prefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. Flags
	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields every query needs.
func (c Config) Validate() error {
	switch c.Backend {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown backend %q (want sqlite or postgres)", c.Backend)
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	if c.Table == "" {
		return fmt.Errorf("table is required")
	}
	return nil
}
