// Package config loads process configuration from defaults, an optional YAML
// file, a .env file, LENDAS_* environment variables, and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
)

// EnvPrefix is prepended to every environment variable, e.g. LENDAS_LOGGING_LEVEL.
const EnvPrefix = "LENDAS"

// Config is the full process configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Duel    DuelConfig    `mapstructure:"duel"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Server  ServerConfig  `mapstructure:"server"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json
}

// DuelConfig holds rules-independent duel settings.
type DuelConfig struct {
	Seed        uint64 `mapstructure:"seed"` // 0 picks a random seed
	AISide      string `mapstructure:"ai_side"`
	SafetyBound int    `mapstructure:"safety_bound"`
	MaxTurns    int    `mapstructure:"max_turns"` // simulations only
}

// CatalogConfig points at optional card and deck files. Empty paths use the
// embedded catalog.
type CatalogConfig struct {
	Cards string `mapstructure:"cards"`
	Decks string `mapstructure:"decks"`
}

// ServerConfig configures the network adapters.
type ServerConfig struct {
	TCPAddr     string        `mapstructure:"tcp_addr"`
	HTTPAddr    string        `mapstructure:"http_addr"`
	StaticDir   string        `mapstructure:"static_dir"`
	ActionDelay time.Duration `mapstructure:"action_delay"` // pause before each AI turn in UIs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("duel.seed", 0)
	v.SetDefault("duel.ai_side", "p2")
	v.SetDefault("duel.safety_bound", game.DefaultSafetyBound)
	v.SetDefault("duel.max_turns", 200)
	v.SetDefault("catalog.cards", "")
	v.SetDefault("catalog.decks", "")
	v.SetDefault("server.tcp_addr", ":9999")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.action_delay", 400*time.Millisecond)
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":  "logging.level",
	"log-format": "logging.format",
	"seed":       "duel.seed",
	"ai-side":    "duel.ai_side",
	"cards":      "catalog.cards",
	"decks":      "catalog.decks",

	// command-specific
	"safety-bound": "duel.safety_bound",
	"max-turns":    "duel.max_turns",
	"addr":         "server.tcp_addr",
	"http-addr":    "server.http_addr",
	"static-dir":   "server.static_dir",
	"action-delay": "server.action_delay",
}

// RegisterFlags adds the shared flags to flags. Commands may add their own
// flags named in flagKeys. Unset flags do not override other sources.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to YAML config file")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.Uint64("seed", 0, "RNG seed (0 for random)")
	flags.String("ai-side", "p2", "side played by the AI (p1, p2)")
	flags.String("cards", "", "card catalog YAML (default: embedded)")
	flags.String("decks", "", "deck list YAML (default: embedded)")
}

// Load builds the configuration. flags may be nil; when set, its --config flag
// names the YAML file and any flags the user set win over everything else.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := v.GetString("config")
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.Duel.Side(); err != nil {
		return err
	}
	if c.Duel.SafetyBound < 1 {
		return fmt.Errorf("duel.safety_bound must be positive, got %d", c.Duel.SafetyBound)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// Side parses AISide.
func (d DuelConfig) Side() (game.PlayerID, error) {
	switch strings.ToLower(d.AISide) {
	case "p1", "a", "1":
		return game.PlayerA, nil
	case "p2", "b", "2":
		return game.PlayerB, nil
	case "none", "":
		return game.NoPlayer, nil
	default:
		return game.NoPlayer, fmt.Errorf("duel.ai_side: unknown side %q", d.AISide)
	}
}

// NewLogger builds the process logger from the logging section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	return log.NewZap(c.Logging.Level, c.Logging.Format)
}
