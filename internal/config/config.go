package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/spf13/viper"
)

// DefaultPath is where the CLI looks for its configuration. A missing file
// there is not an error.
const DefaultPath = "config/config.yaml"

// Config is the full tarok simulator configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Match      MatchConfig      `mapstructure:"match"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig configures the hand engine.
type EngineConfig struct {
	Seed        uint64 `mapstructure:"seed"`
	ReplayLimit int    `mapstructure:"replay_limit"`
}

// MatchConfig configures match bookkeeping.
type MatchConfig struct {
	ArchiveSize int `mapstructure:"archive_size"`
}

// SimulationConfig drives the simulator CLI.
type SimulationConfig struct {
	Matches    int      `mapstructure:"matches"`
	Hands      int      `mapstructure:"hands"`
	Players    []string `mapstructure:"players"`
	SeedOffset uint64   `mapstructure:"seed_offset"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.seed", 0)
	v.SetDefault("engine.replay_limit", 0)

	v.SetDefault("match.archive_size", 64)

	v.SetDefault("simulation.matches", 1)
	v.SetDefault("simulation.hands", 8)
	v.SetDefault("simulation.players", []string{"north", "east", "south", "west"})
	v.SetDefault("simulation.seed_offset", 0)
}

// Load reads the YAML file at path, applies defaults and overlays TAROK_
// environment variables, so TAROK_ENGINE_SEED sets engine.seed.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TAROK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
			if !missing || path != DefaultPath {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values Load cannot default away.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Engine.ReplayLimit < 0 {
		return fmt.Errorf("engine.replay_limit must not be negative, got %d", c.Engine.ReplayLimit)
	}
	if c.Match.ArchiveSize < 1 {
		return fmt.Errorf("match.archive_size must be positive, got %d", c.Match.ArchiveSize)
	}
	if c.Simulation.Matches < 1 {
		return fmt.Errorf("simulation.matches must be positive, got %d", c.Simulation.Matches)
	}
	if c.Simulation.Hands < 1 {
		return fmt.Errorf("simulation.hands must be positive, got %d", c.Simulation.Hands)
	}
	if len(c.Simulation.Players) != 4 {
		return fmt.Errorf("simulation.players needs 4 names, got %d", len(c.Simulation.Players))
	}

	names := mapset.NewSet()
	for _, p := range c.Simulation.Players {
		if p == "" {
			return errors.New("simulation.players contains an empty name")
		}
		if names.Contains(p) {
			return fmt.Errorf("duplicate player name [%s] in simulation.players", p)
		}
		names.Add(p)
	}
	return nil
}
