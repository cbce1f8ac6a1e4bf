// Package config provides Viper-based configuration loading for the dialectic tools.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is where log lines go: "stderr", "stdout", or a file path.
	Output string `mapstructure:"output"`
}

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Source is "crypto" for unpredictable rolls or "seeded" for replayable ones.
	Source string `mapstructure:"source"`
	// Seed is used when Source is "seeded".
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig points at optional external content. An empty directory
// means the built-in content is used.
type ContentConfig struct {
	FallacyDir   string `mapstructure:"fallacy_dir"`
	ItemDir      string `mapstructure:"item_dir"`
	ConditionDir string `mapstructure:"condition_dir"`
	TacticsDir   string `mapstructure:"tactics_dir"`
	// NPCDir holds the combatant templates duels are fought between; it is required.
	NPCDir string `mapstructure:"npc_dir"`
}

// ScriptingConfig bounds Lua tactic execution.
type ScriptingConfig struct {
	// InstructionLimit is the opcode budget per tactic call; 0 uses the package default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// SimulationConfig drives the duel simulator.
type SimulationConfig struct {
	// Duels is how many independent duels to run.
	Duels int `mapstructure:"duels"`
	// MaxTurns stops a duel that has not ended after this many turns.
	MaxTurns int `mapstructure:"max_turns"`
	// Parallelism caps concurrently running duels.
	Parallelism int `mapstructure:"parallelism"`
	// Player is the template id fighting on the player side.
	Player string `mapstructure:"player"`
	// Enemy is the template id fighting on the enemy side.
	Enemy string `mapstructure:"enemy"`
	// Tactic overrides the enemy template's own tactic when set.
	Tactic string `mapstructure:"tactic"`
	// Difficulty is the fallacy challenge difficulty: "easy", "medium" or "hard".
	Difficulty string `mapstructure:"difficulty"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Dice       DiceConfig       `mapstructure:"dice"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateDice(c.Dice),
		validateContent(c.Content),
		validateScripting(c.Scripting),
		validateSimulation(c.Simulation),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDice(d DiceConfig) error {
	if d.Source != "crypto" && d.Source != "seeded" {
		return fmt.Errorf("dice.source must be one of [crypto, seeded], got %q", d.Source)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.TacticsDir == "" {
		errs = append(errs, "content.tactics_dir must not be empty")
	}
	if c.NPCDir == "" {
		errs = append(errs, "content.npc_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Duels < 1 {
		errs = append(errs, fmt.Sprintf("simulation.duels must be >= 1, got %d", s.Duels))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if s.Parallelism < 1 {
		errs = append(errs, fmt.Sprintf("simulation.parallelism must be >= 1, got %d", s.Parallelism))
	}
	if s.Player == "" {
		errs = append(errs, "simulation.player must not be empty")
	}
	if s.Enemy == "" {
		errs = append(errs, "simulation.enemy must not be empty")
	}
	validDifficulties := map[string]bool{"easy": true, "medium": true, "hard": true}
	if !validDifficulties[s.Difficulty] {
		errs = append(errs, fmt.Sprintf("simulation.difficulty must be one of [easy, medium, hard], got %q", s.Difficulty))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and
// environment variables only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DIALECTIC_ prefix
	v.SetEnvPrefix("DIALECTIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("dice.source", "crypto")
	v.SetDefault("dice.seed", 0)

	v.SetDefault("content.fallacy_dir", "")
	v.SetDefault("content.item_dir", "")
	v.SetDefault("content.condition_dir", "")
	v.SetDefault("content.tactics_dir", "content/tactics")
	v.SetDefault("content.npc_dir", "content/npcs")

	v.SetDefault("scripting.instruction_limit", 0)

	v.SetDefault("simulation.duels", 100)
	v.SetDefault("simulation.max_turns", 50)
	v.SetDefault("simulation.parallelism", 4)
	v.SetDefault("simulation.player", "apprentice")
	v.SetDefault("simulation.enemy", "sophist")
	v.SetDefault("simulation.tactic", "")
	v.SetDefault("simulation.difficulty", "medium")
}
