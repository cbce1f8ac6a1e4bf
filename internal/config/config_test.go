package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stderr"},
		Dice:    DiceConfig{Source: "seeded", Seed: 7},
		Content: ContentConfig{TacticsDir: "content/tactics", NPCDir: "content/npcs"},
		Simulation: SimulationConfig{
			Duels:       10,
			MaxTurns:    50,
			Parallelism: 2,
			Player:      "apprentice",
			Enemy:       "sophist",
			Difficulty:  "medium",
		},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AggregatesViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Dice.Source = "dev/urandom"
	cfg.Simulation.Duels = 0
	cfg.Simulation.Difficulty = "nightmare"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"logging.level", "dice.source", "simulation.duels", "simulation.difficulty"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := map[string]func(*Config){
		"format":      func(c *Config) { c.Logging.Format = "xml" },
		"output":      func(c *Config) { c.Logging.Output = "" },
		"instr limit": func(c *Config) { c.Scripting.InstructionLimit = -1 },
		"max turns":   func(c *Config) { c.Simulation.MaxTurns = 0 },
		"parallelism": func(c *Config) { c.Simulation.Parallelism = 0 },
		"player":      func(c *Config) { c.Simulation.Player = "" },
		"enemy":       func(c *Config) { c.Simulation.Enemy = "" },
		"npc dir":     func(c *Config) { c.Content.NPCDir = "" },
		"tactics dir": func(c *Config) { c.Content.TacticsDir = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "crypto", cfg.Dice.Source)
	assert.Equal(t, 100, cfg.Simulation.Duels)
	assert.Equal(t, "sophist", cfg.Simulation.Enemy)
	assert.Empty(t, cfg.Simulation.Tactic, "enemy template tactic used by default")
	assert.Equal(t, "content/tactics", cfg.Content.TacticsDir)
	assert.Equal(t, "content/npcs", cfg.Content.NPCDir)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialectic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
dice:
  source: seeded
  seed: 1234
content:
  item_dir: content/items
simulation:
  duels: 3
  tactic: aggressive
  difficulty: hard
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "seeded", cfg.Dice.Source)
	assert.Equal(t, uint64(1234), cfg.Dice.Seed)
	assert.Equal(t, "content/items", cfg.Content.ItemDir)
	assert.Equal(t, 3, cfg.Simulation.Duels)
	assert.Equal(t, 50, cfg.Simulation.MaxTurns, "default kept")
	assert.Equal(t, "hard", cfg.Simulation.Difficulty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DIALECTIC_SIMULATION_DUELS", "9")
	t.Setenv("DIALECTIC_DICE_SOURCE", "seeded")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Simulation.Duels)
	assert.Equal(t, "seeded", cfg.Dice.Source)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  parallelism: 0\n"), 0o600))
	_, err := Load(path)
	assert.ErrorContains(t, err, "simulation.parallelism")
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("simulation.max_turns", 12)
	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Simulation.MaxTurns)
}

func TestValidate_Property_SimulationBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := validConfig()
		cfg.Simulation.Duels = rapid.IntRange(-5, 5).Draw(rt, "duels")
		cfg.Simulation.Parallelism = rapid.IntRange(-5, 5).Draw(rt, "parallelism")
		err := cfg.Validate()
		if cfg.Simulation.Duels >= 1 && cfg.Simulation.Parallelism >= 1 {
			assert.NoError(rt, err)
		} else {
			assert.Error(rt, err)
		}
	})
}
