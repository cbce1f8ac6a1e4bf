// Package main provides the duel simulator: it spawns two combatant
// templates and plays scripted duels between them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dialectic/internal/config"
	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/dice"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
	"github.com/cory-johannsen/dialectic/internal/game/inventory"
	"github.com/cory-johannsen/dialectic/internal/game/npc"
	"github.com/cory-johannsen/dialectic/internal/observability"
	"github.com/cory-johannsen/dialectic/internal/scripting"
	"github.com/cory-johannsen/dialectic/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := fallacy.DefaultCatalog()
	if cfg.Content.FallacyDir != "" {
		catalog, err = fallacy.LoadDirectory(cfg.Content.FallacyDir)
		if err != nil {
			logger.Fatal("loading fallacy catalog", zap.Error(err))
		}
	}
	difficulty := fallacy.Difficulty(cfg.Simulation.Difficulty)
	pool, err := fallacy.ChallengePool(catalog, difficulty)
	if err != nil {
		logger.Fatal("fallacy catalog cannot serve challenges",
			zap.String("difficulty", string(difficulty)),
			zap.String("fallacy_dir", cfg.Content.FallacyDir),
			zap.Error(err),
		)
	}
	logger.Info("fallacy catalog loaded",
		zap.Int("entries", catalog.Len()),
		zap.Int("challenge_pool", len(pool)),
	)

	conditions := condition.DefaultRegistry()
	if cfg.Content.ConditionDir != "" {
		conditions, err = condition.LoadDirectory(cfg.Content.ConditionDir)
		if err != nil {
			logger.Fatal("loading conditions", zap.Error(err))
		}
	}

	items := inventory.NewRegistry()
	if cfg.Content.ItemDir != "" {
		loaded, err := inventory.LoadItems(cfg.Content.ItemDir)
		if err != nil {
			logger.Fatal("loading items", zap.Error(err))
		}
		if items, err = inventory.NewRegistryFrom(loaded); err != nil {
			logger.Fatal("registering items", zap.Error(err))
		}
	}
	logger.Info("items loaded", zap.Int("count", len(items.All())))

	templates, err := npc.LoadTemplates(cfg.Content.NPCDir)
	if err != nil {
		logger.Fatal("loading npc templates", zap.Error(err))
	}
	logger.Info("loaded npc templates", zap.Int("count", len(templates)))

	player := spawnDuelist(logger, templates, cfg.Simulation.Player, "", catalog, items)
	enemy := spawnDuelist(logger, templates, cfg.Simulation.Enemy, cfg.Simulation.Tactic, catalog, items)

	newRoller := func(duel int) *dice.Roller {
		if cfg.Dice.Source == "seeded" {
			return dice.NewLoggedRoller(dice.NewSeededSource(cfg.Dice.Seed+uint64(duel)), logger)
		}
		return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	}
	newTactics := func(roller *dice.Roller) (*scripting.Manager, error) {
		mgr := scripting.NewManager(roller, logger, cfg.Scripting.InstructionLimit)
		if err := mgr.LoadDirectory(cfg.Content.TacticsDir); err != nil {
			mgr.Close()
			return nil, err
		}
		return mgr, nil
	}

	// Fail fast on a missing tactic rather than inside the first duel.
	scripts, err := newTactics(newRoller(0))
	if err != nil {
		logger.Fatal("loading tactics", zap.Error(err))
	}
	available := make(map[string]bool)
	for _, name := range scripts.Names() {
		available[name] = true
	}
	scripts.Close()
	for _, d := range []simulation.Duelist{player, enemy} {
		if !available[d.Tactic] {
			logger.Fatal("tactic not found",
				zap.String("template", d.Instance.Template.ID),
				zap.String("tactic", d.Tactic),
				zap.String("tactics_dir", cfg.Content.TacticsDir),
			)
		}
	}

	runner := &simulation.Runner{
		Player: player,
		Enemy:  enemy,
		Settings: simulation.Settings{
			Duels:       cfg.Simulation.Duels,
			MaxTurns:    cfg.Simulation.MaxTurns,
			Parallelism: cfg.Simulation.Parallelism,
		},
		// Each duel brings its own roller, so the engine needs no default.
		Engine: combat.NewEngine(nil, combat.Options{
			Catalog:    catalog,
			Conditions: conditions,
			Difficulty: difficulty,
			Logger:     logger,
		}),
		NewRoller:  newRoller,
		NewTactics: newTactics,
		Logger:     logger,
	}

	logger.Info("starting simulation",
		zap.String("player", player.Instance.Template.ID),
		zap.String("enemy", enemy.Instance.Template.ID),
		zap.Int("duels", cfg.Simulation.Duels),
		zap.Int("parallelism", cfg.Simulation.Parallelism),
		zap.String("dice", cfg.Dice.Source),
	)
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Fatal("running simulation", zap.Error(err))
	}

	if err := summary.Report(os.Stdout, player.Instance.Character.Name, enemy.Instance.Character.Name); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}
	fmt.Fprintf(os.Stdout, "done in %s\n", time.Since(start).Round(time.Millisecond))
}

// spawnDuelist spawns template id and picks its tactic: override when set,
// otherwise the template's own.
func spawnDuelist(logger *zap.Logger, templates map[string]*npc.Template, id, override string, catalog *fallacy.Catalog, items *inventory.Registry) simulation.Duelist {
	tmpl, ok := templates[id]
	if !ok {
		logger.Fatal("unknown npc template", zap.String("template", id))
	}
	if err := tmpl.ValidateFallacies(catalog); err != nil {
		logger.Fatal("validating npc fallacies", zap.Error(err))
	}
	inst, err := npc.Spawn(tmpl, items)
	if err != nil {
		logger.Fatal("spawning npc", zap.Error(err))
	}
	tactic := tmpl.Tactic
	if override != "" {
		tactic = override
	}
	logger.Info("spawned duelist",
		zap.String("template", tmpl.ID),
		zap.Int("level", inst.Character.Level),
		zap.Int("max_health", inst.Character.Stats.MaxHealth),
		zap.Strings("fallacies", inst.Knowledge.KnownIDs()),
		zap.String("tactic", tactic),
	)
	return simulation.Duelist{Instance: inst, Tactic: tactic}
}
