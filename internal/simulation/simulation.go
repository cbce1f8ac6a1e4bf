// Package simulation runs batches of scripted duels between two spawned
// templates and aggregates their outcomes.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/dice"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
	"github.com/cory-johannsen/dialectic/internal/game/npc"
	"github.com/cory-johannsen/dialectic/internal/scripting"
)

// Duelist is one side of every simulated duel.
type Duelist struct {
	Instance npc.Instance
	// Tactic is the loaded tactic name that picks this side's actions.
	Tactic string
}

// Settings bounds a simulation run.
type Settings struct {
	Duels       int
	MaxTurns    int
	Parallelism int
}

// Runner plays Settings.Duels duels between Player and Enemy.
type Runner struct {
	Player   Duelist
	Enemy    Duelist
	Settings Settings
	Engine   *combat.Engine
	// NewRoller returns the roller used by duel i, both for combat rolls and
	// for the tactics' engine.roll.
	NewRoller func(duel int) *dice.Roller
	// NewTactics returns a Manager with every tactic loaded. Each duel gets
	// its own Manager so seeded duels replay regardless of scheduling.
	NewTactics func(roller *dice.Roller) (*scripting.Manager, error)
	Logger     *zap.Logger
}

// DuelResult is the outcome of one duel.
type DuelResult struct {
	Index  int
	Turns  int
	Victor combat.Victor
	// TimedOut is set when the duel hit Settings.MaxTurns without ending.
	TimedOut     bool
	PlayerHealth int
	EnemyHealth  int
	Challenges   int
	Correct      int
	// Knowledge is the player's fallacy knowledge when the duel stopped.
	Knowledge fallacy.Knowledge
}

// Summary aggregates a run.
type Summary struct {
	Results   []DuelResult
	Victories map[combat.Victor]int
	TimedOut  int
	// Experience is the total reward the player earned from victories.
	Experience int
	// Player is the player character after every reward was applied in duel order.
	Player character.Character
}

func (r *Runner) validate() error {
	var errs []error
	if r.Settings.Duels < 1 {
		errs = append(errs, fmt.Errorf("duels must be >= 1, got %d", r.Settings.Duels))
	}
	if r.Settings.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("max turns must be >= 1, got %d", r.Settings.MaxTurns))
	}
	if r.Settings.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be >= 1, got %d", r.Settings.Parallelism))
	}
	if r.Player.Tactic == "" || r.Enemy.Tactic == "" {
		errs = append(errs, errors.New("both duelists need a tactic"))
	}
	if r.Player.Instance.Template == nil || r.Enemy.Instance.Template == nil {
		errs = append(errs, errors.New("both duelists must be spawned from a template"))
	}
	if r.Engine == nil || r.NewRoller == nil || r.NewTactics == nil {
		errs = append(errs, errors.New("engine, roller and tactics factories must be set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("simulation: %w", errors.Join(errs...))
	}
	return nil
}

// Run plays every duel, at most Settings.Parallelism at a time, and
// summarizes them. The first duel error cancels the rest.
//
// Postcondition: on success Summary.Results is ordered by duel index.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.validate(); err != nil {
		return Summary{}, err
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]DuelResult, r.Settings.Duels)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Settings.Parallelism)
	for i := range results {
		g.Go(func() error {
			res, err := r.duel(gctx, logger, i)
			if err != nil {
				return fmt.Errorf("duel %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return r.summarize(logger, results), nil
}

func (r *Runner) duel(ctx context.Context, logger *zap.Logger, i int) (DuelResult, error) {
	roller := r.NewRoller(i)
	tactics, err := r.NewTactics(roller)
	if err != nil {
		return DuelResult{}, err
	}
	defer tactics.Close()

	cbt := r.Engine.StartWithRoller(r.Player.Instance.Combatant(), r.Enemy.Instance.Combatant(), roller)
	defer r.Engine.End(cbt.ID)
	logger = logger.With(zap.Int("duel", i), zap.String("combat_id", cbt.ID.String()))

	res := DuelResult{Index: i}
	var lastPlayer, lastEnemy *combat.Action
	for !cbt.End().Ended && cbt.Turn() < r.Settings.MaxTurns {
		if err := ctx.Err(); err != nil {
			return DuelResult{}, err
		}
		player, enemy := cbt.Player(), cbt.Enemy()
		turn, agreement := cbt.Turn()+1, cbt.AgreementPoints()

		pa, err := tactics.Choose(r.Player.Tactic, scripting.NewView(turn, agreement, player, enemy, lastEnemy))
		if err != nil {
			return DuelResult{}, err
		}
		ea, err := tactics.Choose(r.Enemy.Tactic, scripting.NewView(turn, agreement, enemy, player, lastPlayer))
		if err != nil {
			return DuelResult{}, err
		}

		out, err := r.Engine.ResolveTurn(cbt.ID, pa, ea)
		if err != nil {
			return DuelResult{}, err
		}
		if f := out.FallacyChallenge; f != nil {
			answer := Answer(f, player.Knowledge, roller)
			res.Challenges++
			if f.Challenge.Check(answer) {
				res.Correct++
			}
			if _, err := r.Engine.AnswerChallenge(cbt.ID, answer); err != nil {
				return DuelResult{}, err
			}
		}
		lastPlayer, lastEnemy = &pa, &ea
	}

	end := cbt.End()
	player, enemy := cbt.Player(), cbt.Enemy()
	res.Turns = cbt.Turn()
	res.Victor = end.Victor
	res.TimedOut = !end.Ended
	res.PlayerHealth = player.Stats.Health
	res.EnemyHealth = enemy.Stats.Health
	if player.Knowledge != nil {
		res.Knowledge = player.Knowledge.Clone()
	}
	logger.Debug("duel finished",
		zap.Int("turns", res.Turns),
		zap.String("victor", string(res.Victor)),
		zap.Bool("timed_out", res.TimedOut),
		zap.Int("challenges", res.Challenges),
		zap.Int("correct", res.Correct),
	)
	return res, nil
}

// Answer picks the player's option for a challenge: the correct one when the
// fallacy is known, otherwise a uniform guess.
//
// Postcondition: 0 <= result < fallacy.OptionCount.
func Answer(f *fallacy.Fallacy, k *fallacy.Knowledge, roller combat.DieRoller) int {
	if k != nil && k.Knows(f.ID) {
		return f.Challenge.CorrectIndex
	}
	return roller.RollDie(fallacy.OptionCount) - 1
}

func (r *Runner) summarize(logger *zap.Logger, results []DuelResult) Summary {
	s := Summary{
		Results:   results,
		Victories: make(map[combat.Victor]int),
		Player:    r.Player.Instance.Character,
	}
	reward := r.Enemy.Instance.Template.ExperienceReward
	for _, res := range results {
		if res.TimedOut {
			s.TimedOut++
			continue
		}
		s.Victories[res.Victor]++
		if res.Victor == combat.VictorPlayer && reward > 0 {
			s.Player = character.AddExperience(s.Player, reward)
			s.Experience += reward
		}
	}
	logger.Info("simulation finished",
		zap.Int("duels", len(results)),
		zap.Int("player_wins", s.Victories[combat.VictorPlayer]),
		zap.Int("enemy_wins", s.Victories[combat.VictorEnemy]),
		zap.Int("agreements", s.Victories[combat.VictorAgreement]),
		zap.Int("timed_out", s.TimedOut),
	)
	return s
}

// Report writes a human-readable summary to w.
func (s Summary) Report(w io.Writer, player, enemy string) error {
	challenges, correct, turns := 0, 0, 0
	for _, res := range s.Results {
		challenges += res.Challenges
		correct += res.Correct
		turns += res.Turns
	}
	lines := []string{
		fmt.Sprintf("%s vs %s: %d duels", player, enemy, len(s.Results)),
		fmt.Sprintf("  %-12s %d", "player wins", s.Victories[combat.VictorPlayer]),
		fmt.Sprintf("  %-12s %d", "enemy wins", s.Victories[combat.VictorEnemy]),
		fmt.Sprintf("  %-12s %d", "agreements", s.Victories[combat.VictorAgreement]),
		fmt.Sprintf("  %-12s %d", "timed out", s.TimedOut),
	}
	if len(s.Results) > 0 {
		lines = append(lines, fmt.Sprintf("  %-12s %.1f", "avg turns", float64(turns)/float64(len(s.Results))))
	}
	if challenges > 0 {
		lines = append(lines, fmt.Sprintf("  %-12s %d/%d identified", "challenges", correct, challenges))
	}
	lines = append(lines, fmt.Sprintf("  %-12s +%d xp, now level %d (%d/%d)",
		"progression", s.Experience, s.Player.Level, s.Player.Experience, s.Player.ExperienceToNext))
	if k := s.bestKnowledge(); len(k.Mastered) > 0 {
		mastered := make([]string, 0, len(k.Mastered))
		for id := range k.Mastered {
			mastered = append(mastered, id)
		}
		slices.Sort(mastered)
		lines = append(lines, fmt.Sprintf("  %-12s %v", "mastered", mastered))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// bestKnowledge returns the knowledge of the duel that mastered the most fallacies.
func (s Summary) bestKnowledge() fallacy.Knowledge {
	var best fallacy.Knowledge
	for _, res := range s.Results {
		if len(res.Knowledge.Mastered) > len(best.Mastered) {
			best = res.Knowledge
		}
	}
	return best
}
