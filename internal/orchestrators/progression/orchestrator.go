// Package progression implements stat training and experience-based leveling
package progression

//go:generate mockgen -destination=mock/mock_service.go -package=progressionmock github.com/emberforge/wildlands/internal/orchestrators/progression Service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

const (
	// TrainingCooldown is the minimum gap between sessions for one stat
	TrainingCooldown = 30 * time.Minute

	// CriticalTrainingChance is the independent roll for a +2 gain
	CriticalTrainingChance = 0.10

	baseEnergyCost = 20
	baseGoldCost   = 50
)

// Reasons CanTrain returns for refusing a session
const (
	ReasonDead               = "character is dead"
	ReasonInsufficientEnergy = "not enough energy"
	ReasonInsufficientGold   = "not enough gold"
	ReasonCooldown           = "training is on cooldown"
)

// Service defines the interface for progression operations
type Service interface {
	// TrainingCost returns the energy and gold cost for training the stat
	TrainingCost(ch *entities.Character, stat entities.Stat) (energy, gold int)

	// CanTrain reports whether a training session is allowed right now.
	// It never errors; the empty reason means training is allowed.
	CanTrain(ch *entities.Character, stat entities.Stat) (bool, string)

	// Train runs one training session
	Train(ctx context.Context, input *TrainInput) (*TrainOutput, error)

	// CanLevelUp reports whether accumulated experience crosses the
	// class threshold for the character's current level
	CanLevelUp(ch *entities.Character, class *entities.Class) bool

	// LevelUp applies one level gain. A no-op result when below threshold.
	LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error)
}

// Config holds the dependencies for the progression orchestrator
type Config struct {
	Clock clock.Clock
	Rng   rng.Source
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Rng == nil {
		vb.RequiredField("Rng")
	}

	return vb.Build()
}

type orchestrator struct {
	clock clock.Clock
	rng   rng.Source
}

// NewOrchestrator creates a new progression orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		clock: cfg.Clock,
		rng:   cfg.Rng,
	}, nil
}

// TrainingCost grows with the current stat value so single-stat stacking
// gets progressively expensive.
func (o *orchestrator) TrainingCost(ch *entities.Character, stat entities.Stat) (int, int) {
	v := float64(ch.Stats.Get(stat))
	energy := int(math.Floor(baseEnergyCost * (1 + v*0.1)))
	gold := int(math.Floor(baseGoldCost * (1 + v*0.05)))
	return energy, gold
}

func (o *orchestrator) CanTrain(ch *entities.Character, stat entities.Stat) (bool, string) {
	if !ch.IsAlive() {
		return false, ReasonDead
	}

	energy, gold := o.TrainingCost(ch, stat)
	if ch.Energy < energy {
		return false, ReasonInsufficientEnergy
	}
	if ch.Gold < gold {
		return false, ReasonInsufficientGold
	}

	if last, ok := ch.LastTraining[stat]; ok {
		if o.clock.Now().Sub(last) < TrainingCooldown {
			return false, ReasonCooldown
		}
	}

	return true, ""
}

// SuccessRate returns the percentage chance a session improves the stat
func SuccessRate(statValue int) int {
	rate := 95 - statValue*2
	if rate < 50 {
		rate = 50
	}
	return rate
}

func (o *orchestrator) Train(ctx context.Context, input *TrainInput) (*TrainOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if !input.Stat.IsValid() {
		return nil, errors.InvalidArgumentf("unknown stat %q", input.Stat)
	}

	ch := input.Character
	if ok, reason := o.CanTrain(ch, input.Stat); !ok {
		return nil, errors.FailedPrecondition(reason)
	}

	energy, gold := o.TrainingCost(ch, input.Stat)
	oldValue := ch.Stats.Get(input.Stat)

	// Cost and cooldown apply whether or not the session succeeds
	out := ch.Clone()
	out.Energy -= energy
	out.Gold -= gold
	out.LastTraining[input.Stat] = o.clock.Now()
	out.LastActive = o.clock.Now()

	success := o.rng.Chance(float64(SuccessRate(oldValue)) / 100)
	critical := false
	gain := 0
	if success {
		critical = o.rng.Chance(CriticalTrainingChance)
		gain = 1
		if critical {
			gain = 2
		}
		out.Stats = out.Stats.Add(input.Stat, gain)
	}

	slog.InfoContext(ctx, "training session resolved",
		"character_id", ch.ID,
		"stat", input.Stat,
		"success", success,
		"critical", critical,
		"energy_cost", energy,
		"gold_cost", gold)

	return &TrainOutput{
		Character:  out,
		Stat:       input.Stat,
		OldValue:   oldValue,
		NewValue:   out.Stats.Get(input.Stat),
		EnergyCost: energy,
		GoldCost:   gold,
		Success:    success,
		Critical:   critical,
	}, nil
}

// XPThreshold returns the accumulated experience needed to leave the level
func XPThreshold(class *entities.Class, level int) int {
	return int(math.Floor(float64(class.XPBase) * math.Pow(float64(level), class.XPExponent)))
}

func (o *orchestrator) CanLevelUp(ch *entities.Character, class *entities.Class) bool {
	return ch.Experience >= XPThreshold(class, ch.Level)
}

func (o *orchestrator) LevelUp(ctx context.Context, input *LevelUpInput) (*LevelUpOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Class == nil {
		return nil, errors.InvalidArgument("class is required")
	}

	ch := input.Character
	if !o.CanLevelUp(ch, input.Class) {
		// Leveling without enough experience is a no-op, not an error
		return &LevelUpOutput{Character: ch, LeveledUp: false}, nil
	}

	out := ch.Clone()
	out.Level++
	for _, stat := range entities.AllStats {
		grown := int(math.Floor(float64(out.Stats.Get(stat)) * input.Class.Growth.Get(stat)))
		out.Stats = out.Stats.With(stat, grown)
	}
	out.MaxHealth = MaxHealth(out.Stats.Constitution, out.Level)
	out.CurrentHealth = out.MaxHealth
	out.Energy = out.MaxEnergy
	out.LastActive = o.clock.Now()

	slog.InfoContext(ctx, "character leveled up",
		"character_id", ch.ID,
		"level", out.Level,
		"max_health", out.MaxHealth)

	return &LevelUpOutput{
		Character: out,
		LeveledUp: true,
		NewLevel:  out.Level,
	}, nil
}

// MaxHealth computes maximum health from constitution and level
func MaxHealth(constitution, level int) int {
	return int(math.Floor(100 + float64(constitution)*5 + float64(level)*10))
}
