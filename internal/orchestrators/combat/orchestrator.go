// Package combat resolves fights round by round from two combatant
// snapshots. The resolver is stateless; all randomness comes from the
// injected source and all persistence is the caller's problem.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/emberforge/wildlands/internal/orchestrators/combat Service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/orchestrators/loot"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

const (
	// MaxRounds caps a fight; at the cap the higher remaining health
	// fraction wins.
	MaxRounds = 100

	// AccuracyBase is the hit chance between evenly matched combatants
	AccuracyBase = 0.75
	// AccuracyPerDexterity raises hit chance per point of attacker dexterity
	AccuracyPerDexterity = 0.015
	// EvasionPerSpeed lowers hit chance per point of defender speed
	EvasionPerSpeed = 0.010
	// MinHitChance and MaxHitChance clamp the hit roll
	MinHitChance = 0.20
	MaxHitChance = 0.95

	// CriticalChance is rolled independently of the hit check
	CriticalChance = 0.08
	// CriticalMultiplier scales damage on a critical hit
	CriticalMultiplier = 1.5

	// ArmorSoftCap shapes diminishing mitigation: armor/(armor+cap)
	ArmorSoftCap = 50.0

	// RoundDuration is the nominal pacing cost of one round, reported in
	// the result for playback.
	RoundDuration = 500 * time.Millisecond

	winnerXPPerLevel   = 15.0
	winnerGoldPerLevel = 8.0
	loserXPFraction    = 0.5
)

// Service defines the interface for combat resolution
type Service interface {
	// Resolve runs a full fight between two snapshots and returns the
	// record plus both sides' final health and rewards.
	Resolve(ctx context.Context, input *ResolveInput) (*ResolveOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	Rng         rng.Source
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Rng == nil {
		vb.RequiredField("Rng")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	rng   rng.Source
	idGen idgen.Generator
	clock clock.Clock
}

// NewOrchestrator creates a new combat orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		rng:   cfg.Rng,
		idGen: cfg.IDGenerator,
		clock: cfg.Clock,
	}, nil
}

// fighter is the mutable per-fight state for one combatant
type fighter struct {
	*Combatant
	health int
}

func (f *fighter) healthFraction() float64 {
	if f.MaxHealth <= 0 {
		panic(fmt.Sprintf("combatant %s has no max health", f.ID))
	}
	return float64(f.health) / float64(f.MaxHealth)
}

func (o *orchestrator) Resolve(ctx context.Context, input *ResolveInput) (out *ResolveOutput, err error) {
	if input == nil || input.Attacker == nil || input.Defender == nil {
		return nil, errors.InvalidArgument("both combatants are required")
	}
	if input.Attacker.ID == input.Defender.ID {
		return nil, errors.InvalidArgument("a combatant cannot fight itself")
	}

	att := &fighter{Combatant: input.Attacker, health: input.Attacker.CurrentHealth}
	def := &fighter{Combatant: input.Defender, health: input.Defender.CurrentHealth}

	// A corrupt snapshot must never take the engine down with it. The
	// attacker eats the loss and the record says so.
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "combat resolution panicked",
				"attacker_id", input.Attacker.ID,
				"defender_id", input.Defender.ID,
				"panic", r)
			out = o.defeatResult(input)
			err = nil
		}
	}()

	result := &entities.CombatResult{
		ID:           o.idGen.Generate(),
		AttackerID:   att.ID,
		AttackerName: att.Name,
		DefenderID:   def.ID,
		DefenderName: def.Name,
		FoughtAt:     o.clock.Now(),
	}

	round := 0
	for round < MaxRounds && att.health > 0 && def.health > 0 {
		round++
		first, second := turnOrder(att, def)
		o.attack(result, round, first, second)
		if second.health > 0 {
			o.attack(result, round, second, first)
		}
	}

	var winner, loser *fighter
	switch {
	case def.health <= 0:
		winner, loser = att, def
	case att.health <= 0:
		winner, loser = def, att
	case att.healthFraction() > def.healthFraction():
		// Round cap: the attacker must come out ahead to take the win
		winner, loser = att, def
	default:
		winner, loser = def, att
	}

	result.WinnerID = winner.ID
	result.Duration = time.Duration(round) * RoundDuration

	winnerRewards, loserRewards := o.rewards(winner, loser)

	out = &ResolveOutput{
		Result:         result,
		AttackerHealth: att.health,
		DefenderHealth: def.health,
	}
	if winner == att {
		out.AttackerRewards, out.DefenderRewards = winnerRewards, loserRewards
	} else {
		out.AttackerRewards, out.DefenderRewards = loserRewards, winnerRewards
	}
	result.ExperienceGained = out.AttackerRewards.Experience
	result.GoldGained = out.AttackerRewards.Gold

	slog.InfoContext(ctx, "combat resolved",
		"attacker_id", att.ID,
		"defender_id", def.ID,
		"winner_id", winner.ID,
		"rounds", round)

	return out, nil
}

// turnOrder gives the faster combatant the first action; ties go to the
// lexicographically smaller ID so replays are stable.
func turnOrder(a, b *fighter) (*fighter, *fighter) {
	aSpeed, bSpeed := a.Stats.Get(entities.StatSpeed), b.Stats.Get(entities.StatSpeed)
	if aSpeed > bSpeed {
		return a, b
	}
	if bSpeed > aSpeed {
		return b, a
	}
	if a.ID < b.ID {
		return a, b
	}
	return b, a
}

func (o *orchestrator) attack(result *entities.CombatResult, round int, actor, target *fighter) {
	if !o.rng.Chance(o.hitChance(actor, target)) {
		result.Rounds = append(result.Rounds, entities.RoundLog{
			Round:    round,
			ActorID:  actor.ID,
			TargetID: target.ID,
			Miss:     true,
			Text:     fmt.Sprintf("%s misses %s", actor.Name, target.Name),
		})
		return
	}

	critical := o.rng.Chance(CriticalChance)
	damage := o.damage(actor, target, critical)

	target.health -= damage
	if target.health < 0 {
		target.health = 0
	}

	text := fmt.Sprintf("%s hits %s for %d", actor.Name, target.Name, damage)
	if critical {
		text = fmt.Sprintf("%s critically hits %s for %d", actor.Name, target.Name, damage)
	}
	if target.health == 0 {
		text += ", a finishing blow"
	}

	result.Rounds = append(result.Rounds, entities.RoundLog{
		Round:    round,
		ActorID:  actor.ID,
		TargetID: target.ID,
		Damage:   damage,
		Critical: critical,
		Text:     text,
	})
}

// hitChance weighs attacker dexterity against defender speed, clamped so no
// fight is a coin with only one face.
func (o *orchestrator) hitChance(actor, target *fighter) float64 {
	chance := AccuracyBase +
		AccuracyPerDexterity*float64(actor.Stats.Get(entities.StatDexterity)) -
		EvasionPerSpeed*float64(target.Stats.Get(entities.StatSpeed))
	if chance < MinHitChance {
		return MinHitChance
	}
	if chance > MaxHitChance {
		return MaxHitChance
	}
	return chance
}

// damage combines the offensive stat with weapon damage, applies the
// critical multiplier, then armor mitigation. A landed hit always deals at
// least 1.
func (o *orchestrator) damage(actor, target *fighter, critical bool) int {
	raw := float64(actor.Stats.Get(actor.OffensiveStat) + actor.WeaponDamage)
	if critical {
		raw *= CriticalMultiplier
	}

	mitigation := float64(target.Armor) / (float64(target.Armor) + ArmorSoftCap)
	dealt := int(raw * (1 - mitigation))
	if dealt < 1 {
		dealt = 1
	}
	return dealt
}

// rewards pays the winner by opponent level and level difference; the loser
// keeps half the experience and none of the gold.
func (o *orchestrator) rewards(winner, loser *fighter) (Rewards, Rewards) {
	winMult := loot.LevelDifferenceMultiplier(loser.Level, winner.Level)
	win := Rewards{
		Experience: int(math.Floor(winnerXPPerLevel * float64(loser.Level) * winMult)),
		Gold:       int(math.Floor(winnerGoldPerLevel * float64(loser.Level) * winMult)),
	}

	loseMult := loot.LevelDifferenceMultiplier(winner.Level, loser.Level)
	lose := Rewards{
		Experience: int(math.Floor(winnerXPPerLevel * float64(winner.Level) * loseMult * loserXPFraction)),
	}
	return win, lose
}

// defeatResult is the recovery path: a minimal attacker-loses record
func (o *orchestrator) defeatResult(input *ResolveInput) *ResolveOutput {
	result := &entities.CombatResult{
		ID:           o.idGen.Generate(),
		AttackerID:   input.Attacker.ID,
		AttackerName: input.Attacker.Name,
		DefenderID:   input.Defender.ID,
		DefenderName: input.Defender.Name,
		WinnerID:     input.Defender.ID,
		FoughtAt:     o.clock.Now(),
		Rounds: []entities.RoundLog{{
			Round:    1,
			ActorID:  input.Defender.ID,
			TargetID: input.Attacker.ID,
			Text:     fmt.Sprintf("%s is overwhelmed and driven from the field", input.Attacker.Name),
		}},
	}
	return &ResolveOutput{
		Result:         result,
		AttackerHealth: 0,
		DefenderHealth: input.Defender.CurrentHealth,
	}
}
