// Package loot converts defeated monsters into rewards: guaranteed
// experience and gold on every kill, plus probabilistic bonus drops from the
// monster's loot table.
package loot

//go:generate mockgen -destination=mock/mock_service.go -package=lootmock github.com/emberforge/wildlands/internal/orchestrators/loot Service

import (
	"context"
	"log/slog"
	"math"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

const (
	// BaseGemDropChance is the pre-rarity chance of any gem dropping
	BaseGemDropChance = 0.05
)

// Service defines the interface for loot generation
type Service interface {
	// GuaranteedRewards returns the unconditional kill rewards, before
	// bonus rolls and before gain-multiplier gems.
	GuaranteedRewards(monsterLevel, playerLevel int, rarity entities.Rarity) (xp, gold int)

	// RollRewards resolves a full kill: guaranteed rewards, loot-table
	// bonus rolls, and the two-stage gem drop.
	RollRewards(ctx context.Context, input *RollInput) (*RollOutput, error)
}

// Config holds the dependencies for the loot orchestrator
type Config struct {
	Rng         rng.Source
	IDGenerator idgen.Generator
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

	return vb.Build()
}

type orchestrator struct {
	rng   rng.Source
	idGen idgen.Generator
}

// NewOrchestrator creates a new loot orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		rng:   cfg.Rng,
		idGen: cfg.IDGenerator,
	}, nil
}

// LevelDifferenceMultiplier discounts kills far below the player's level and
// rewards punching up. Never drops below 0.3.
func LevelDifferenceMultiplier(monsterLevel, playerLevel int) float64 {
	m := 1 + 0.2*float64(monsterLevel-playerLevel)
	if m < 0.3 {
		m = 0.3
	}
	return m
}

func (o *orchestrator) GuaranteedRewards(monsterLevel, playerLevel int, rarity entities.Rarity) (int, int) {
	baseXP := math.Floor(10 * math.Pow(float64(monsterLevel), 1.2))
	baseGold := math.Floor(5 * math.Pow(float64(monsterLevel), 1.1))

	mult := rarity.RewardMultiplier() * LevelDifferenceMultiplier(monsterLevel, playerLevel)
	return int(math.Floor(baseXP * mult)), int(math.Floor(baseGold * mult))
}

func (o *orchestrator) RollRewards(ctx context.Context, input *RollInput) (*RollOutput, error) {
	if input == nil || input.Monster == nil {
		return nil, errors.InvalidArgument("monster is required")
	}
	if input.Player == nil {
		return nil, errors.InvalidArgument("player is required")
	}

	m := input.Monster
	xp, gold := o.GuaranteedRewards(m.Level, input.Player.Level, m.Rarity)

	out := &RollOutput{
		Experience: xp,
		Gold:       gold,
	}

	// Each loot table entry is an independent trial
	for _, entry := range m.LootTable {
		if !o.rng.Chance(entry.Chance) {
			continue
		}
		out.BonusRolls++
		out.Gold += entry.Gold
		out.Experience += entry.Experience
		if entry.ItemType != "" && entry.ItemType != entities.ItemTypeGem {
			item := o.generateItem(entry.ItemType, entry.ItemRarity, m.Level)
			out.Items = append(out.Items, item)
		}
	}

	// Gem drops resolve through their own two-stage gate
	if gem, ok := o.rollGem(m); ok {
		out.Items = append(out.Items, gem)
	}

	// Consumed diamond/obsidian gems scale the totals
	xpMult := input.Player.GainMultiplier(entities.GemDiamond)
	goldMult := input.Player.GainMultiplier(entities.GemObsidian)
	out.Experience = int(float64(out.Experience) * xpMult)
	out.Gold = int(float64(out.Gold) * goldMult)

	slog.DebugContext(ctx, "loot rolled",
		"monster", m.TemplateID,
		"monster_level", m.Level,
		"experience", out.Experience,
		"gold", out.Gold,
		"items", len(out.Items))

	return out, nil
}

// rollGem implements the two-stage gem drop: one overall rarity-scaled
// chance, then type/tier selection gated by the monster's level.
func (o *orchestrator) rollGem(m *entities.SpawnedMonster) (entities.Item, bool) {
	chance := BaseGemDropChance * m.Rarity.GemDropFactor()
	if !o.rng.Chance(chance) {
		return entities.Item{}, false
	}

	gemType := entities.AllGemTypes[o.rng.Intn(len(entities.AllGemTypes))]

	// Only tiers the monster's level can carry are eligible
	var eligible []entities.GemTier
	var weights []float64
	for _, tier := range entities.AllGemTiers {
		if m.Level >= tier.MinMonsterLevel() {
			eligible = append(eligible, tier)
			weights = append(weights, tier.DropWeight())
		}
	}
	if len(eligible) == 0 {
		return entities.Item{}, false
	}

	tier := eligible[rng.WeightedIndex(o.rng, weights)]
	level := clampMin(m.Level+o.rng.Intn(3)-1, 1)
	return entities.NewGemItem(o.idGen.Generate(), gemType, tier, level), true
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
