// Package fusion implements the gem fusion economy: combining same-type,
// same-tier gems into one higher-tier gem, with a chance of total loss.
package fusion

//go:generate mockgen -destination=mock/mock_service.go -package=fusionmock github.com/emberforge/wildlands/internal/orchestrators/fusion Service

import (
	"context"
	"log/slog"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

// Service defines the interface for gem fusion operations
type Service interface {
	// CanFuse validates a fusion set without touching any state
	CanFuse(gems []entities.Item) error

	// Fuse consumes one recipe's worth of gems and, on success, produces
	// exactly one gem of the next tier. Inputs are destroyed either way.
	Fuse(ctx context.Context, input *FuseInput) (*FuseOutput, error)

	// FuseAll repeats Fuse while the character holds enough gems of the
	// given type and tier, re-evaluating stock after each attempt.
	FuseAll(ctx context.Context, input *FuseAllInput) (*FuseAllOutput, error)
}

// Config holds the dependencies for the fusion orchestrator
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

// NewOrchestrator creates a new fusion orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		rng:   cfg.Rng,
		idGen: cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) CanFuse(gems []entities.Item) error {
	if len(gems) == 0 {
		return errors.InvalidArgument("no gems selected")
	}

	first := gems[0]
	if !first.IsGem() {
		return errors.InvalidArgumentf("item %s is not a gem", first.ID)
	}

	for _, g := range gems[1:] {
		if !g.IsGem() {
			return errors.InvalidArgumentf("item %s is not a gem", g.ID)
		}
		if g.Gem.Type != first.Gem.Type {
			return errors.InvalidArgument("gems must share a type")
		}
		if g.Gem.Tier != first.Gem.Tier {
			return errors.InvalidArgument("gems must share a tier")
		}
	}

	required := first.Gem.Tier.FusionCount()
	if required == 0 {
		return errors.InvalidArgumentf("%s gems are already at the top tier", first.Gem.Tier)
	}
	if len(gems) < required {
		return errors.InvalidArgumentf("fusing %s gems requires %d, got %d",
			first.Gem.Tier, required, len(gems))
	}

	return nil
}

func (o *orchestrator) Fuse(ctx context.Context, input *FuseInput) (*FuseOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}

	gems, err := selectGems(input.Character, input.GemIDs)
	if err != nil {
		return nil, err
	}
	if err := o.CanFuse(gems); err != nil {
		return nil, err
	}

	tier := gems[0].Gem.Tier
	gemType := gems[0].Gem.Type
	required := tier.FusionCount()
	consumed := gems[:required]

	nextTier, ok := tier.Next()
	if !ok {
		return nil, errors.InvalidArgumentf("%s gems are already at the top tier", tier)
	}

	// Inputs are destroyed whether or not the fusion succeeds
	out := input.Character.Clone()
	consumedIDs := make([]string, 0, required)
	for _, g := range consumed {
		consumedIDs = append(consumedIDs, g.ID)
	}
	out.Inventory = removeItems(out.Inventory, consumedIDs)

	// Failure roll uses the TARGET tier's chance
	failed := o.rng.Chance(nextTier.FusionFailChance())

	result := &FuseOutput{
		Character:   out,
		ConsumedIDs: consumedIDs,
		Success:     !failed,
	}

	if !failed {
		levelSum := 0
		for _, g := range consumed {
			levelSum += g.Level
		}
		produced := entities.NewGemItem(o.idGen.Generate(), gemType, nextTier, levelSum/required)
		out.Inventory = append(out.Inventory, produced)
		result.Produced = &produced
	}

	slog.InfoContext(ctx, "gem fusion resolved",
		"character_id", input.Character.ID,
		"gem_type", gemType,
		"from_tier", tier,
		"to_tier", nextTier,
		"consumed", len(consumedIDs),
		"success", !failed)

	return result, nil
}

func (o *orchestrator) FuseAll(ctx context.Context, input *FuseAllInput) (*FuseAllOutput, error) {
	if input == nil || input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if !input.GemType.IsValid() {
		return nil, errors.InvalidArgumentf("unknown gem type %q", input.GemType)
	}
	if !input.Tier.IsValid() {
		return nil, errors.InvalidArgumentf("unknown gem tier %q", input.Tier)
	}

	required := input.Tier.FusionCount()
	if required == 0 {
		return nil, errors.InvalidArgumentf("%s gems are already at the top tier", input.Tier)
	}

	out := &FuseAllOutput{Character: input.Character}
	for {
		ids := matchingGemIDs(out.Character, input.GemType, input.Tier)
		if len(ids) < required {
			break
		}

		fuseOut, err := o.Fuse(ctx, &FuseInput{
			Character: out.Character,
			GemIDs:    ids[:required],
		})
		if err != nil {
			return nil, err
		}

		out.Character = fuseOut.Character
		out.Attempts++
		if fuseOut.Success {
			out.Successes++
		}
	}

	return out, nil
}

// selectGems resolves gem IDs against the character's inventory
func selectGems(ch *entities.Character, ids []string) ([]entities.Item, error) {
	if len(ids) == 0 {
		return nil, errors.InvalidArgument("no gems selected")
	}

	byID := make(map[string]entities.Item, len(ch.Inventory))
	for _, it := range ch.Inventory {
		byID[it.ID] = it
	}

	gems := make([]entities.Item, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, errors.InvalidArgumentf("gem %s selected twice", id)
		}
		seen[id] = true

		it, ok := byID[id]
		if !ok {
			return nil, errors.NotFoundf("gem %s not found in inventory", id)
		}
		gems = append(gems, it)
	}
	return gems, nil
}

func matchingGemIDs(ch *entities.Character, t entities.GemType, tier entities.GemTier) []string {
	var ids []string
	for _, it := range ch.Inventory {
		if it.IsGem() && it.Gem.Type == t && it.Gem.Tier == tier {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func removeItems(inv []entities.Item, ids []string) []entities.Item {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]entities.Item, 0, len(inv))
	for _, it := range inv {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	return kept
}
