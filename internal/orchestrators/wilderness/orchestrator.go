// Package wilderness generates map grids from content configuration and
// drives exploration: moving between tiles, the spawn gate, and monster
// instantiation scaled to where the player is.
package wilderness

//go:generate mockgen -destination=mock/mock_service.go -package=wildernessmock github.com/emberforge/wildlands/internal/orchestrators/wilderness Service

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

const (
	// SpawnCooldown is the minimum gap between spawn attempts on one tile
	SpawnCooldown = 250 * time.Millisecond
)

// Service defines the interface for wilderness generation and exploration
type Service interface {
	// GenerateMap builds a fresh grid from a map configuration. Biome
	// assignment is deterministic per coordinate so regeneration is stable.
	GenerateMap(cfg *content.MapConfig) *entities.WildernessMap

	// MoveToTile moves the player, marks the tile visited, and runs the
	// spawn gate. The map passed in is mutated in place.
	MoveToTile(ctx context.Context, input *MoveInput) (*MoveOutput, error)

	// SpawnAtLevel picks a template from the whole pool, ignoring biomes,
	// and scales it to the target level. Used for arena battles that
	// happen off the map.
	SpawnAtLevel(targetLevel int) (*entities.SpawnedMonster, error)

	// RemoveMonster drops a monster instance from its tile
	RemoveMonster(tile *entities.WildernessTile, instanceID string) error
}

// Config holds the dependencies for the wilderness orchestrator
type Config struct {
	Rng         rng.Source
	IDGenerator idgen.Generator
	Clock       clock.Clock
	// Templates is the monster template pool spawns are drawn from
	Templates []entities.MonsterTemplate
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
	if len(c.Templates) == 0 {
		vb.RequiredField("Templates")
	}

	return vb.Build()
}

type orchestrator struct {
	rng       rng.Source
	idGen     idgen.Generator
	clock     clock.Clock
	templates []entities.MonsterTemplate
}

// NewOrchestrator creates a new wilderness orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		rng:       cfg.Rng,
		idGen:     cfg.IDGenerator,
		clock:     cfg.Clock,
		templates: cfg.Templates,
	}, nil
}

func (o *orchestrator) GenerateMap(cfg *content.MapConfig) *entities.WildernessMap {
	m := &entities.WildernessMap{
		ID:            cfg.ID,
		Name:          cfg.Name,
		Width:         cfg.Width,
		Height:        cfg.Height,
		StartX:        cfg.StartX,
		StartY:        cfg.StartY,
		RequiredLevel: cfg.RequiredLevel,
		Tiles:         make([]entities.WildernessTile, cfg.Width*cfg.Height),
	}

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			distance := manhattan(x, y, cfg.StartX, cfg.StartY)
			band := cfg.Band(distance)
			m.Tiles[y*cfg.Width+x] = entities.WildernessTile{
				X:         x,
				Y:         y,
				Biome:     pickBiome(band.Biomes, x, y),
				MinLevel:  band.MinLevel,
				MaxLevel:  band.MaxLevel,
				SpawnRate: cfg.SpawnRate,
			}
		}
	}

	start := m.TileAt(cfg.StartX, cfg.StartY)
	start.Visited = true
	return m
}

// pickBiome hashes the coordinate into the band's biome list so the same
// map config always produces the same terrain.
func pickBiome(biomes []entities.Biome, x, y int) entities.Biome {
	if len(biomes) == 0 {
		return entities.BiomePlains
	}
	return biomes[(x*31+y*17)%len(biomes)]
}

func manhattan(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func (o *orchestrator) MoveToTile(ctx context.Context, input *MoveInput) (*MoveOutput, error) {
	if input == nil || input.Map == nil || input.Character == nil {
		return nil, errors.InvalidArgument("map and character are required")
	}
	if !input.Map.InBounds(input.X, input.Y) {
		return nil, errors.InvalidArgumentf("tile (%d,%d) is outside the map", input.X, input.Y)
	}
	if !input.Character.IsAlive() {
		return nil, errors.FailedPrecondition("dead characters cannot travel")
	}

	tile := input.Map.TileAt(input.X, input.Y)
	tile.Visited = true

	now := o.clock.Now()
	out := &MoveOutput{
		Tile: tile,
		Position: entities.PlayerPosition{
			X:         input.X,
			Y:         input.Y,
			MapID:     input.Map.ID,
			LastMoved: now,
		},
		Distance: manhattan(input.X, input.Y, input.Map.StartX, input.Map.StartY),
	}

	// Spawn gate: the cooldown throttles rapid re-entry, then the tile's
	// spawn rate decides. The check time is stamped whenever the gate is
	// evaluated, hit or miss.
	if now.Sub(tile.LastSpawnCheck) >= SpawnCooldown {
		tile.LastSpawnCheck = now
		if o.rng.Chance(tile.SpawnRate) {
			if spawned := o.spawn(tile, input.Character, out.Distance, now); spawned != nil {
				tile.Monsters = append(tile.Monsters, *spawned)
				out.Spawned = &tile.Monsters[len(tile.Monsters)-1]
				slog.DebugContext(ctx, "monster spawned",
					"template", spawned.TemplateID,
					"level", spawned.Level,
					"tile", tile.Key())
			}
		}
	}

	return out, nil
}

// spawn picks a template for the tile's biome and stamps an instance scaled
// to the target level. Returns nil when no template fits the biome.
func (o *orchestrator) spawn(tile *entities.WildernessTile, ch *entities.Character, distance int, now time.Time) *entities.SpawnedMonster {
	target := targetLevel(ch.Level, distance, tile.MinLevel, tile.MaxLevel)

	var candidates []*entities.MonsterTemplate
	var weights []float64
	for i := range o.templates {
		t := &o.templates[i]
		if !t.InBiome(tile.Biome) {
			continue
		}
		candidates = append(candidates, t)
		weights = append(weights, TemplateWeight(t, target))
	}
	if len(candidates) == 0 {
		return nil
	}

	idx := rng.WeightedIndex(o.rng, weights)
	if idx < 0 {
		return nil
	}
	return o.instantiate(candidates[idx], target, tile.X, tile.Y, now)
}

func (o *orchestrator) SpawnAtLevel(targetLevel int) (*entities.SpawnedMonster, error) {
	if targetLevel < 1 {
		return nil, errors.InvalidArgumentf("target level %d must be positive", targetLevel)
	}

	weights := make([]float64, len(o.templates))
	for i := range o.templates {
		weights[i] = TemplateWeight(&o.templates[i], targetLevel)
	}

	idx := rng.WeightedIndex(o.rng, weights)
	if idx < 0 {
		return nil, errors.Internal("no spawnable templates")
	}
	return o.instantiate(&o.templates[idx], targetLevel, -1, -1, o.clock.Now()), nil
}

// targetLevel pushes spawns harder the further the player strays from the
// start, bounded by what the tile allows.
func targetLevel(playerLevel, distance, minLevel, maxLevel int) int {
	level := playerLevel + distance/2
	if level < minLevel {
		level = minLevel
	}
	if level > maxLevel {
		level = maxLevel
	}
	if level < 1 {
		level = 1
	}
	return level
}

// TemplateWeight combines the rarity spawn weight with a proximity bonus
// that favors templates near the target level. The bonus never drops below
// 0.5 so off-level templates stay possible.
func TemplateWeight(t *entities.MonsterTemplate, target int) float64 {
	proximity := 2 - 0.1*math.Abs(float64(t.Level-target))
	if proximity < 0.5 {
		proximity = 0.5
	}
	return t.Rarity.SpawnWeight() * proximity
}

// instantiate scales a template's stats to the target level
func (o *orchestrator) instantiate(t *entities.MonsterTemplate, target, tileX, tileY int, now time.Time) *entities.SpawnedMonster {
	ratio := 1.0
	if t.Level > 0 {
		ratio = float64(target) / float64(t.Level)
	}

	health := scaleStat(t.Health, ratio)
	m := &entities.SpawnedMonster{
		InstanceID: o.idGen.Generate(),
		TemplateID: t.ID,
		Name:       t.Name,
		Level:      target,
		Rarity:     t.Rarity,
		Stats: entities.Stats{
			Strength:     scaleStat(t.BaseStats.Strength, ratio),
			Dexterity:    scaleStat(t.BaseStats.Dexterity, ratio),
			Constitution: scaleStat(t.BaseStats.Constitution, ratio),
			Intelligence: scaleStat(t.BaseStats.Intelligence, ratio),
			Speed:        scaleStat(t.BaseStats.Speed, ratio),
		},
		CurrentHealth: health,
		MaxHealth:     health,
		Damage:        scaleStat(t.Damage, ratio),
		Armor:         int(float64(t.Armor) * ratio),
		TileX:         tileX,
		TileY:         tileY,
		SpawnedAt:     now,
		Alive:         true,
		LootTable:     append([]entities.LootEntry(nil), t.LootTable...),
	}
	return m
}

// scaleStat keeps scaled stats at 1 or more; armor alone may scale to 0
func scaleStat(v int, ratio float64) int {
	scaled := int(float64(v) * ratio)
	if scaled < 1 {
		return 1
	}
	return scaled
}

func (o *orchestrator) RemoveMonster(tile *entities.WildernessTile, instanceID string) error {
	if tile == nil {
		return errors.InvalidArgument("tile is required")
	}
	for i := range tile.Monsters {
		if tile.Monsters[i].InstanceID == instanceID {
			tile.Monsters = append(tile.Monsters[:i], tile.Monsters[i+1:]...)
			return nil
		}
	}
	return errors.NotFoundf("monster %s not on tile %s", instanceID, tile.Key())
}
