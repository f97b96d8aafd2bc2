// Package content loads the static game data: character classes, monster
// templates, and wilderness map configurations. Data ships as an embedded
// YAML document and can be overridden with an external file.
package content

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
)

//go:embed data/content.yaml
var defaultContent []byte

// BiomeBand assigns biomes and a level range to tiles by Manhattan distance
// from the map's starting tile.
type BiomeBand struct {
	// MaxDistance is the largest start distance the band covers
	MaxDistance int `yaml:"max_distance"`
	// Biomes the band draws from; a tile picks one deterministically
	Biomes   []entities.Biome `yaml:"biomes"`
	MinLevel int              `yaml:"min_level"`
	MaxLevel int              `yaml:"max_level"`
}

// MapConfig describes how to generate one wilderness map
type MapConfig struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	StartX        int         `yaml:"start_x"`
	StartY        int         `yaml:"start_y"`
	RequiredLevel int         `yaml:"required_level"`
	SpawnRate     float64     `yaml:"spawn_rate"`
	Bands         []BiomeBand `yaml:"bands"`
}

// Content is the full static game data set
type Content struct {
	Classes  []entities.Class            `yaml:"classes"`
	Monsters []entities.MonsterTemplate  `yaml:"monsters"`
	Maps     []MapConfig                 `yaml:"maps"`
}

// Load reads game content from path, or the embedded defaults when path is
// empty.
func Load(path string) (*Content, error) {
	raw := defaultContent
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304 // operator-supplied content path
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read content file %s", path)
		}
		raw = b
	}

	var c Content
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse game content")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks internal consistency of the content set
func (c *Content) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.Classes) == 0 {
		vb.RequiredField("classes")
	}
	for _, cl := range c.Classes {
		if cl.ID == "" {
			vb.RequiredField("classes[].id")
		}
		if !cl.PrimaryStat.IsValid() {
			vb.InvalidField("classes[].primary_stat", string(cl.PrimaryStat))
		}
	}

	if len(c.Monsters) == 0 {
		vb.RequiredField("monsters")
	}
	for _, m := range c.Monsters {
		if m.ID == "" {
			vb.RequiredField("monsters[].id")
		}
		if !m.Rarity.IsValid() {
			vb.InvalidField("monsters[].rarity", string(m.Rarity))
		}
		if len(m.Biomes) == 0 {
			vb.Fieldf("monsters[].biomes", "monster %s has no biomes", m.ID)
		}
		for _, b := range m.Biomes {
			if !b.IsValid() {
				vb.InvalidField("monsters[].biomes", string(b))
			}
		}
		for _, le := range m.LootTable {
			if le.Chance < 0 || le.Chance > 1 {
				vb.Fieldf("monsters[].loot_table", "chance %v out of [0,1]", le.Chance)
			}
		}
	}

	if len(c.Maps) == 0 {
		vb.RequiredField("maps")
	}
	for _, mc := range c.Maps {
		if mc.ID == "" {
			vb.RequiredField("maps[].id")
		}
		if mc.Width <= 0 || mc.Height <= 0 {
			vb.Fieldf("maps[].size", "map %s has non-positive dimensions", mc.ID)
		}
		if mc.StartX < 0 || mc.StartX >= mc.Width || mc.StartY < 0 || mc.StartY >= mc.Height {
			vb.Fieldf("maps[].start", "map %s start outside grid", mc.ID)
		}
		if mc.SpawnRate < 0 || mc.SpawnRate > 1 {
			vb.Fieldf("maps[].spawn_rate", "map %s spawn rate %v out of [0,1]", mc.ID, mc.SpawnRate)
		}
		if len(mc.Bands) == 0 {
			vb.Fieldf("maps[].bands", "map %s has no biome bands", mc.ID)
		}
	}

	return vb.Build()
}

// Class returns the class with the given ID
func (c *Content) Class(id string) (*entities.Class, error) {
	for i := range c.Classes {
		if c.Classes[i].ID == id {
			return &c.Classes[i], nil
		}
	}
	return nil, errors.NotFoundf("class %s not found", id)
}

// Monster returns the monster template with the given ID
func (c *Content) Monster(id string) (*entities.MonsterTemplate, error) {
	for i := range c.Monsters {
		if c.Monsters[i].ID == id {
			return &c.Monsters[i], nil
		}
	}
	return nil, errors.NotFoundf("monster %s not found", id)
}

// Map returns the map config with the given ID
func (c *Content) Map(id string) (*MapConfig, error) {
	for i := range c.Maps {
		if c.Maps[i].ID == id {
			return &c.Maps[i], nil
		}
	}
	return nil, errors.NotFoundf("map %s not found", id)
}

// StarterMap returns the first (lowest required level) map config
func (c *Content) StarterMap() *MapConfig {
	if len(c.Maps) == 0 {
		return nil
	}
	starter := &c.Maps[0]
	for i := range c.Maps {
		if c.Maps[i].RequiredLevel < starter.RequiredLevel {
			starter = &c.Maps[i]
		}
	}
	return starter
}

// Band returns the biome band covering the given start distance. Distances
// past the last band fall into the last band.
func (mc *MapConfig) Band(distance int) BiomeBand {
	for _, b := range mc.Bands {
		if distance <= b.MaxDistance {
			return b
		}
	}
	return mc.Bands[len(mc.Bands)-1]
}
