package entities

import (
	"fmt"
	"time"
)

// Biome classifies a wilderness tile's terrain
type Biome string

// Biomes
const (
	BiomeForest    Biome = "forest"
	BiomePlains    Biome = "plains"
	BiomeHills     Biome = "hills"
	BiomeSwamp     Biome = "swamp"
	BiomeMountains Biome = "mountains"
	BiomeRuins     Biome = "ruins"
)

// IsValid reports whether b is a known biome
func (b Biome) IsValid() bool {
	switch b {
	case BiomeForest, BiomePlains, BiomeHills, BiomeSwamp, BiomeMountains, BiomeRuins:
		return true
	}
	return false
}

// WildernessTile is one cell of a map grid. The tile owns its spawned
// monsters; nothing else holds references into the Monsters slice.
type WildernessTile struct {
	X              int              `json:"x"`
	Y              int              `json:"y"`
	Biome          Biome            `json:"biome"`
	MinLevel       int              `json:"minLevel"`
	MaxLevel       int              `json:"maxLevel"`
	SpawnRate      float64          `json:"spawnRate"`
	LastSpawnCheck time.Time        `json:"lastSpawnCheck"`
	Visited        bool             `json:"visited"`
	Monsters       []SpawnedMonster `json:"monsters,omitempty"`
}

// Key returns the canonical "x,y" identifier used by the explored-tile set
func (t *WildernessTile) Key() string {
	return TileKey(t.X, t.Y)
}

// TileKey formats a tile coordinate as the canonical "x,y" string
func TileKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// WildernessMap is a 2D grid of tiles with a fixed starting position
type WildernessMap struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	StartX        int              `json:"startX"`
	StartY        int              `json:"startY"`
	RequiredLevel int              `json:"requiredLevel"`
	Tiles         []WildernessTile `json:"tiles"`
}

// TileAt returns the tile at (x, y), or nil when out of bounds
func (m *WildernessMap) TileAt(x, y int) *WildernessTile {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return nil
	}
	return &m.Tiles[y*m.Width+x]
}

// InBounds reports whether (x, y) is inside the grid
func (m *WildernessMap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// PlayerPosition locates the player on a map
type PlayerPosition struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	MapID     string    `json:"mapId"`
	LastMoved time.Time `json:"lastMoved"`
}
