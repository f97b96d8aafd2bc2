package entities

import "time"

// LootEntry is one probabilistic row of a monster's loot table. Each entry
// rolls independently on every kill.
type LootEntry struct {
	// Chance in [0, 1] that the entry triggers
	Chance float64 `json:"chance" yaml:"chance"`
	// Gold added when the entry triggers
	Gold int `json:"gold,omitempty" yaml:"gold,omitempty"`
	// Experience added when the entry triggers
	Experience int `json:"experience,omitempty" yaml:"experience,omitempty"`
	// ItemType, when set, generates a concrete item near the monster's level
	ItemType ItemType `json:"itemType,omitempty" yaml:"item_type,omitempty"`
	// ItemRarity caps the generated item's rarity; empty means roll it
	ItemRarity Rarity `json:"itemRarity,omitempty" yaml:"item_rarity,omitempty"`
}

// MonsterTemplate is the static definition a spawn is stamped from
type MonsterTemplate struct {
	ID        string      `json:"id" yaml:"id"`
	Name      string      `json:"name" yaml:"name"`
	Level     int         `json:"level" yaml:"level"`
	Rarity    Rarity      `json:"rarity" yaml:"rarity"`
	BaseStats Stats       `json:"baseStats" yaml:"base_stats"`
	Health    int         `json:"health" yaml:"health"`
	Damage    int         `json:"damage" yaml:"damage"`
	Armor     int         `json:"armor" yaml:"armor"`
	Biomes    []Biome     `json:"biomes" yaml:"biomes"`
	LootTable []LootEntry `json:"lootTable,omitempty" yaml:"loot_table,omitempty"`
}

// InBiome reports whether the template can spawn in the given biome
func (m *MonsterTemplate) InBiome(b Biome) bool {
	for _, bio := range m.Biomes {
		if bio == b {
			return true
		}
	}
	return false
}

// SpawnedMonster is a template instance bound to one tile. It is owned
// exclusively by the tile that spawned it and removed on death or reset.
type SpawnedMonster struct {
	InstanceID    string      `json:"instanceId"`
	TemplateID    string      `json:"templateId"`
	Name          string      `json:"name"`
	Level         int         `json:"level"`
	Rarity        Rarity      `json:"rarity"`
	Stats         Stats       `json:"stats"`
	CurrentHealth int         `json:"currentHealth"`
	MaxHealth     int         `json:"maxHealth"`
	Damage        int         `json:"damage"`
	Armor         int         `json:"armor"`
	TileX         int         `json:"tileX"`
	TileY         int         `json:"tileY"`
	SpawnedAt     time.Time   `json:"spawnedAt"`
	Alive         bool        `json:"alive"`
	LootTable     []LootEntry `json:"lootTable,omitempty"`
}
