package loot

import (
	"fmt"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

// Drop rarity distribution when the loot entry doesn't pin one
var dropRarities = []entities.Rarity{
	entities.RarityCommon,
	entities.RarityUncommon,
	entities.RarityRare,
	entities.RarityElite,
	entities.RarityLegendary,
}

var dropRarityWeights = []float64{55, 25, 12, 6, 2}

// statBudgetFactor scales how many bonus stat points an item carries
var statBudgetFactor = map[entities.Rarity]float64{
	entities.RarityCommon:    1.0,
	entities.RarityUncommon:  1.4,
	entities.RarityRare:      1.9,
	entities.RarityElite:     2.6,
	entities.RarityBoss:      3.5,
	entities.RarityLegendary: 3.5,
}

var rarityPrefixes = map[entities.Rarity]string{
	entities.RarityCommon:    "",
	entities.RarityUncommon:  "Fine",
	entities.RarityRare:      "Superior",
	entities.RarityElite:     "Masterwork",
	entities.RarityBoss:      "Mythic",
	entities.RarityLegendary: "Mythic",
}

var baseNames = map[entities.ItemType][]string{
	entities.ItemTypeWeapon:    {"Sword", "Axe", "Spear", "Maul", "Stave"},
	entities.ItemTypeArmor:     {"Hauberk", "Cuirass", "Leather Vest", "Robe"},
	entities.ItemTypeHelmet:    {"Helm", "Coif", "Circlet"},
	entities.ItemTypeBoots:     {"Boots", "Greaves", "Treads"},
	entities.ItemTypeAccessory: {"Ring", "Amulet", "Charm"},
}

// generateItem builds a concrete item instance at a level within +/-1 of the
// monster's level.
func (o *orchestrator) generateItem(itemType entities.ItemType, pinned entities.Rarity, monsterLevel int) entities.Item {
	level := clampMin(monsterLevel+o.rng.Intn(3)-1, 1)

	rarity := pinned
	if rarity == "" {
		rarity = dropRarities[rng.WeightedIndex(o.rng, dropRarityWeights)]
	}

	names := baseNames[itemType]
	name := names[o.rng.Intn(len(names))]
	if prefix := rarityPrefixes[rarity]; prefix != "" {
		name = fmt.Sprintf("%s %s", prefix, name)
	}

	factor := statBudgetFactor[rarity]
	budget := int(float64(2+level/2) * factor)

	item := entities.Item{
		ID:          o.idGen.Generate(),
		Name:        name,
		Type:        itemType,
		Rarity:      rarity,
		Level:       level,
		Durability:  100,
		Price:       int(float64(level*10) * factor),
		StatBonuses: o.rollBonuses(itemType, budget),
	}

	switch itemType {
	case entities.ItemTypeWeapon:
		item.Damage = int(float64(3+level*2) * factor)
		item.TwoHanded = o.rng.Chance(0.25)
		item.WeaponSpeed = 0.8 + o.rng.Float64()*0.4
	case entities.ItemTypeArmor:
		item.Armor = int(float64(2+level) * factor)
	case entities.ItemTypeHelmet, entities.ItemTypeBoots:
		item.Armor = int(float64(1+level/2) * factor)
	}

	return item
}

// rollBonuses spreads the stat budget over stats the slot favors
func (o *orchestrator) rollBonuses(itemType entities.ItemType, budget int) entities.Stats {
	favored := map[entities.ItemType][]entities.Stat{
		entities.ItemTypeWeapon:    {entities.StatStrength, entities.StatDexterity},
		entities.ItemTypeArmor:     {entities.StatConstitution, entities.StatStrength},
		entities.ItemTypeHelmet:    {entities.StatConstitution, entities.StatIntelligence},
		entities.ItemTypeBoots:     {entities.StatSpeed, entities.StatDexterity},
		entities.ItemTypeAccessory: {entities.StatIntelligence, entities.StatSpeed},
	}[itemType]

	var s entities.Stats
	for i := 0; i < budget; i++ {
		stat := favored[o.rng.Intn(len(favored))]
		s = s.Add(stat, 1)
	}
	return s
}
