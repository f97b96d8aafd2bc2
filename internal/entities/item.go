package entities

// ItemSlot identifies where an item can be equipped
type ItemSlot string

// Equipment slots
const (
	SlotMainHand  ItemSlot = "main_hand"
	SlotOffHand   ItemSlot = "off_hand"
	SlotArmor     ItemSlot = "armor"
	SlotHelmet    ItemSlot = "helmet"
	SlotBoots     ItemSlot = "boots"
	SlotAccessory ItemSlot = "accessory"
)

// ItemType classifies what kind of gear an item is
type ItemType string

// Item types
const (
	ItemTypeWeapon    ItemType = "weapon"
	ItemTypeArmor     ItemType = "armor"
	ItemTypeHelmet    ItemType = "helmet"
	ItemTypeBoots     ItemType = "boots"
	ItemTypeAccessory ItemType = "accessory"
	ItemTypeGem       ItemType = "gem"
)

// Rarity classifies items and monsters. The enumeration is closed;
// every rarity-driven table below maps it exhaustively.
type Rarity string

// Rarities, weakest to strongest
const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityElite     Rarity = "elite"
	RarityBoss      Rarity = "boss"
	RarityLegendary Rarity = "legendary"
)

// rarityTable carries every rarity-scaled constant in one place so adding a
// rarity is a single compile-checked change.
type rarityTable struct {
	// RewardMultiplier scales guaranteed kill rewards
	RewardMultiplier float64
	// SpawnWeight drives weighted monster template sampling
	SpawnWeight float64
	// GemDropFactor multiplies the base gem drop chance
	GemDropFactor float64
}

var rarityTables = map[Rarity]rarityTable{
	RarityCommon:    {RewardMultiplier: 1.0, SpawnWeight: 100, GemDropFactor: 1.0},
	RarityUncommon:  {RewardMultiplier: 1.3, SpawnWeight: 40, GemDropFactor: 1.5},
	RarityRare:      {RewardMultiplier: 1.75, SpawnWeight: 15, GemDropFactor: 2.0},
	RarityElite:     {RewardMultiplier: 2.25, SpawnWeight: 5, GemDropFactor: 3.0},
	RarityBoss:      {RewardMultiplier: 3.0, SpawnWeight: 2, GemDropFactor: 4.0},
	RarityLegendary: {RewardMultiplier: 3.0, SpawnWeight: 1, GemDropFactor: 4.0},
}

// RewardMultiplier returns the guaranteed-reward multiplier for the rarity
func (r Rarity) RewardMultiplier() float64 {
	if t, ok := rarityTables[r]; ok {
		return t.RewardMultiplier
	}
	return 1.0
}

// SpawnWeight returns the template sampling weight for the rarity
func (r Rarity) SpawnWeight() float64 {
	if t, ok := rarityTables[r]; ok {
		return t.SpawnWeight
	}
	return 1.0
}

// GemDropFactor returns the gem drop chance multiplier for the rarity
func (r Rarity) GemDropFactor() float64 {
	if t, ok := rarityTables[r]; ok {
		return t.GemDropFactor
	}
	return 1.0
}

// IsValid reports whether r is a known rarity
func (r Rarity) IsValid() bool {
	_, ok := rarityTables[r]
	return ok
}

// Item is a piece of gear or a gem. Items are immutable once generated;
// ownership moves between inventory and equipment slots, never duplicated.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        ItemType `json:"type"`
	Rarity      Rarity   `json:"rarity"`
	Level       int      `json:"level"`
	Price       int      `json:"price"`
	StatBonuses Stats    `json:"statBonuses,omitempty"`
	Durability  int      `json:"durability"`
	// Armor contributes to damage mitigation (armor pieces only)
	Armor int `json:"armor,omitempty"`

	// Weapon-only fields
	Damage      int     `json:"damage,omitempty"`
	TwoHanded   bool    `json:"twoHanded,omitempty"`
	WeaponSpeed float64 `json:"weaponSpeed,omitempty"`

	// Gem-only payload
	Gem *GemInfo `json:"gem,omitempty"`
}

// IsGem reports whether the item is a gem
func (i *Item) IsGem() bool {
	return i.Type == ItemTypeGem && i.Gem != nil
}

// Slot returns the equipment slot the item occupies, or "" for
// non-equippable items such as gems.
func (i *Item) Slot() ItemSlot {
	switch i.Type {
	case ItemTypeWeapon:
		return SlotMainHand
	case ItemTypeArmor:
		return SlotArmor
	case ItemTypeHelmet:
		return SlotHelmet
	case ItemTypeBoots:
		return SlotBoots
	case ItemTypeAccessory:
		return SlotAccessory
	default:
		return ""
	}
}
