package entities

// GemType identifies what a gem empowers when consumed
type GemType string

// Gem types. Each type is tied to one stat, or to experience/gold gain.
const (
	GemRuby     GemType = "ruby"     // strength
	GemTopaz    GemType = "topaz"    // dexterity
	GemEmerald  GemType = "emerald"  // constitution
	GemSapphire GemType = "sapphire" // intelligence
	GemAmethyst GemType = "amethyst" // speed
	GemDiamond  GemType = "diamond"  // experience gain
	GemObsidian GemType = "obsidian" // gold gain
)

// AllGemTypes lists every gem type in canonical order
var AllGemTypes = []GemType{
	GemRuby, GemTopaz, GemEmerald, GemSapphire, GemAmethyst, GemDiamond, GemObsidian,
}

// gemTypeStats maps stat-boosting gem types to their stat. Diamond and
// obsidian are absent: they boost experience and gold instead.
var gemTypeStats = map[GemType]Stat{
	GemRuby:     StatStrength,
	GemTopaz:    StatDexterity,
	GemEmerald:  StatConstitution,
	GemSapphire: StatIntelligence,
	GemAmethyst: StatSpeed,
}

// BoostedStat returns the stat a gem type boosts and whether it boosts one
func (t GemType) BoostedStat() (Stat, bool) {
	s, ok := gemTypeStats[t]
	return s, ok
}

// IsValid reports whether t is a known gem type
func (t GemType) IsValid() bool {
	switch t {
	case GemRuby, GemTopaz, GemEmerald, GemSapphire, GemAmethyst, GemDiamond, GemObsidian:
		return true
	}
	return false
}

// GemTier is the ordered power level of a gem
type GemTier string

// Gem tiers, weakest to strongest
const (
	TierFlawed    GemTier = "flawed"
	TierNormal    GemTier = "normal"
	TierGreater   GemTier = "greater"
	TierPerfect   GemTier = "perfect"
	TierLegendary GemTier = "legendary"
)

// AllGemTiers lists the tiers in ascending order
var AllGemTiers = []GemTier{TierFlawed, TierNormal, TierGreater, TierPerfect, TierLegendary}

// gemTierTable carries every tier-determined constant. Tier strictly
// determines multiplier, duration, fusion cost, and fusion failure chance.
type gemTierTable struct {
	// Ordinal position, 0-based, for ordering comparisons
	Ordinal int
	// Multiplier applied to the boosted stat or gain when consumed
	Multiplier float64
	// DurationBattles is how many battles a consumed gem lasts
	DurationBattles int
	// FusionCount is how many gems of this tier one fusion consumes
	FusionCount int
	// FusionFailChance is the chance that fusing INTO this tier destroys
	// the inputs with no output
	FusionFailChance float64
	// MinMonsterLevel gates which monsters may drop this tier
	MinMonsterLevel int
	// DropWeight drives tier sampling among eligible tiers
	DropWeight float64
	// BasePrice anchors market price before level scaling
	BasePrice int
}

var gemTierTables = map[GemTier]gemTierTable{
	TierFlawed:    {Ordinal: 0, Multiplier: 1.10, DurationBattles: 3, FusionCount: 2, FusionFailChance: 0, MinMonsterLevel: 1, DropWeight: 60, BasePrice: 50},
	TierNormal:    {Ordinal: 1, Multiplier: 1.25, DurationBattles: 5, FusionCount: 2, FusionFailChance: 0.10, MinMonsterLevel: 5, DropWeight: 25, BasePrice: 150},
	TierGreater:   {Ordinal: 2, Multiplier: 1.50, DurationBattles: 8, FusionCount: 2, FusionFailChance: 0.15, MinMonsterLevel: 15, DropWeight: 10, BasePrice: 500},
	TierPerfect:   {Ordinal: 3, Multiplier: 2.00, DurationBattles: 12, FusionCount: 4, FusionFailChance: 0.20, MinMonsterLevel: 30, DropWeight: 4, BasePrice: 2000},
	TierLegendary: {Ordinal: 4, Multiplier: 3.00, DurationBattles: 20, FusionCount: 0, FusionFailChance: 0.25, MinMonsterLevel: 50, DropWeight: 1, BasePrice: 10000},
}

// Ordinal returns the 0-based position of the tier
func (t GemTier) Ordinal() int {
	return gemTierTables[t].Ordinal
}

// Next returns the tier above t and false when t is already the top tier
func (t GemTier) Next() (GemTier, bool) {
	ord := gemTierTables[t].Ordinal
	if ord >= len(AllGemTiers)-1 {
		return t, false
	}
	return AllGemTiers[ord+1], true
}

// Multiplier returns the consume-effect multiplier for the tier
func (t GemTier) Multiplier() float64 {
	return gemTierTables[t].Multiplier
}

// DurationBattles returns how many battles the consume effect lasts
func (t GemTier) DurationBattles() int {
	return gemTierTables[t].DurationBattles
}

// FusionCount returns how many gems of this tier one fusion consumes.
// Zero means the tier is terminal and cannot be fused further.
func (t GemTier) FusionCount() int {
	return gemTierTables[t].FusionCount
}

// FusionFailChance returns the failure chance when fusing INTO this tier
func (t GemTier) FusionFailChance() float64 {
	return gemTierTables[t].FusionFailChance
}

// MinMonsterLevel returns the minimum monster level that can drop this tier
func (t GemTier) MinMonsterLevel() int {
	return gemTierTables[t].MinMonsterLevel
}

// DropWeight returns the sampling weight for this tier among eligible tiers
func (t GemTier) DropWeight() float64 {
	return gemTierTables[t].DropWeight
}

// BasePrice returns the price anchor for this tier
func (t GemTier) BasePrice() int {
	return gemTierTables[t].BasePrice
}

// IsValid reports whether t is a known tier
func (t GemTier) IsValid() bool {
	_, ok := gemTierTables[t]
	return ok
}

var gemTierNames = map[GemTier]string{
	TierFlawed:    "Flawed",
	TierNormal:    "",
	TierGreater:   "Greater",
	TierPerfect:   "Perfect",
	TierLegendary: "Legendary",
}

var gemTypeNames = map[GemType]string{
	GemRuby:     "Ruby",
	GemTopaz:    "Topaz",
	GemEmerald:  "Emerald",
	GemSapphire: "Sapphire",
	GemAmethyst: "Amethyst",
	GemDiamond:  "Diamond",
	GemObsidian: "Obsidian",
}

// GemName returns the display name for a gem, e.g. "Greater Ruby"
func GemName(t GemType, tier GemTier) string {
	prefix := gemTierNames[tier]
	if prefix == "" {
		return gemTypeNames[t]
	}
	return prefix + " " + gemTypeNames[t]
}

// GemPrice computes the market price of a gem from its tier and level
func GemPrice(tier GemTier, level int) int {
	return tier.BasePrice() + level*tier.BasePrice()/10
}

// NewGemItem builds a gem Item with tier-appropriate effect and price.
// The caller supplies the ID so generation stays injectable.
func NewGemItem(id string, t GemType, tier GemTier, level int) Item {
	if level < 1 {
		level = 1
	}
	effect := ConsumeEffect{
		GemType:     t,
		Multiplier:  tier.Multiplier(),
		BattlesLeft: tier.DurationBattles(),
	}
	if stat, ok := t.BoostedStat(); ok {
		effect.Stat = stat
	}
	return Item{
		ID:     id,
		Name:   GemName(t, tier),
		Type:   ItemTypeGem,
		Rarity: RarityCommon,
		Level:  level,
		Price:  GemPrice(tier, level),
		Gem: &GemInfo{
			Type:   t,
			Tier:   tier,
			Effect: effect,
		},
	}
}

// GemInfo is the gem payload of an Item. Type never changes across fusion;
// tier-determined numbers are denormalized onto the consume effect when the
// gem is generated.
type GemInfo struct {
	Type   GemType       `json:"gemType"`
	Tier   GemTier       `json:"gemTier"`
	Effect ConsumeEffect `json:"consumeEffect"`
}

// ConsumeEffect describes what consuming a gem does for its duration
type ConsumeEffect struct {
	// GemType records which gem produced the effect
	GemType GemType `json:"gemType"`
	// Stat is empty for experience/gold gems
	Stat Stat `json:"stat,omitempty"`
	// Multiplier applies to the stat, or to experience/gold gain
	Multiplier float64 `json:"multiplier"`
	// BattlesLeft counts down per battle while the effect is active
	BattlesLeft int `json:"battlesLeft"`
}
