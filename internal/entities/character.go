package entities

import "time"

// Class defines a character class: starting stats, per-level growth, and the
// stat that drives its damage.
type Class struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	PrimaryStat Stat    `json:"primaryStat" yaml:"primary_stat"`
	BaseStats   Stats   `json:"baseStats" yaml:"base_stats"`
	Growth      Growth  `json:"growth" yaml:"growth"`
	XPBase      int     `json:"xpBase" yaml:"xp_base"`
	XPExponent  float64 `json:"xpExponent" yaml:"xp_exponent"`
}

// Growth holds the per-level stat growth multipliers for a class
type Growth struct {
	Strength     float64 `json:"strength" yaml:"strength"`
	Dexterity    float64 `json:"dexterity" yaml:"dexterity"`
	Constitution float64 `json:"constitution" yaml:"constitution"`
	Intelligence float64 `json:"intelligence" yaml:"intelligence"`
	Speed        float64 `json:"speed" yaml:"speed"`
}

// Get returns the growth multiplier for the named stat
func (g Growth) Get(stat Stat) float64 {
	switch stat {
	case StatStrength:
		return g.Strength
	case StatDexterity:
		return g.Dexterity
	case StatConstitution:
		return g.Constitution
	case StatIntelligence:
		return g.Intelligence
	case StatSpeed:
		return g.Speed
	default:
		return 1.0
	}
}

// Equipment holds the six optional equipment slots
type Equipment struct {
	MainHand  *Item `json:"mainHand,omitempty"`
	OffHand   *Item `json:"offHand,omitempty"`
	Armor     *Item `json:"armor,omitempty"`
	Helmet    *Item `json:"helmet,omitempty"`
	Boots     *Item `json:"boots,omitempty"`
	Accessory *Item `json:"accessory,omitempty"`
}

// Get returns the item in the given slot
func (e *Equipment) Get(slot ItemSlot) *Item {
	switch slot {
	case SlotMainHand:
		return e.MainHand
	case SlotOffHand:
		return e.OffHand
	case SlotArmor:
		return e.Armor
	case SlotHelmet:
		return e.Helmet
	case SlotBoots:
		return e.Boots
	case SlotAccessory:
		return e.Accessory
	default:
		return nil
	}
}

// Set places an item (or nil) into the given slot
func (e *Equipment) Set(slot ItemSlot, item *Item) {
	switch slot {
	case SlotMainHand:
		e.MainHand = item
	case SlotOffHand:
		e.OffHand = item
	case SlotArmor:
		e.Armor = item
	case SlotHelmet:
		e.Helmet = item
	case SlotBoots:
		e.Boots = item
	case SlotAccessory:
		e.Accessory = item
	}
}

// All returns the occupied slots in a stable order
func (e *Equipment) All() []*Item {
	items := make([]*Item, 0, 6)
	for _, it := range []*Item{e.MainHand, e.OffHand, e.Armor, e.Helmet, e.Boots, e.Accessory} {
		if it != nil {
			items = append(items, it)
		}
	}
	return items
}

// Character is the authoritative record of one playable character.
// Invariants: 0 <= CurrentHealth <= MaxHealth, 0 <= Energy <= MaxEnergy,
// and a two-handed main hand excludes an off hand.
type Character struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	ClassID       string             `json:"classId"`
	Level         int                `json:"level"`
	Experience    int                `json:"experience"`
	Gold          int                `json:"gold"`
	Energy        int                `json:"energy"`
	MaxEnergy     int                `json:"maxEnergy"`
	CurrentHealth int                `json:"currentHealth"`
	MaxHealth     int                `json:"maxHealth"`
	Stats         Stats              `json:"stats"`
	Equipment     Equipment          `json:"equipment"`
	Inventory     []Item             `json:"inventory"`
	ActiveEffects []ConsumeEffect    `json:"activeEffects,omitempty"`
	Wins          int                `json:"wins"`
	Losses        int                `json:"losses"`
	LastTraining  map[Stat]time.Time `json:"lastTraining,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastActive    time.Time          `json:"lastActive"`
}

// IsAlive reports whether the character can act
func (c *Character) IsAlive() bool {
	return c.CurrentHealth > 0
}

// Clone returns a deep copy. All mutation in the engine is copy-on-write:
// orchestrators clone, modify the clone, and the store commits it.
func (c *Character) Clone() *Character {
	cp := *c

	cp.Inventory = make([]Item, len(c.Inventory))
	copy(cp.Inventory, c.Inventory)

	cp.ActiveEffects = make([]ConsumeEffect, len(c.ActiveEffects))
	copy(cp.ActiveEffects, c.ActiveEffects)

	cp.LastTraining = make(map[Stat]time.Time, len(c.LastTraining))
	for k, v := range c.LastTraining {
		cp.LastTraining[k] = v
	}

	cp.Equipment = Equipment{
		MainHand:  cloneItem(c.Equipment.MainHand),
		OffHand:   cloneItem(c.Equipment.OffHand),
		Armor:     cloneItem(c.Equipment.Armor),
		Helmet:    cloneItem(c.Equipment.Helmet),
		Boots:     cloneItem(c.Equipment.Boots),
		Accessory: cloneItem(c.Equipment.Accessory),
	}

	return &cp
}

func cloneItem(it *Item) *Item {
	if it == nil {
		return nil
	}
	cp := *it
	if it.Gem != nil {
		g := *it.Gem
		cp.Gem = &g
	}
	return &cp
}

// ClampVitals forces health and energy back inside their invariant ranges
func (c *Character) ClampVitals() {
	if c.CurrentHealth < 0 {
		c.CurrentHealth = 0
	}
	if c.CurrentHealth > c.MaxHealth {
		c.CurrentHealth = c.MaxHealth
	}
	if c.Energy < 0 {
		c.Energy = 0
	}
	if c.Energy > c.MaxEnergy {
		c.Energy = c.MaxEnergy
	}
}

// EffectiveStats returns base stats plus equipment bonuses and active
// stat-gem effects.
func (c *Character) EffectiveStats() Stats {
	s := c.Stats
	for _, it := range c.Equipment.All() {
		s.Strength += it.StatBonuses.Strength
		s.Dexterity += it.StatBonuses.Dexterity
		s.Constitution += it.StatBonuses.Constitution
		s.Intelligence += it.StatBonuses.Intelligence
		s.Speed += it.StatBonuses.Speed
	}
	for _, eff := range c.ActiveEffects {
		if eff.Stat == "" || eff.BattlesLeft <= 0 {
			continue
		}
		boosted := int(float64(s.Get(eff.Stat)) * eff.Multiplier)
		s = s.With(eff.Stat, boosted)
	}
	return s
}

// GainMultiplier returns the active experience or gold gain multiplier
// contributed by consumed diamond/obsidian gems.
func (c *Character) GainMultiplier(gemType GemType) float64 {
	mult := 1.0
	for _, eff := range c.ActiveEffects {
		if eff.GemType == gemType && eff.Stat == "" && eff.BattlesLeft > 0 {
			mult *= eff.Multiplier
		}
	}
	return mult
}

// TickEffects decrements battle-duration effects after a battle and drops
// the expired ones.
func (c *Character) TickEffects() {
	if len(c.ActiveEffects) == 0 {
		return
	}
	kept := c.ActiveEffects[:0]
	for _, eff := range c.ActiveEffects {
		eff.BattlesLeft--
		if eff.BattlesLeft > 0 {
			kept = append(kept, eff)
		}
	}
	c.ActiveEffects = kept
}
