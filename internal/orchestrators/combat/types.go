package combat

import "github.com/emberforge/wildlands/internal/entities"

// Combatant is an immutable snapshot of one side of a fight. Resolution
// never touches the underlying character or monster; callers apply the
// output themselves.
type Combatant struct {
	ID            string
	Name          string
	Level         int
	Stats         entities.Stats
	MaxHealth     int
	CurrentHealth int
	WeaponDamage  int
	Armor         int
	// OffensiveStat picks which stat drives damage (strength for martial
	// classes, intelligence for casters, strength for monsters)
	OffensiveStat entities.Stat
}

// FromCharacter snapshots a character for resolution. Effective stats fold
// in equipment bonuses and active gem effects.
func FromCharacter(ch *entities.Character, class *entities.Class) *Combatant {
	offensive := entities.StatStrength
	if class != nil && class.PrimaryStat == entities.StatIntelligence {
		offensive = entities.StatIntelligence
	}

	weapon := 0
	if w := ch.Equipment.MainHand; w != nil {
		weapon = w.Damage
	}

	armor := 0
	for _, it := range ch.Equipment.All() {
		armor += it.Armor
	}

	return &Combatant{
		ID:            ch.ID,
		Name:          ch.Name,
		Level:         ch.Level,
		Stats:         ch.EffectiveStats(),
		MaxHealth:     ch.MaxHealth,
		CurrentHealth: ch.CurrentHealth,
		WeaponDamage:  weapon,
		Armor:         armor,
		OffensiveStat: offensive,
	}
}

// FromMonster snapshots a spawned monster for resolution
func FromMonster(m *entities.SpawnedMonster) *Combatant {
	return &Combatant{
		ID:            m.InstanceID,
		Name:          m.Name,
		Level:         m.Level,
		Stats:         m.Stats,
		MaxHealth:     m.MaxHealth,
		CurrentHealth: m.CurrentHealth,
		WeaponDamage:  m.Damage,
		Armor:         m.Armor,
		OffensiveStat: entities.StatStrength,
	}
}

// Rewards is one side's take from a resolved fight
type Rewards struct {
	Experience int
	Gold       int
}

// ResolveInput defines the input for resolving one fight
type ResolveInput struct {
	Attacker *Combatant
	Defender *Combatant
}

// ResolveOutput defines the outcome of one resolved fight. Result carries
// the attacker-centric record; the reward and health fields let the caller
// settle both sides.
type ResolveOutput struct {
	Result          *entities.CombatResult
	AttackerHealth  int
	DefenderHealth  int
	AttackerRewards Rewards
	DefenderRewards Rewards
}
