// Package entities defines the data model for the wildlands engine.
// These are data-only structs; all rules live in the orchestrators.
package entities

// Stat identifies one of the five core character stats
type Stat string

// Core stats
const (
	StatStrength     Stat = "strength"
	StatDexterity    Stat = "dexterity"
	StatConstitution Stat = "constitution"
	StatIntelligence Stat = "intelligence"
	StatSpeed        Stat = "speed"
)

// AllStats lists every core stat in canonical order
var AllStats = []Stat{
	StatStrength,
	StatDexterity,
	StatConstitution,
	StatIntelligence,
	StatSpeed,
}

// IsValid reports whether s names a core stat
func (s Stat) IsValid() bool {
	switch s {
	case StatStrength, StatDexterity, StatConstitution, StatIntelligence, StatSpeed:
		return true
	}
	return false
}

// Stats holds the five core stat values. Value semantics keep
// copy-on-write snapshots cheap.
type Stats struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Constitution int `json:"constitution" yaml:"constitution"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Speed        int `json:"speed" yaml:"speed"`
}

// Get returns the value of the named stat
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatStrength:
		return s.Strength
	case StatDexterity:
		return s.Dexterity
	case StatConstitution:
		return s.Constitution
	case StatIntelligence:
		return s.Intelligence
	case StatSpeed:
		return s.Speed
	default:
		return 0
	}
}

// With returns a copy with the named stat set to value
func (s Stats) With(stat Stat, value int) Stats {
	switch stat {
	case StatStrength:
		s.Strength = value
	case StatDexterity:
		s.Dexterity = value
	case StatConstitution:
		s.Constitution = value
	case StatIntelligence:
		s.Intelligence = value
	case StatSpeed:
		s.Speed = value
	}
	return s
}

// Add returns a copy with the named stat increased by delta
func (s Stats) Add(stat Stat, delta int) Stats {
	return s.With(stat, s.Get(stat)+delta)
}
