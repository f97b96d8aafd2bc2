package game

import (
	"time"

	"github.com/emberforge/wildlands/internal/entities"
)

// Settings are the player-tunable engine options
type Settings struct {
	Autosave bool `json:"autosave"`
	// CombatSpeed scales playback pacing in the presentation layer
	CombatSpeed   float64 `json:"combatSpeed"`
	Sound         bool    `json:"sound"`
	Notifications bool    `json:"notifications"`
}

// DefaultSettings returns the out-of-the-box settings
func DefaultSettings() Settings {
	return Settings{
		Autosave:      true,
		CombatSpeed:   1.0,
		Sound:         true,
		Notifications: true,
	}
}

// SaveDocument is the full game state as one JSON blob
type SaveDocument struct {
	Characters         []*entities.Character   `json:"characters"`
	CurrentCharacterID string                  `json:"currentCharacterId,omitempty"`
	CombatHistory      []entities.CombatResult `json:"combatHistory,omitempty"`
	Settings           Settings                `json:"settings"`
	WildernessState    WildernessDocument      `json:"wildernessState"`
	LastSave           time.Time               `json:"lastSave"`
	GameStarted        bool                    `json:"gameStarted"`
}

// WildernessDocument is the wilderness portion of the save
type WildernessDocument struct {
	CurrentMap     *entities.WildernessMap `json:"currentMap,omitempty"`
	PlayerPosition entities.PlayerPosition `json:"playerPosition"`
	ExploredTiles  []string                `json:"exploredTiles,omitempty"`
	// Encounters counts wilderness fights across the save's lifetime
	Encounters int `json:"encounters"`
}

// EquipInput defines the input for equipping an item
type EquipInput struct {
	ItemID string
	// Slot overrides the item's natural slot; only weapons accept an
	// override (to the off hand).
	Slot entities.ItemSlot
}

// TrainingStatus reports what a training session would cost and whether
// one is allowed right now
type TrainingStatus struct {
	Stat       entities.Stat `json:"stat"`
	EnergyCost int           `json:"energyCost"`
	GoldCost   int           `json:"goldCost"`
	CanTrain   bool          `json:"canTrain"`
	// Reason is set when CanTrain is false
	Reason string `json:"reason,omitempty"`
}

// TileRef addresses one tile on the current map
type TileRef struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FightOutput defines the result of one wilderness fight
type FightOutput struct {
	Result     *entities.CombatResult
	Won        bool
	Experience int
	Gold       int
	Items      []entities.Item
}

// FightAllOutput defines the result of clearing a tile
type FightAllOutput struct {
	Fights []*FightOutput
	// Cleared is true when every monster on the tile died
	Cleared bool
}
