package progression

import "github.com/emberforge/wildlands/internal/entities"

// TrainInput defines the input for one training session
type TrainInput struct {
	Character *entities.Character
	Stat      entities.Stat
}

// TrainOutput defines the result of one training session
type TrainOutput struct {
	// Character is the post-session snapshot; the caller commits it
	Character  *entities.Character
	Stat       entities.Stat
	OldValue   int
	NewValue   int
	EnergyCost int
	GoldCost   int
	Success    bool
	Critical   bool
}

// LevelUpInput defines the input for a level-up attempt
type LevelUpInput struct {
	Character *entities.Character
	Class     *entities.Class
}

// LevelUpOutput defines the result of a level-up attempt
type LevelUpOutput struct {
	// Character is unchanged when LeveledUp is false
	Character *entities.Character
	LeveledUp bool
	NewLevel  int
}
