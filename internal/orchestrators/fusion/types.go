package fusion

import "github.com/emberforge/wildlands/internal/entities"

// FuseInput defines the input for one fusion attempt
type FuseInput struct {
	Character *entities.Character
	// GemIDs selects the input gems from the character's inventory
	GemIDs []string
}

// FuseOutput defines the result of one fusion attempt
type FuseOutput struct {
	// Character is the post-fusion snapshot; the caller commits it
	Character   *entities.Character
	ConsumedIDs []string
	Success     bool
	// Produced is nil when the fusion failed
	Produced *entities.Item
}

// FuseAllInput defines the input for batch fusion
type FuseAllInput struct {
	Character *entities.Character
	GemType   entities.GemType
	Tier      entities.GemTier
}

// FuseAllOutput defines the result of batch fusion
type FuseAllOutput struct {
	Character *entities.Character
	Attempts  int
	Successes int
}
