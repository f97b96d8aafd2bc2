package loot

import "github.com/emberforge/wildlands/internal/entities"

// RollInput defines the input for resolving a kill's rewards
type RollInput struct {
	Monster *entities.SpawnedMonster
	Player  *entities.Character
}

// RollOutput defines the rewards from one kill
type RollOutput struct {
	Experience int
	Gold       int
	Items      []entities.Item
	// BonusRolls counts how many loot table entries triggered
	BonusRolls int
}
