package wilderness

import "github.com/emberforge/wildlands/internal/entities"

// MoveInput defines the input for moving the player to a tile
type MoveInput struct {
	Map       *entities.WildernessMap
	Character *entities.Character
	X         int
	Y         int
}

// MoveOutput defines the result of a move. Tile points into the map that
// was passed in; Spawned is nil when the spawn gate did not produce one.
type MoveOutput struct {
	Tile     *entities.WildernessTile
	Position entities.PlayerPosition
	Spawned  *entities.SpawnedMonster
	// Distance is the Manhattan distance from the map start
	Distance int
}
