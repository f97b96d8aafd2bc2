package game

import (
	"context"
	"fmt"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/orchestrators/combat"
	"github.com/emberforge/wildlands/internal/orchestrators/loot"
	"github.com/emberforge/wildlands/internal/orchestrators/wilderness"
)

// CurrentMap returns the active wilderness map, or nil before any
// character exists.
func (s *Store) CurrentMap() *entities.WildernessMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMap
}

// Position returns the player's current position
func (s *Store) Position() entities.PlayerPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// ExploredTiles returns the keys of every tile the player has visited
func (s *Store) ExploredTiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.explored))
	for key := range s.explored {
		out = append(out, key)
	}
	return out
}

// Move walks the selected character to a tile on the current map
func (s *Store) Move(ctx context.Context, x, y int) (*wilderness.MoveOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}
	if s.currentMap == nil {
		return nil, errors.FailedPrecondition("no wilderness map is active")
	}

	out, err := s.wilderness.MoveToTile(ctx, &wilderness.MoveInput{
		Map:       s.currentMap,
		Character: ch,
		X:         x,
		Y:         y,
	})
	if err != nil {
		return nil, err
	}

	s.position = out.Position
	s.explored[out.Tile.Key()] = struct{}{}
	s.saveAsync(ctx)
	return out, nil
}

// AvailableMoves lists the tiles the player can walk to right now.
// Movement is free roam, so that is every tile but the one under the
// player; a dead character or a missing map has no moves.
func (s *Store) AvailableMoves() []TileRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil || !ch.IsAlive() || s.currentMap == nil {
		return nil
	}

	out := make([]TileRef, 0, s.currentMap.Width*s.currentMap.Height-1)
	for y := 0; y < s.currentMap.Height; y++ {
		for x := 0; x < s.currentMap.Width; x++ {
			if x == s.position.X && y == s.position.Y {
				continue
			}
			out = append(out, TileRef{X: x, Y: y})
		}
	}
	return out
}

// FightMonster fights one monster on the player's current tile. A win pays
// the monster's loot; a loss pays the consolation experience from combat.
func (s *Store) FightMonster(ctx context.Context, instanceID string) (*FightOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fightLocked(ctx, instanceID)
}

// FightAll fights every monster on the current tile in spawn order,
// carrying health between fights and stopping the moment the character
// falls. Survivors stay on the tile.
func (s *Store) FightAll(ctx context.Context) (*FightAllOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tile, err := s.currentTile()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tile.Monsters))
	for _, m := range tile.Monsters {
		if m.Alive {
			ids = append(ids, m.InstanceID)
		}
	}
	if len(ids) == 0 {
		return nil, errors.FailedPrecondition("no monsters on this tile")
	}

	out := &FightAllOutput{Cleared: true}
	for _, id := range ids {
		fight, err := s.fightLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		out.Fights = append(out.Fights, fight)
		if !fight.Won {
			out.Cleared = false
			break
		}
	}
	return out, nil
}

// SwitchMap moves play to another map, resetting exploration
func (s *Store) SwitchMap(ctx context.Context, mapID string) (*entities.WildernessMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	cfg, err := s.content.Map(mapID)
	if err != nil {
		return nil, err
	}
	if ch.Level < cfg.RequiredLevel {
		return nil, errors.FailedPreconditionf("%s requires level %d", cfg.Name, cfg.RequiredLevel)
	}

	m := s.wilderness.GenerateMap(cfg)
	s.currentMap = m
	s.position = entities.PlayerPosition{
		X:         m.StartX,
		Y:         m.StartY,
		MapID:     m.ID,
		LastMoved: s.clock.Now(),
	}
	s.explored = map[string]struct{}{
		entities.TileKey(m.StartX, m.StartY): {},
	}

	s.saveAsync(ctx)
	return m, nil
}

// currentTile returns the tile under the player. Caller holds the lock.
func (s *Store) currentTile() (*entities.WildernessTile, error) {
	if s.currentMap == nil {
		return nil, errors.FailedPrecondition("no wilderness map is active")
	}
	tile := s.currentMap.TileAt(s.position.X, s.position.Y)
	if tile == nil {
		return nil, errors.Internalf("player position (%d,%d) is off the map", s.position.X, s.position.Y)
	}
	return tile, nil
}

// fightLocked resolves one wilderness fight. Caller holds the lock.
func (s *Store) fightLocked(ctx context.Context, instanceID string) (*FightOutput, error) {
	ch, err := s.current()
	if err != nil {
		return nil, err
	}
	if !ch.IsAlive() {
		return nil, errors.FailedPrecondition("dead characters cannot fight")
	}

	tile, err := s.currentTile()
	if err != nil {
		return nil, err
	}

	var monster *entities.SpawnedMonster
	for i := range tile.Monsters {
		if tile.Monsters[i].InstanceID == instanceID {
			monster = &tile.Monsters[i]
			break
		}
	}
	if monster == nil {
		return nil, errors.NotFoundf("monster %s not on this tile", instanceID)
	}
	if !monster.Alive {
		return nil, errors.FailedPreconditionf("monster %s is already dead", instanceID)
	}

	class, err := s.content.Class(ch.ClassID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.combat.Resolve(ctx, &combat.ResolveInput{
		Attacker: combat.FromCharacter(ch, class),
		Defender: combat.FromMonster(monster),
	})
	if err != nil {
		return nil, err
	}

	out := ch.Clone()
	won := resolved.Result.WinnerID == ch.ID

	out.CurrentHealth = resolved.AttackerHealth
	out.ClampVitals()

	fight := &FightOutput{Result: resolved.Result, Won: won}

	if won {
		// Wilderness kills pay through the loot engine
		rewards, err := s.loot.RollRewards(ctx, &loot.RollInput{Monster: monster, Player: ch})
		if err != nil {
			return nil, err
		}

		fight.Experience = rewards.Experience
		fight.Gold = rewards.Gold
		fight.Items = rewards.Items

		out.Experience += rewards.Experience
		out.Gold += rewards.Gold
		out.Inventory = append(out.Inventory, rewards.Items...)
		out.Wins++

		// The record reflects what the kill actually paid
		resolved.Result.ExperienceGained = rewards.Experience
		resolved.Result.GoldGained = rewards.Gold

		// Dead monsters leave the tile at once; the pointer into the
		// tile slice is invalid past this call.
		monsterName := monster.Name
		monster.Alive = false
		if err := s.wilderness.RemoveMonster(tile, monster.InstanceID); err != nil {
			return nil, err
		}
		s.encounters++

		for _, item := range rewards.Items {
			s.notify(entities.Notification{
				Type:     entities.NotificationItemDrop,
				Title:    "Item found",
				Message:  fmt.Sprintf("%s dropped %s", monsterName, item.Name),
				ItemName: item.Name,
				Rarity:   item.Rarity,
			})
		}
	} else {
		fight.Experience = resolved.AttackerRewards.Experience
		out.Experience += resolved.AttackerRewards.Experience
		out.Losses++
		s.notify(entities.Notification{
			Type:    entities.NotificationCharacterDeath,
			Title:   "Defeated",
			Message: fmt.Sprintf("%s fell to %s", out.Name, monster.Name),
		})
	}

	out.TickEffects()
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.pushHistory(*resolved.Result)
	s.saveAsync(ctx)
	return fight, nil
}
