package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/orchestrators/combat"
	"github.com/emberforge/wildlands/internal/orchestrators/fusion"
	"github.com/emberforge/wildlands/internal/orchestrators/progression"
)

const (
	startingEnergy = 100
	startingGold   = 100

	// healGoldPerMissingHealth prices a full rest at the healer
	healGoldPerMissingHealth = 0.5
)

// CreateCharacter rolls a fresh level-1 character of the given class and
// selects it. The creation save is awaited so a new character can never be
// lost to a crash.
func (s *Store) CreateCharacter(ctx context.Context, name, classID string) (*entities.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.InvalidArgument("name is required")
	}

	class, err := s.content.Class(classID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.characters {
		if strings.EqualFold(existing.Name, name) {
			return nil, errors.AlreadyExistsf("a character named %s already exists", existing.Name)
		}
	}

	now := s.clock.Now()
	maxHealth := progression.MaxHealth(class.BaseStats.Constitution, 1)
	ch := &entities.Character{
		ID:            s.idGen.Generate(),
		Name:          name,
		ClassID:       class.ID,
		Level:         1,
		Gold:          startingGold,
		Energy:        startingEnergy,
		MaxEnergy:     startingEnergy,
		CurrentHealth: maxHealth,
		MaxHealth:     maxHealth,
		Stats:         class.BaseStats,
		Inventory:     []entities.Item{},
		LastTraining:  make(map[entities.Stat]time.Time),
		CreatedAt:     now,
		LastActive:    now,
	}

	s.characters = append(s.characters, ch)
	if s.currentID == "" {
		s.currentID = ch.ID
	}
	s.gameStarted = true

	if s.currentMap == nil {
		if starter := s.content.StarterMap(); starter != nil {
			s.currentMap = s.wilderness.GenerateMap(starter)
			s.position = entities.PlayerPosition{
				X:         s.currentMap.StartX,
				Y:         s.currentMap.StartY,
				MapID:     s.currentMap.ID,
				LastMoved: now,
			}
			s.explored[entities.TileKey(s.position.X, s.position.Y)] = struct{}{}
		}
	}

	if err := s.saveNow(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save new character")
	}

	slog.InfoContext(ctx, "character created",
		"character_id", ch.ID,
		"class", class.ID)
	return ch.Clone(), nil
}

// DeleteCharacter permanently removes a character
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, ch := range s.characters {
		if ch.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.NotFoundf("character %s not found", id)
	}

	s.characters = append(s.characters[:idx], s.characters[idx+1:]...)
	if s.currentID == id {
		s.currentID = ""
		if len(s.characters) > 0 {
			s.currentID = s.characters[0].ID
		}
	}

	s.saveAsync(ctx)
	return nil
}

// SelectCharacter makes a character the active one
func (s *Store) SelectCharacter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.characterByID(id) == nil {
		return errors.NotFoundf("character %s not found", id)
	}
	s.currentID = id
	s.saveAsync(ctx)
	return nil
}

// Train runs one training session for the selected character
func (s *Store) Train(ctx context.Context, stat entities.Stat) (*progression.TrainOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	out, err := s.progression.Train(ctx, &progression.TrainInput{Character: ch, Stat: stat})
	if err != nil {
		return nil, err
	}

	s.commit(out.Character)
	s.saveAsync(ctx)
	return out, nil
}

// TrainingStatus reports the cost and availability of training a stat
// without running a session.
func (s *Store) TrainingStatus(stat entities.Stat) (*TrainingStatus, error) {
	if !stat.IsValid() {
		return nil, errors.InvalidArgumentf("unknown stat %q", string(stat))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	energy, gold := s.progression.TrainingCost(ch, stat)
	ok, reason := s.progression.CanTrain(ch, stat)
	return &TrainingStatus{
		Stat:       stat,
		EnergyCost: energy,
		GoldCost:   gold,
		CanTrain:   ok,
		Reason:     reason,
	}, nil
}

// LevelUp applies a pending level gain to the selected character
func (s *Store) LevelUp(ctx context.Context) (*progression.LevelUpOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}
	class, err := s.content.Class(ch.ClassID)
	if err != nil {
		return nil, err
	}

	out, err := s.progression.LevelUp(ctx, &progression.LevelUpInput{Character: ch, Class: class})
	if err != nil {
		return nil, err
	}
	if !out.LeveledUp {
		return out, nil
	}

	s.commit(out.Character)
	s.notify(entities.Notification{
		Type:    entities.NotificationLevelUp,
		Title:   "Level up",
		Message: fmt.Sprintf("%s reached level %d", out.Character.Name, out.NewLevel),
	})
	s.saveAsync(ctx)
	return out, nil
}

// Heal restores the selected character to full health for gold
func (s *Store) Heal(ctx context.Context) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	missing := ch.MaxHealth - ch.CurrentHealth
	if missing <= 0 {
		return nil, errors.FailedPrecondition("already at full health")
	}

	cost := int(float64(missing) * healGoldPerMissingHealth)
	if cost < 1 {
		cost = 1
	}
	if ch.Gold < cost {
		return nil, errors.FailedPreconditionf("healing costs %d gold, have %d", cost, ch.Gold)
	}

	out := ch.Clone()
	out.Gold -= cost
	out.CurrentHealth = out.MaxHealth
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.saveAsync(ctx)
	return out.Clone(), nil
}

// ConsumeGem activates a gem from the selected character's inventory
func (s *Store) ConsumeGem(ctx context.Context, itemID string) (*entities.ConsumeEffect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	var gem *entities.Item
	for i := range ch.Inventory {
		if ch.Inventory[i].ID == itemID {
			gem = &ch.Inventory[i]
			break
		}
	}
	if gem == nil {
		return nil, errors.NotFoundf("item %s not found in inventory", itemID)
	}
	if !gem.IsGem() {
		return nil, errors.InvalidArgumentf("item %s is not a gem", itemID)
	}

	effect := gem.Gem.Effect

	out := ch.Clone()
	out.Inventory = removeItem(out.Inventory, itemID)
	out.ActiveEffects = append(out.ActiveEffects, effect)
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.saveAsync(ctx)
	return &effect, nil
}

// SellItem sells an inventory item for half its price
func (s *Store) SellItem(ctx context.Context, itemID string) (gold int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return 0, err
	}

	var item *entities.Item
	for i := range ch.Inventory {
		if ch.Inventory[i].ID == itemID {
			item = &ch.Inventory[i]
			break
		}
	}
	if item == nil {
		return 0, errors.NotFoundf("item %s not found in inventory", itemID)
	}

	gold = item.Price / 2
	if gold < 1 {
		gold = 1
	}

	out := ch.Clone()
	out.Inventory = removeItem(out.Inventory, itemID)
	out.Gold += gold
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.saveAsync(ctx)
	return gold, nil
}

// Equip moves an inventory item into its equipment slot. Anything displaced
// returns to the inventory. A two-handed main hand clears the off hand.
func (s *Store) Equip(ctx context.Context, input *EquipInput) (*entities.Character, error) {
	if input == nil || input.ItemID == "" {
		return nil, errors.InvalidArgument("item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	var item *entities.Item
	for i := range ch.Inventory {
		if ch.Inventory[i].ID == input.ItemID {
			item = &ch.Inventory[i]
			break
		}
	}
	if item == nil {
		return nil, errors.NotFoundf("item %s not found in inventory", input.ItemID)
	}

	slot := item.Slot()
	if slot == "" {
		return nil, errors.InvalidArgumentf("item %s cannot be equipped", input.ItemID)
	}
	if input.Slot != "" && input.Slot != slot {
		// Only one-handed weapons may be redirected, and only off hand
		if item.Type != entities.ItemTypeWeapon || input.Slot != entities.SlotOffHand {
			return nil, errors.InvalidArgumentf("item %s cannot go in slot %s", input.ItemID, input.Slot)
		}
		if item.TwoHanded {
			return nil, errors.FailedPrecondition("a two-handed weapon cannot go in the off hand")
		}
		slot = entities.SlotOffHand
	}

	out := ch.Clone()
	out.Inventory = removeItem(out.Inventory, input.ItemID)

	if slot == entities.SlotOffHand {
		if main := out.Equipment.MainHand; main != nil && main.TwoHanded {
			return nil, errors.FailedPrecondition("the main hand holds a two-handed weapon")
		}
	}

	// Displaced gear goes back to the bag
	if prev := out.Equipment.Get(slot); prev != nil {
		out.Inventory = append(out.Inventory, *prev)
	}
	if slot == entities.SlotMainHand && item.TwoHanded {
		if off := out.Equipment.OffHand; off != nil {
			out.Inventory = append(out.Inventory, *off)
			out.Equipment.Set(entities.SlotOffHand, nil)
		}
	}

	equipped := *item
	out.Equipment.Set(slot, &equipped)
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.saveAsync(ctx)
	return out.Clone(), nil
}

// Unequip moves the item in a slot back into the inventory
func (s *Store) Unequip(ctx context.Context, slot entities.ItemSlot) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	item := ch.Equipment.Get(slot)
	if item == nil {
		return nil, errors.NotFoundf("nothing equipped in slot %s", slot)
	}

	out := ch.Clone()
	out.Inventory = append(out.Inventory, *out.Equipment.Get(slot))
	out.Equipment.Set(slot, nil)
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.saveAsync(ctx)
	return out.Clone(), nil
}

// Fuse runs one gem fusion for the selected character
func (s *Store) Fuse(ctx context.Context, gemIDs []string) (*fusion.FuseOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	out, err := s.fusion.Fuse(ctx, &fusion.FuseInput{Character: ch, GemIDs: gemIDs})
	if err != nil {
		return nil, err
	}

	s.commit(out.Character)
	s.notifyFusion(out)
	s.saveAsync(ctx)
	return out, nil
}

// FuseAll fuses every complete recipe of one gem type and tier
func (s *Store) FuseAll(ctx context.Context, gemType entities.GemType, tier entities.GemTier) (*fusion.FuseAllOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}

	out, err := s.fusion.FuseAll(ctx, &fusion.FuseAllInput{
		Character: ch,
		GemType:   gemType,
		Tier:      tier,
	})
	if err != nil {
		return nil, err
	}

	s.commit(out.Character)
	if out.Attempts > 0 {
		s.notify(entities.Notification{
			Type:  entities.NotificationFusionResult,
			Title: "Fusion complete",
			Message: fmt.Sprintf("%d of %d fusions succeeded",
				out.Successes, out.Attempts),
		})
	}
	s.saveAsync(ctx)
	return out, nil
}

func (s *Store) notifyFusion(out *fusion.FuseOutput) {
	n := entities.Notification{
		Type:    entities.NotificationFusionResult,
		Title:   "Fusion failed",
		Message: fmt.Sprintf("%d gems crumbled to dust", len(out.ConsumedIDs)),
	}
	if out.Success {
		n.Title = "Fusion succeeded"
		n.Message = fmt.Sprintf("Created %s", out.Produced.Name)
		n.ItemName = out.Produced.Name
		n.Rarity = out.Produced.Rarity
	}
	s.notify(n)
}

// StartBattle pits the selected character against a scaled arena opponent.
// Arena fights pay combat rewards directly; there is no loot table.
func (s *Store) StartBattle(ctx context.Context) (*FightOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}
	if !ch.IsAlive() {
		return nil, errors.FailedPrecondition("dead characters cannot fight")
	}

	opponent, err := s.wilderness.SpawnAtLevel(ch.Level)
	if err != nil {
		return nil, err
	}

	class, err := s.content.Class(ch.ClassID)
	if err != nil {
		return nil, err
	}

	resolved, err := s.combat.Resolve(ctx, &combat.ResolveInput{
		Attacker: combat.FromCharacter(ch, class),
		Defender: combat.FromMonster(opponent),
	})
	if err != nil {
		return nil, err
	}

	out := ch.Clone()
	won := resolved.Result.WinnerID == ch.ID

	out.CurrentHealth = resolved.AttackerHealth
	out.ClampVitals()
	out.Experience += resolved.AttackerRewards.Experience
	out.Gold += resolved.AttackerRewards.Gold
	if won {
		out.Wins++
	} else {
		out.Losses++
	}
	out.TickEffects()
	out.LastActive = s.clock.Now()

	s.commit(out)
	s.pushHistory(*resolved.Result)
	if !out.IsAlive() {
		s.notify(entities.Notification{
			Type:    entities.NotificationCharacterDeath,
			Title:   "Defeated",
			Message: fmt.Sprintf("%s fell to %s", out.Name, opponent.Name),
		})
	}
	s.saveAsync(ctx)

	return &FightOutput{
		Result:     resolved.Result,
		Won:        won,
		Experience: resolved.AttackerRewards.Experience,
		Gold:       resolved.AttackerRewards.Gold,
	}, nil
}

func removeItem(inv []entities.Item, id string) []entities.Item {
	kept := make([]entities.Item, 0, len(inv))
	for _, it := range inv {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return kept
}
