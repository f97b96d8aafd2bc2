package game_test

import (
	"time"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/game"
	"github.com/emberforge/wildlands/internal/orchestrators/progression"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

func (s *GameStoreTestSuite) TestTrainCommitsAndCoolsDown() {
	// Draws: success roll 0.5 (rate 85%), crit roll 0.99
	store := s.seedStore(rng.NewSequence(0.5, 0.99), seededDoc(noviceCharacter("char_1")))

	out, err := store.Train(s.ctx, entities.StatStrength)
	s.Require().NoError(err)
	s.True(out.Success)
	s.False(out.Critical)
	s.Equal(6, out.NewValue)

	ch, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(6, ch.Stats.Strength, "the trained snapshot is committed")
	s.Equal(100-30, ch.Energy)
	s.Equal(200-62, ch.Gold)

	// Immediately retraining the same stat hits the cooldown
	_, err = store.Train(s.ctx, entities.StatStrength)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	s.clock.Advance(31 * time.Minute)
	_, err = store.Train(s.ctx, entities.StatStrength)
	s.NoError(err)
}

func (s *GameStoreTestSuite) TestTrainingStatusQueries() {
	// Draws: success roll 0.5 (rate 85%), crit roll 0.99
	store := s.seedStore(rng.NewSequence(0.5, 0.99), seededDoc(noviceCharacter("char_1")))

	status, err := store.TrainingStatus(entities.StatStrength)
	s.Require().NoError(err)
	s.Equal(30, status.EnergyCost, "floor(20 * 1.5) for strength 5")
	s.Equal(62, status.GoldCost)
	s.True(status.CanTrain)
	s.Empty(status.Reason)

	_, err = store.Train(s.ctx, entities.StatStrength)
	s.Require().NoError(err)

	status, err = store.TrainingStatus(entities.StatStrength)
	s.Require().NoError(err)
	s.False(status.CanTrain)
	s.Equal(progression.ReasonCooldown, status.Reason)
	s.Equal(32, status.EnergyCost, "cost follows the raised stat")

	_, err = store.TrainingStatus(entities.Stat("luck"))
	s.True(errors.IsInvalidArgument(err))
}

func (s *GameStoreTestSuite) TestAvailableMoves() {
	store := s.newStore(rng.NewSequence(0.5), nil)
	s.Empty(store.AvailableMoves(), "no character means nowhere to go")

	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	moves := store.AvailableMoves()
	s.Len(moves, 8, "free roam reaches every tile but the current one")
	s.NotContains(moves, game.TileRef{X: 1, Y: 1})
	s.Contains(moves, game.TileRef{X: 0, Y: 0})
	s.Contains(moves, game.TileRef{X: 2, Y: 2})
}

func (s *GameStoreTestSuite) TestLevelUpNotifies() {
	ch := noviceCharacter("char_1")
	ch.Experience = 150 // threshold for level 1 is 100
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	out, err := store.LevelUp(s.ctx)
	s.Require().NoError(err)
	s.True(out.LeveledUp)
	s.Equal(2, out.NewLevel)

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(2, current.Level)
	s.Equal(6, current.Stats.Strength, "floor(5 * 1.2)")
	s.Equal(progression.MaxHealth(6, 2), current.MaxHealth)
	s.Equal(current.MaxHealth, current.CurrentHealth)

	notes := store.PopNotifications()
	s.Require().Len(notes, 1)
	s.Equal(entities.NotificationLevelUp, notes[0].Type)
	s.Empty(store.PopNotifications(), "popping drains the queue")
}

func (s *GameStoreTestSuite) TestLevelUpBelowThresholdIsNoOp() {
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(noviceCharacter("char_1")))

	out, err := store.LevelUp(s.ctx)
	s.Require().NoError(err)
	s.False(out.LeveledUp)
	s.Empty(store.PopNotifications())
}

func (s *GameStoreTestSuite) TestEquipDisplacementAndTwoHanded() {
	ch := noviceCharacter("char_1")
	ch.Inventory = []entities.Item{
		{ID: "it_sword", Name: "Sword", Type: entities.ItemTypeWeapon, Damage: 5, Price: 100},
		{ID: "it_dirk", Name: "Dirk", Type: entities.ItemTypeWeapon, Damage: 2, Price: 40},
		{ID: "it_maul", Name: "Maul", Type: entities.ItemTypeWeapon, Damage: 9, Price: 160, TwoHanded: true},
	}
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	// Sword to main hand, dirk to off hand
	out, err := store.Equip(s.ctx, &game.EquipInput{ItemID: "it_sword"})
	s.Require().NoError(err)
	s.Equal("it_sword", out.Equipment.MainHand.ID)

	out, err = store.Equip(s.ctx, &game.EquipInput{ItemID: "it_dirk", Slot: entities.SlotOffHand})
	s.Require().NoError(err)
	s.Equal("it_dirk", out.Equipment.OffHand.ID)
	s.Len(out.Inventory, 1)

	// The two-handed maul displaces both hands
	out, err = store.Equip(s.ctx, &game.EquipInput{ItemID: "it_maul"})
	s.Require().NoError(err)
	s.Equal("it_maul", out.Equipment.MainHand.ID)
	s.Nil(out.Equipment.OffHand)
	s.Len(out.Inventory, 2, "sword and dirk return to the bag")

	// Nothing joins a two-handed main hand
	_, err = store.Equip(s.ctx, &game.EquipInput{ItemID: "it_dirk", Slot: entities.SlotOffHand})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	out, err = store.Unequip(s.ctx, entities.SlotMainHand)
	s.Require().NoError(err)
	s.Nil(out.Equipment.MainHand)
	s.Len(out.Inventory, 3)
}

func (s *GameStoreTestSuite) TestEquipRejectsGems() {
	ch := noviceCharacter("char_1")
	ch.Inventory = []entities.Item{entities.NewGemItem("it_gem", entities.GemRuby, entities.TierFlawed, 1)}
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	_, err := store.Equip(s.ctx, &game.EquipInput{ItemID: "it_gem"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *GameStoreTestSuite) TestSellItem() {
	ch := noviceCharacter("char_1")
	ch.Inventory = []entities.Item{
		{ID: "it_sword", Name: "Sword", Type: entities.ItemTypeWeapon, Price: 100},
	}
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	gold, err := store.SellItem(s.ctx, "it_sword")
	s.Require().NoError(err)
	s.Equal(50, gold, "items sell for half price")

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(250, current.Gold)
	s.Empty(current.Inventory)

	_, err = store.SellItem(s.ctx, "it_sword")
	s.True(errors.IsNotFound(err))
}

func (s *GameStoreTestSuite) TestConsumeGem() {
	ch := noviceCharacter("char_1")
	ch.Inventory = []entities.Item{entities.NewGemItem("it_gem", entities.GemRuby, entities.TierFlawed, 1)}
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	effect, err := store.ConsumeGem(s.ctx, "it_gem")
	s.Require().NoError(err)
	s.Equal(entities.StatStrength, effect.Stat)
	s.InDelta(1.10, effect.Multiplier, 1e-9)
	s.Equal(3, effect.BattlesLeft)

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Empty(current.Inventory)
	s.Require().Len(current.ActiveEffects, 1)

	// Strength 5 boosted by 1.10 rounds down to 5, so check via the
	// effect list rather than effective stats
	s.Equal(entities.GemRuby, current.ActiveEffects[0].GemType)
}

func (s *GameStoreTestSuite) TestFuseThroughStore() {
	ch := noviceCharacter("char_1")
	ch.Inventory = []entities.Item{
		entities.NewGemItem("it_gem1", entities.GemRuby, entities.TierFlawed, 1),
		entities.NewGemItem("it_gem2", entities.GemRuby, entities.TierFlawed, 1),
	}
	// Failure roll 0.99 beats the 10% chance of fusing into normal
	store := s.seedStore(rng.NewSequence(0.99), seededDoc(ch))

	out, err := store.Fuse(s.ctx, []string{"it_gem1", "it_gem2"})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(entities.TierNormal, out.Produced.Gem.Tier)

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Require().Len(current.Inventory, 1)
	s.Equal(entities.TierNormal, current.Inventory[0].Gem.Tier)

	notes := store.PopNotifications()
	s.Require().Len(notes, 1)
	s.Equal(entities.NotificationFusionResult, notes[0].Type)
}

func (s *GameStoreTestSuite) TestArenaBattle() {
	// Draws: arena spawn pick 0.0 (mire rat), hit 0.5, crit 0.99
	store := s.newStore(rng.NewSequence(0.0, 0.5, 0.99), nil)
	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	out, err := store.StartBattle(s.ctx)
	s.Require().NoError(err)

	s.True(out.Won)
	s.Positive(out.Experience)
	s.Positive(out.Gold)
	s.Empty(out.Items, "arena fights drop no loot")

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(1, current.Wins)
	s.Equal(100+out.Gold, current.Gold)

	history := store.CombatHistory()
	s.Require().Len(history, 1)
	s.Equal(current.ID, history[0].WinnerID)
}

func (s *GameStoreTestSuite) TestFightMonsterPaysLoot() {
	// Draws: spawn pick 0.0 (mire rat), hit 0.5, crit 0.99, gem gate 0.99
	store := s.newStore(rng.NewSequence(0.0, 0.5, 0.99, 0.99), nil)
	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	move, err := store.Move(s.ctx, 0, 1)
	s.Require().NoError(err)
	s.Require().NotNil(move.Spawned)

	out, err := store.FightMonster(s.ctx, move.Spawned.InstanceID)
	s.Require().NoError(err)

	s.True(out.Won)
	// Guaranteed level-1 kill pays 10 XP / 5 gold, plus the rat's
	// always-on bonus entry of 3 XP / 7 gold
	s.Equal(13, out.Experience)
	s.Equal(12, out.Gold)

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(13, current.Experience)
	s.Equal(112, current.Gold)
	s.Equal(1, current.Wins)

	// The kill empties the tile
	tile := store.CurrentMap().TileAt(0, 1)
	s.Empty(tile.Monsters)

	history := store.CombatHistory()
	s.Require().Len(history, 1)
	s.Equal(13, history[0].ExperienceGained, "the record reflects loot, not arena rewards")
}

func (s *GameStoreTestSuite) TestFightMonsterAfterReloadPaysLoot() {
	// Draws: spawn pick 0.0 (mire rat)
	store := s.newStore(rng.NewSequence(0.0), nil)
	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	move, err := store.Move(s.ctx, 0, 1)
	s.Require().NoError(err)
	s.Require().NotNil(move.Spawned)
	s.Require().NoError(store.Save(s.ctx))

	// Draws: hit 0.5, crit 0.99, gem gate 0.99
	restored := s.newStore(rng.NewSequence(0.5, 0.99, 0.99), nil)
	s.Require().NoError(restored.Load(s.ctx))

	tile := restored.CurrentMap().TileAt(0, 1)
	s.Require().Len(tile.Monsters, 1)
	s.Require().Len(tile.Monsters[0].LootTable, 1, "the loot table survives the save")

	out, err := restored.FightMonster(s.ctx, tile.Monsters[0].InstanceID)
	s.Require().NoError(err)

	s.True(out.Won)
	// The reloaded rat still pays its always-on bonus entry
	s.Equal(13, out.Experience)
	s.Equal(12, out.Gold)
	s.Empty(tile.Monsters)
}

func (s *GameStoreTestSuite) TestFightAllStopsOnDeath() {
	// Spawn picks: 0.0 rat, 0.9 stag, 0.0 rat. Then the rat fight
	// (hit 0.5, crit 0.99, gem gate 0.99) and the stag fight: three
	// exchanges of hit/no-crit draws until the warrior falls.
	store := s.newStore(rng.NewSequence(
		0.0,
		0.9,
		0.0,
		0.5, 0.99, 0.99,
		0.5, 0.99, 0.5, 0.99, 0.5, 0.99,
	), nil)
	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err = store.Move(s.ctx, 0, 1)
		s.Require().NoError(err)
		s.clock.Advance(300 * time.Millisecond)
	}
	tile := store.CurrentMap().TileAt(0, 1)
	s.Require().Len(tile.Monsters, 3)

	out, err := store.FightAll(s.ctx)
	s.Require().NoError(err)

	s.False(out.Cleared)
	s.Require().Len(out.Fights, 2)
	s.True(out.Fights[0].Won)
	s.False(out.Fights[1].Won)

	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.False(current.IsAlive())
	s.Equal(1, current.Losses)

	// The winner and the unfought rat stay on the tile
	s.Len(tile.Monsters, 2)

	notes := store.PopNotifications()
	s.Require().NotEmpty(notes)
	s.Equal(entities.NotificationCharacterDeath, notes[len(notes)-1].Type)

	// Dead characters cannot keep fighting
	_, err = store.FightMonster(s.ctx, tile.Monsters[0].InstanceID)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *GameStoreTestSuite) TestHealRestoresForGold() {
	ch := noviceCharacter("char_1")
	ch.CurrentHealth = 35 // 100 missing
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	healed, err := store.Heal(s.ctx)
	s.Require().NoError(err)
	s.Equal(135, healed.CurrentHealth)
	s.Equal(150, healed.Gold, "healing 100 health costs 50 gold")

	_, err = store.Heal(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err), "full health needs no healer")
}

func (s *GameStoreTestSuite) TestHealRequiresGold() {
	ch := noviceCharacter("char_1")
	ch.CurrentHealth = 35
	ch.Gold = 10
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(ch))

	_, err := store.Heal(s.ctx)
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *GameStoreTestSuite) TestSwitchMapGatedByLevel() {
	store := s.newStore(rng.NewSequence(0.5), nil)
	_, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)

	_, err = store.SwitchMap(s.ctx, "highland_test")
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err), "the highlands need level 10")

	_, err = store.SwitchMap(s.ctx, "nowhere")
	s.True(errors.IsNotFound(err))
}

func (s *GameStoreTestSuite) TestSwitchMapResetsExploration() {
	ch := noviceCharacter("char_1")
	ch.Level = 12
	doc := seededDoc(ch)
	store := s.seedStore(rng.NewSequence(0.5), doc)

	m, err := store.SwitchMap(s.ctx, "highland_test")
	s.Require().NoError(err)
	s.Equal("highland_test", m.ID)

	pos := store.Position()
	s.Equal(m.StartX, pos.X)
	s.Equal(m.StartY, pos.Y)
	s.Equal("highland_test", pos.MapID)
	s.ElementsMatch([]string{"0,0"}, store.ExploredTiles())
}

func (s *GameStoreTestSuite) TestDeleteAndSelect() {
	store := s.newStore(rng.NewSequence(0.5), nil)
	a, err := store.CreateCharacter(s.ctx, "Aldric", "warrior")
	s.Require().NoError(err)
	b, err := store.CreateCharacter(s.ctx, "Wren", "novice")
	s.Require().NoError(err)

	s.Require().NoError(store.SelectCharacter(s.ctx, b.ID))
	current, err := store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(b.ID, current.ID)

	s.Require().NoError(store.DeleteCharacter(s.ctx, b.ID))
	current, err = store.CurrentCharacter()
	s.Require().NoError(err)
	s.Equal(a.ID, current.ID, "deleting the selected character falls back to the first")

	s.True(errors.IsNotFound(store.DeleteCharacter(s.ctx, b.ID)))
}

func (s *GameStoreTestSuite) TestRegenEnergyClampsToMax() {
	a := noviceCharacter("char_1")
	a.Energy = 40
	b := noviceCharacter("char_2")
	b.Name = "Brynn"
	b.Energy = 95
	store := s.seedStore(rng.NewSequence(0.5), seededDoc(a, b))

	store.RegenEnergy(s.ctx, 10)

	chars := store.Characters()
	s.Require().Len(chars, 2)
	s.Equal(50, chars[0].Energy)
	s.Equal(100, chars[1].Energy, "regen never exceeds the maximum")

	// Full characters are untouched
	store.RegenEnergy(s.ctx, 10)
	chars = store.Characters()
	s.Equal(60, chars[0].Energy)
	s.Equal(100, chars[1].Energy)
}
