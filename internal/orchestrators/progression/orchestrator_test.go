package progression_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/orchestrators/progression"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/rng"
)

type ProgressionTestSuite struct {
	suite.Suite
	clock *clock.Fixed
	ctx   context.Context
}

func (s *ProgressionTestSuite) SetupTest() {
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *ProgressionTestSuite) newService(src rng.Source) progression.Service {
	svc, err := progression.NewOrchestrator(&progression.Config{
		Clock: s.clock,
		Rng:   src,
	})
	s.Require().NoError(err)
	return svc
}

func (s *ProgressionTestSuite) newCharacter() *entities.Character {
	return &entities.Character{
		ID:            "char_1",
		Name:          "Brannoc",
		ClassID:       "warrior",
		Level:         1,
		Gold:          500,
		Energy:        100,
		MaxEnergy:     100,
		CurrentHealth: 155,
		MaxHealth:     155,
		Stats: entities.Stats{
			Strength: 10, Dexterity: 8, Constitution: 11, Intelligence: 5, Speed: 7,
		},
		LastTraining: map[entities.Stat]time.Time{},
	}
}

func (s *ProgressionTestSuite) TestTrainingCost() {
	svc := s.newService(rng.NewSequence(0.5))
	ch := s.newCharacter()

	// strength 10: energy floor(20*2.0)=40, gold floor(50*1.5)=75
	energy, gold := svc.TrainingCost(ch, entities.StatStrength)
	s.Equal(40, energy)
	s.Equal(75, gold)

	// intelligence 5: energy floor(20*1.5)=30, gold floor(50*1.25)=62
	energy, gold = svc.TrainingCost(ch, entities.StatIntelligence)
	s.Equal(30, energy)
	s.Equal(62, gold)
}

func (s *ProgressionTestSuite) TestSuccessRate() {
	s.Equal(75, progression.SuccessRate(10))
	s.Equal(95, progression.SuccessRate(0))
	// Floor of 50% regardless of stat value
	s.Equal(50, progression.SuccessRate(40))
	s.Equal(50, progression.SuccessRate(90))
}

func (s *ProgressionTestSuite) TestTrainSuccess() {
	// First draw 0.5 < 0.75 -> success; second draw 0.9 >= 0.10 -> no crit
	svc := s.newService(rng.NewSequence(0.5, 0.9))
	ch := s.newCharacter()

	out, err := svc.Train(s.ctx, &progression.TrainInput{Character: ch, Stat: entities.StatStrength})
	s.Require().NoError(err)

	s.True(out.Success)
	s.False(out.Critical)
	s.Equal(10, out.OldValue)
	s.Equal(11, out.NewValue)
	s.Equal(60, out.Character.Energy)
	s.Equal(425, out.Character.Gold)

	// Input snapshot untouched
	s.Equal(10, ch.Stats.Strength)
	s.Equal(100, ch.Energy)
}

func (s *ProgressionTestSuite) TestTrainCritical() {
	svc := s.newService(rng.NewSequence(0.1, 0.05))
	ch := s.newCharacter()

	out, err := svc.Train(s.ctx, &progression.TrainInput{Character: ch, Stat: entities.StatStrength})
	s.Require().NoError(err)

	s.True(out.Success)
	s.True(out.Critical)
	s.Equal(12, out.NewValue)
}

func (s *ProgressionTestSuite) TestTrainFailureStillCharges() {
	// 0.99 >= 0.75 -> failed roll
	svc := s.newService(rng.NewSequence(0.99))
	ch := s.newCharacter()

	out, err := svc.Train(s.ctx, &progression.TrainInput{Character: ch, Stat: entities.StatStrength})
	s.Require().NoError(err)

	s.False(out.Success)
	s.Equal(10, out.NewValue)
	s.Equal(60, out.Character.Energy, "failed session still costs energy")
	s.Equal(425, out.Character.Gold, "failed session still costs gold")
	s.Equal(s.clock.Now(), out.Character.LastTraining[entities.StatStrength])
}

func (s *ProgressionTestSuite) TestTrainCooldown() {
	svc := s.newService(rng.NewSequence(0.5, 0.9))
	ch := s.newCharacter()

	out, err := svc.Train(s.ctx, &progression.TrainInput{Character: ch, Stat: entities.StatStrength})
	s.Require().NoError(err)

	// 29 minutes later: refused regardless of resources
	s.clock.Advance(29 * time.Minute)
	ok, reason := svc.CanTrain(out.Character, entities.StatStrength)
	s.False(ok)
	s.Equal(progression.ReasonCooldown, reason)

	_, err = svc.Train(s.ctx, &progression.TrainInput{Character: out.Character, Stat: entities.StatStrength})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))

	// Another stat is not gated by strength's cooldown
	ok, _ = svc.CanTrain(out.Character, entities.StatDexterity)
	s.True(ok)

	// Past the cooldown the same stat trains again
	s.clock.Advance(2 * time.Minute)
	ok, _ = svc.CanTrain(out.Character, entities.StatStrength)
	s.True(ok)
}

func (s *ProgressionTestSuite) TestCanTrainRefusals() {
	svc := s.newService(rng.NewSequence(0.5))

	dead := s.newCharacter()
	dead.CurrentHealth = 0
	ok, reason := svc.CanTrain(dead, entities.StatStrength)
	s.False(ok)
	s.Equal(progression.ReasonDead, reason)

	broke := s.newCharacter()
	broke.Gold = 10
	ok, reason = svc.CanTrain(broke, entities.StatStrength)
	s.False(ok)
	s.Equal(progression.ReasonInsufficientGold, reason)

	tired := s.newCharacter()
	tired.Energy = 5
	ok, reason = svc.CanTrain(tired, entities.StatStrength)
	s.False(ok)
	s.Equal(progression.ReasonInsufficientEnergy, reason)
}

func warriorClass() *entities.Class {
	return &entities.Class{
		ID:          "warrior",
		PrimaryStat: entities.StatStrength,
		Growth: entities.Growth{
			Strength: 1.15, Dexterity: 1.05, Constitution: 1.10, Intelligence: 1.02, Speed: 1.04,
		},
		XPBase:     100,
		XPExponent: 1.5,
	}
}

func (s *ProgressionTestSuite) TestLevelUp() {
	svc := s.newService(rng.NewSequence(0.5))
	class := warriorClass()

	ch := s.newCharacter()
	ch.Experience = 100 // threshold for level 1 is floor(100*1^1.5) = 100
	ch.CurrentHealth = 40
	ch.Energy = 10

	s.True(svc.CanLevelUp(ch, class))

	out, err := svc.LevelUp(s.ctx, &progression.LevelUpInput{Character: ch, Class: class})
	s.Require().NoError(err)
	s.True(out.LeveledUp)
	s.Equal(2, out.NewLevel)

	// strength 10 * 1.15 = 11, constitution 11 * 1.10 = 12
	s.Equal(11, out.Character.Stats.Strength)
	s.Equal(12, out.Character.Stats.Constitution)

	// max health floor(100 + 12*5 + 2*10) = 180, restored to full
	s.Equal(180, out.Character.MaxHealth)
	s.Equal(180, out.Character.CurrentHealth)
	s.Equal(out.Character.MaxEnergy, out.Character.Energy)
}

func (s *ProgressionTestSuite) TestLevelUpBelowThresholdIsNoop() {
	svc := s.newService(rng.NewSequence(0.5))
	class := warriorClass()

	ch := s.newCharacter()
	ch.Experience = 99

	s.False(svc.CanLevelUp(ch, class))

	out, err := svc.LevelUp(s.ctx, &progression.LevelUpInput{Character: ch, Class: class})
	s.Require().NoError(err)
	s.False(out.LeveledUp)
	s.Equal(1, out.Character.Level)
	s.Same(ch, out.Character)
}

func (s *ProgressionTestSuite) TestXPThresholdMonotonic() {
	class := warriorClass()
	prev := 0
	for level := 1; level <= 50; level++ {
		cur := progression.XPThreshold(class, level)
		s.GreaterOrEqual(cur, prev, "threshold must never decrease")
		prev = cur
	}
}

func TestProgressionTestSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}
