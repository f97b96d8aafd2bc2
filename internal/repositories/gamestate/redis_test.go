package gamestate_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	redisclient "github.com/emberforge/wildlands/internal/redis"
	"github.com/emberforge/wildlands/internal/repositories/gamestate"
	"github.com/emberforge/wildlands/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	client  redisclient.Client
	server  *miniredis.Miniredis
	cleanup func()
	repo    gamestate.Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.server, s.cleanup = testutils.CreateTestRedisClientWithServer(s.T())

	repo, err := gamestate.NewRedis(&gamestate.RedisConfig{
		Client: s.client,
		Clock:  clock.NewFixed(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestConfigRequiresClient() {
	_, err := gamestate.NewRedis(&gamestate.RedisConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestGetMissingSave() {
	_, err := s.repo.Get(s.ctx, gamestate.GetInput{})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestSetThenGetRoundTrip() {
	doc := []byte(`{"characters":[],"gameStarted":true}`)

	out, err := s.repo.Set(s.ctx, gamestate.SetInput{Data: doc})
	s.Require().NoError(err)
	s.False(out.SavedAt.IsZero())

	got, err := s.repo.Get(s.ctx, gamestate.GetInput{})
	s.Require().NoError(err)
	s.Equal(doc, got.Data)
}

func (s *RedisRepositoryTestSuite) TestSetOverwrites() {
	_, err := s.repo.Set(s.ctx, gamestate.SetInput{Data: []byte(`{"v":1}`)})
	s.Require().NoError(err)

	_, err = s.repo.Set(s.ctx, gamestate.SetInput{Data: []byte(`{"v":2}`)})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, gamestate.GetInput{})
	s.Require().NoError(err)
	s.Equal([]byte(`{"v":2}`), got.Data)
}

func (s *RedisRepositoryTestSuite) TestSetRejectsEmptyDocument() {
	_, err := s.repo.Set(s.ctx, gamestate.SetInput{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestRemove() {
	_, err := s.repo.Set(s.ctx, gamestate.SetInput{Data: []byte(`{}`)})
	s.Require().NoError(err)

	out, err := s.repo.Remove(s.ctx, gamestate.RemoveInput{})
	s.Require().NoError(err)
	s.True(out.Removed)

	// Removing again is a no-op, not an error
	out, err = s.repo.Remove(s.ctx, gamestate.RemoveInput{})
	s.Require().NoError(err)
	s.False(out.Removed)

	_, err = s.repo.Get(s.ctx, gamestate.GetInput{})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestStorageFailureIsUnavailable() {
	s.server.SetError("redis is down")

	_, err := s.repo.Get(s.ctx, gamestate.GetInput{})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))

	_, err = s.repo.Set(s.ctx, gamestate.SetInput{Data: []byte(`{}`)})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := gamestate.NewMemory(clock.NewFixed(time.Unix(1700000000, 0)))

	_, err := repo.Get(ctx, gamestate.GetInput{})
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NotFound for empty store, got %v", err)
	}

	if _, err := repo.Set(ctx, gamestate.SetInput{Data: []byte(`{"v":1}`)}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := repo.Get(ctx, gamestate.GetInput{})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got.Data) != `{"v":1}` {
		t.Fatalf("unexpected document: %s", got.Data)
	}

	out, err := repo.Remove(ctx, gamestate.RemoveInput{})
	if err != nil || !out.Removed {
		t.Fatalf("remove failed: %v removed=%v", err, out.Removed)
	}
}
