package gamestate

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	redisclient "github.com/emberforge/wildlands/internal/redis"
)

const (
	// saveKey is the single Redis key the whole game saves under
	saveKey = "wildlands:save"

	errDataEmpty = "save document cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis save repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed save repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, _ GetInput) (*GetOutput, error) {
	data, err := r.client.Get(ctx, saveKey).Bytes()
	if err == redis.Nil {
		return nil, errors.NotFound("no save document exists")
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read save document")
	}

	return &GetOutput{Data: data}, nil
}

func (r *redisRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	// Saves persist forever; there is no TTL on a player's progress
	if err := r.client.Set(ctx, saveKey, input.Data, 0).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write save document")
	}

	return &SetOutput{SavedAt: r.clock.Now()}, nil
}

func (r *redisRepository) Remove(ctx context.Context, _ RemoveInput) (*RemoveOutput, error) {
	removed, err := r.client.Del(ctx, saveKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to remove save document")
	}

	return &RemoveOutput{Removed: removed > 0}, nil
}
