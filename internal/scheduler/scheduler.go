// Package scheduler runs the background ticks that keep a session alive
// while the player idles. The host starts it after loading the store and
// stops it on shutdown.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/game"
)

// Default tick tuning. Hosts override these through Config.
const (
	DefaultEnergyRegenInterval = 10 * time.Second
	DefaultEnergyRegenAmount   = 1
	DefaultAutosaveInterval    = 2 * time.Minute
)

// Game is the slice of the game store the scheduler drives.
type Game interface {
	RegenEnergy(ctx context.Context, amount int)
	Settings() game.Settings
	GameStarted() bool
	Save(ctx context.Context) error
}

// Config holds the dependencies and tick tuning for the scheduler
type Config struct {
	Game Game

	// Zero values fall back to the package defaults
	EnergyRegenInterval time.Duration
	EnergyRegenAmount   int
	AutosaveInterval    time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.EnergyRegenInterval < 0 {
		vb.InvalidField("EnergyRegenInterval", "must not be negative")
	}
	if c.EnergyRegenAmount < 0 {
		vb.InvalidField("EnergyRegenAmount", "must not be negative")
	}
	if c.AutosaveInterval < 0 {
		vb.InvalidField("AutosaveInterval", "must not be negative")
	}

	return vb.Build()
}

// Scheduler owns the energy-regen and autosave tickers
type Scheduler struct {
	game          Game
	regenInterval time.Duration
	regenAmount   int
	saveInterval  time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped sync.WaitGroup
}

// New creates a scheduler. Call Start to begin ticking.
func New(cfg *Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Scheduler{
		game:          cfg.Game,
		regenInterval: cfg.EnergyRegenInterval,
		regenAmount:   cfg.EnergyRegenAmount,
		saveInterval:  cfg.AutosaveInterval,
	}
	if s.regenInterval == 0 {
		s.regenInterval = DefaultEnergyRegenInterval
	}
	if s.regenAmount == 0 {
		s.regenAmount = DefaultEnergyRegenAmount
	}
	if s.saveInterval == 0 {
		s.saveInterval = DefaultAutosaveInterval
	}
	return s, nil
}

// Start launches the tick loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	s.stopped.Add(1)
	go s.run(ctx, s.stop)
}

// Stop halts the tickers and waits for the loop to exit. Pending game
// state stays in memory; the host decides whether to save on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	s.stopped.Wait()
}

func (s *Scheduler) run(ctx context.Context, stop chan struct{}) {
	defer s.stopped.Done()

	regen := time.NewTicker(s.regenInterval)
	defer regen.Stop()
	save := time.NewTicker(s.saveInterval)
	defer save.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-regen.C:
			s.game.RegenEnergy(ctx, s.regenAmount)
		case <-save.C:
			if !s.game.GameStarted() || !s.game.Settings().Autosave {
				continue
			}
			if err := s.game.Save(ctx); err != nil {
				slog.WarnContext(ctx, "scheduled save failed", "error", err)
			}
		}
	}
}
