// Package main is the entry point for the wildlands game engine
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/game"
	"github.com/emberforge/wildlands/internal/orchestrators/combat"
	"github.com/emberforge/wildlands/internal/orchestrators/fusion"
	"github.com/emberforge/wildlands/internal/orchestrators/loot"
	"github.com/emberforge/wildlands/internal/orchestrators/progression"
	"github.com/emberforge/wildlands/internal/orchestrators/wilderness"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/pkg/rng"
	"github.com/emberforge/wildlands/internal/repositories/gamestate"
)

var rootCmd = &cobra.Command{
	Use:   "wildlands",
	Short: "Wildlands progression RPG engine",
	Long:  `Wildlands runs a single-player progression RPG: combat, training, loot, gem fusion, and procedural wilderness exploration, served over HTTP for a local UI.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setupLogging installs the default slog handler at the configured level
func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// buildStore wires every orchestrator onto one rng stream and returns the
// assembled game store.
func buildStore(repo gamestate.Repository, data *content.Content, src rng.Source, clk clock.Clock) (*game.Store, error) {
	prog, err := progression.NewOrchestrator(&progression.Config{Clock: clk, Rng: src})
	if err != nil {
		return nil, err
	}
	cmb, err := combat.NewOrchestrator(&combat.Config{
		Rng: src, IDGenerator: idgen.NewUUID("combat"), Clock: clk,
	})
	if err != nil {
		return nil, err
	}
	lt, err := loot.NewOrchestrator(&loot.Config{Rng: src, IDGenerator: idgen.NewUUID("item")})
	if err != nil {
		return nil, err
	}
	fus, err := fusion.NewOrchestrator(&fusion.Config{Rng: src, IDGenerator: idgen.NewUUID("gem")})
	if err != nil {
		return nil, err
	}
	wild, err := wilderness.NewOrchestrator(&wilderness.Config{
		Rng: src, IDGenerator: idgen.NewUUID("spawn"), Clock: clk,
		Templates: data.Monsters,
	})
	if err != nil {
		return nil, err
	}

	return game.New(&game.Config{
		Repository:  repo,
		Content:     data,
		Progression: prog,
		Combat:      cmb,
		Loot:        lt,
		Fusion:      fus,
		Wilderness:  wild,
		Clock:       clk,
		IDGenerator: idgen.NewUUID("game"),
	})
}

// seedFromClock produces a non-deterministic seed for live play
func seedFromClock() int64 {
	return time.Now().UnixNano()
}
