package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/rng"
	"github.com/emberforge/wildlands/internal/repositories/gamestate"
)

var (
	simSeed  int64
	simTurns int
	simName  string
	simClass string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an offline session and print a summary",
	Long:  `Run a deterministic offline session against an in-memory save: create a character, train, explore the starter map, and fight whatever spawns. Useful for balance checks.`,
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "rng seed")
	simulateCmd.Flags().IntVar(&simTurns, "turns", 25, "number of exploration turns")
	simulateCmd.Flags().StringVar(&simName, "name", "Wanderer", "character name")
	simulateCmd.Flags().StringVar(&simClass, "class", "", "class id (defaults to the first class)")
}

// trainRotation is the order simulated sessions train stats in
var trainRotation = []entities.Stat{
	entities.StatStrength,
	entities.StatConstitution,
	entities.StatDexterity,
	entities.StatSpeed,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	setupLogging("warn")

	data, err := content.Load("")
	if err != nil {
		return err
	}

	classID := simClass
	if classID == "" {
		classID = data.Classes[0].ID
	}

	store, err := buildStore(gamestate.NewMemory(nil), data, rng.New(simSeed), clock.New())
	if err != nil {
		return err
	}

	if _, err := store.CreateCharacter(ctx, simName, classID); err != nil {
		return err
	}

	var fights, kills, deaths int
	for turn := 0; turn < simTurns; turn++ {
		m := store.CurrentMap()
		x, y := nextTile(m, store.ExploredTiles(), turn)

		out, err := store.Move(ctx, x, y)
		if err != nil {
			break
		}

		if out.Spawned != nil {
			res, err := store.FightAll(ctx)
			if err == nil {
				for _, f := range res.Fights {
					fights++
					if f.Won {
						kills++
					} else {
						deaths++
					}
				}
			}
		}

		// Heal when hurt, then put spare gold into training
		if _, err := store.Heal(ctx); err == nil {
			continue
		}
		_, _ = store.Train(ctx, trainRotation[turn%len(trainRotation)])
		_, _ = store.LevelUp(ctx)
	}

	ch, err := store.CurrentCharacter()
	if err != nil {
		return err
	}

	// Fuse whatever gem stacks the run collected
	fusions := 0
	seen := make(map[string]struct{})
	for _, item := range ch.Inventory {
		if !item.IsGem() {
			continue
		}
		key := string(item.Gem.Type) + "/" + string(item.Gem.Tier)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if out, err := store.FuseAll(ctx, item.Gem.Type, item.Gem.Tier); err == nil {
			fusions += out.Attempts
		}
	}
	if fusions > 0 {
		ch, err = store.CurrentCharacter()
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "session seed %d, %d turns\n", simSeed, simTurns)
	fmt.Fprintf(w, "%s the %s: level %d (%d xp)\n", ch.Name, classID, ch.Level, ch.Experience)
	fmt.Fprintf(w, "  health %d/%d, energy %d/%d, gold %d\n",
		ch.CurrentHealth, ch.MaxHealth, ch.Energy, ch.MaxEnergy, ch.Gold)
	fmt.Fprintf(w, "  stats: str %d dex %d con %d int %d spd %d\n",
		ch.Stats.Strength, ch.Stats.Dexterity, ch.Stats.Constitution, ch.Stats.Intelligence, ch.Stats.Speed)
	fmt.Fprintf(w, "  fights %d (won %d, lost %d), record %d-%d\n", fights, kills, deaths, ch.Wins, ch.Losses)
	fmt.Fprintf(w, "  explored %d tiles, %d items in pack, %d fusion attempts\n",
		len(store.ExploredTiles()), len(ch.Inventory), fusions)
	return nil
}

// nextTile picks the first unexplored in-bounds tile in scan order, or
// cycles the grid once everything is visited.
func nextTile(m *entities.WildernessMap, explored []string, turn int) (int, int) {
	seen := make(map[string]struct{}, len(explored))
	for _, key := range explored {
		seen[key] = struct{}{}
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if _, ok := seen[entities.TileKey(x, y)]; !ok {
				return x, y
			}
		}
	}

	n := m.Width * m.Height
	idx := turn % n
	return idx % m.Width, idx / m.Width
}
