// Package game holds the authoritative in-memory game state and runs every
// player action under one lock. Orchestrators compute outcomes on cloned
// snapshots; the store commits them and schedules persistence.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/orchestrators/combat"
	"github.com/emberforge/wildlands/internal/orchestrators/fusion"
	"github.com/emberforge/wildlands/internal/orchestrators/loot"
	"github.com/emberforge/wildlands/internal/orchestrators/progression"
	"github.com/emberforge/wildlands/internal/orchestrators/wilderness"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/idgen"
	"github.com/emberforge/wildlands/internal/repositories/gamestate"
)

// Config holds the dependencies for the game store
type Config struct {
	Repository  gamestate.Repository
	Content     *content.Content
	Progression progression.Service
	Combat      combat.Service
	Loot        loot.Service
	Fusion      fusion.Service
	Wilderness  wilderness.Service
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}
	if c.Progression == nil {
		vb.RequiredField("Progression")
	}
	if c.Combat == nil {
		vb.RequiredField("Combat")
	}
	if c.Loot == nil {
		vb.RequiredField("Loot")
	}
	if c.Fusion == nil {
		vb.RequiredField("Fusion")
	}
	if c.Wilderness == nil {
		vb.RequiredField("Wilderness")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Store is the authoritative game state. All exported methods are safe for
// concurrent use.
type Store struct {
	repo        gamestate.Repository
	content     *content.Content
	progression progression.Service
	combat      combat.Service
	loot        loot.Service
	fusion      fusion.Service
	wilderness  wilderness.Service
	clock       clock.Clock
	idGen       idgen.Generator

	mu            sync.Mutex
	characters    []*entities.Character
	currentID     string
	history       []entities.CombatResult
	settings      Settings
	notifications []entities.Notification
	currentMap    *entities.WildernessMap
	position      entities.PlayerPosition
	explored      map[string]struct{}
	encounters    int
	gameStarted   bool
	lastSave      time.Time
	saveFailed    bool

	saves sync.WaitGroup
}

// New creates a game store with empty state. Call Load to restore a save.
func New(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Store{
		repo:        cfg.Repository,
		content:     cfg.Content,
		progression: cfg.Progression,
		combat:      cfg.Combat,
		loot:        cfg.Loot,
		fusion:      cfg.Fusion,
		wilderness:  cfg.Wilderness,
		clock:       cfg.Clock,
		idGen:       cfg.IDGenerator,
		settings:    DefaultSettings(),
		explored:    make(map[string]struct{}),
	}, nil
}

// Load restores state from the save repository. A missing save leaves the
// store empty; a corrupt one is an error.
func (s *Store) Load(ctx context.Context) error {
	out, err := s.repo.Get(ctx, gamestate.GetInput{})
	if errors.IsNotFound(err) {
		slog.InfoContext(ctx, "no save document, starting fresh")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to load save")
	}

	var doc SaveDocument
	if err := json.Unmarshal(out.Data, &doc); err != nil {
		return errors.Wrap(err, "save document is corrupt")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx, &doc)
	return nil
}

// restore applies a parsed save document. Caller holds the lock.
func (s *Store) restore(ctx context.Context, doc *SaveDocument) {
	s.characters = doc.Characters
	for _, ch := range s.characters {
		// Older saves may lack inventories or training stamps
		if ch.Inventory == nil {
			ch.Inventory = []entities.Item{}
		}
		if ch.LastTraining == nil {
			ch.LastTraining = make(map[entities.Stat]time.Time)
		}
	}

	s.currentID = doc.CurrentCharacterID
	if s.characterByID(s.currentID) == nil {
		s.currentID = ""
	}

	s.history = doc.CombatHistory
	if len(s.history) > entities.CombatHistoryLimit {
		s.history = s.history[len(s.history)-entities.CombatHistoryLimit:]
	}

	s.settings = doc.Settings
	if s.settings.CombatSpeed <= 0 {
		s.settings = DefaultSettings()
	}

	s.gameStarted = doc.GameStarted
	s.lastSave = doc.LastSave
	s.encounters = doc.WildernessState.Encounters

	s.explored = make(map[string]struct{}, len(doc.WildernessState.ExploredTiles))
	for _, key := range doc.WildernessState.ExploredTiles {
		s.explored[key] = struct{}{}
	}

	s.currentMap = doc.WildernessState.CurrentMap
	s.position = doc.WildernessState.PlayerPosition

	if s.currentMap != nil {
		if _, err := s.content.Map(s.currentMap.ID); err != nil {
			// A map id the content no longer knows: regenerate the
			// starter map, keeping position and visited tiles.
			slog.WarnContext(ctx, "save references unknown map, regenerating starter",
				"map_id", s.currentMap.ID)
			s.regenerateStarterMap()
		}
		s.rehydrateLootTables(ctx)
	}
}

// rehydrateLootTables fills empty loot tables on tile monsters from their
// templates. Saves written before monster loot tables were persisted carry
// none. Caller holds the lock.
func (s *Store) rehydrateLootTables(ctx context.Context) {
	for i := range s.currentMap.Tiles {
		tile := &s.currentMap.Tiles[i]
		for j := range tile.Monsters {
			m := &tile.Monsters[j]
			if len(m.LootTable) > 0 {
				continue
			}
			tmpl, err := s.content.Monster(m.TemplateID)
			if err != nil {
				slog.WarnContext(ctx, "saved monster references unknown template",
					"template_id", m.TemplateID)
				continue
			}
			m.LootTable = append([]entities.LootEntry(nil), tmpl.LootTable...)
		}
	}
}

// regenerateStarterMap swaps the current map for a fresh starter grid while
// carrying over the explored set and a clamped position. Caller holds the
// lock.
func (s *Store) regenerateStarterMap() {
	starter := s.content.StarterMap()
	if starter == nil {
		return
	}

	m := s.wilderness.GenerateMap(starter)
	for key := range s.explored {
		x, y, ok := parseTileKey(key)
		if !ok || !m.InBounds(x, y) {
			continue
		}
		m.TileAt(x, y).Visited = true
	}

	if !m.InBounds(s.position.X, s.position.Y) {
		s.position.X, s.position.Y = m.StartX, m.StartY
	}
	s.position.MapID = m.ID
	s.currentMap = m
}

func parseTileKey(key string) (int, int, bool) {
	var x, y int
	if _, err := fmt.Sscanf(key, "%d,%d", &x, &y); err != nil {
		return 0, 0, false
	}
	return x, y, true
}

// document builds the save blob. Caller holds the lock.
func (s *Store) document() *SaveDocument {
	explored := make([]string, 0, len(s.explored))
	for key := range s.explored {
		explored = append(explored, key)
	}
	sort.Strings(explored)

	return &SaveDocument{
		Characters:         s.characters,
		CurrentCharacterID: s.currentID,
		CombatHistory:      s.history,
		Settings:           s.settings,
		WildernessState: WildernessDocument{
			CurrentMap:     s.currentMap,
			PlayerPosition: s.position,
			ExploredTiles:  explored,
			Encounters:     s.encounters,
		},
		LastSave:    s.clock.Now(),
		GameStarted: s.gameStarted,
	}
}

// saveNow persists synchronously. Caller holds the lock.
func (s *Store) saveNow(ctx context.Context) error {
	doc := s.document()
	doc.LastSave = s.clock.Now()

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal save")
	}

	if _, err := s.repo.Set(ctx, gamestate.SetInput{Data: data}); err != nil {
		s.saveFailed = true
		slog.WarnContext(ctx, "save failed", "error", err)
		return err
	}

	s.saveFailed = false
	s.lastSave = doc.LastSave
	return nil
}

// saveAsync persists in the background. Save failures set a flag and log;
// they never interrupt play. Caller holds the lock.
func (s *Store) saveAsync(ctx context.Context) {
	if !s.settings.Autosave {
		return
	}

	doc := s.document()
	data, err := json.Marshal(doc)
	if err != nil {
		s.saveFailed = true
		slog.WarnContext(ctx, "failed to marshal save", "error", err)
		return
	}

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if _, err := s.repo.Set(context.WithoutCancel(ctx), gamestate.SetInput{Data: data}); err != nil {
			s.mu.Lock()
			s.saveFailed = true
			s.mu.Unlock()
			slog.Warn("background save failed", "error", err)
			return
		}
		s.mu.Lock()
		s.saveFailed = false
		s.lastSave = doc.LastSave
		s.mu.Unlock()
	}()
}

// Save forces a synchronous save regardless of the autosave setting
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveNow(ctx)
}

// Close flushes pending background saves and writes a final snapshot
func (s *Store) Close(ctx context.Context) error {
	s.saves.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gameStarted {
		return nil
	}
	return s.saveNow(ctx)
}

// characterByID returns the stored character, or nil. Caller holds the lock.
func (s *Store) characterByID(id string) *entities.Character {
	for _, ch := range s.characters {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// current returns the selected character. Caller holds the lock.
func (s *Store) current() (*entities.Character, error) {
	if s.currentID == "" {
		return nil, errors.FailedPrecondition("no character selected")
	}
	ch := s.characterByID(s.currentID)
	if ch == nil {
		return nil, errors.NotFoundf("character %s not found", s.currentID)
	}
	return ch, nil
}

// commit replaces a character snapshot. Caller holds the lock.
func (s *Store) commit(ch *entities.Character) {
	for i, existing := range s.characters {
		if existing.ID == ch.ID {
			s.characters[i] = ch
			return
		}
	}
	s.characters = append(s.characters, ch)
}

// notify queues a notification if the player wants them. Caller holds the
// lock.
func (s *Store) notify(n entities.Notification) {
	if !s.settings.Notifications {
		return
	}
	n.ID = s.idGen.Generate()
	n.At = s.clock.Now()
	if n.Duration == 0 {
		n.Duration = 5 * time.Second
	}
	s.notifications = append(s.notifications, n)
}

// pushHistory appends a combat record, keeping only the most recent
// entries. Caller holds the lock.
func (s *Store) pushHistory(result entities.CombatResult) {
	s.history = append(s.history, result)
	if len(s.history) > entities.CombatHistoryLimit {
		s.history = s.history[len(s.history)-entities.CombatHistoryLimit:]
	}
}

// RegenEnergy restores energy to every character, clamped to their maximums.
// Ticks are frequent and cheap, so this does not schedule a save.
func (s *Store) RegenEnergy(ctx context.Context, amount int) {
	if amount <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.characters {
		if ch.Energy >= ch.MaxEnergy {
			continue
		}
		out := ch.Clone()
		out.Energy += amount
		out.ClampVitals()
		s.commit(out)
	}
}

// Characters returns snapshots of all characters
func (s *Store) Characters() []*entities.Character {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*entities.Character, 0, len(s.characters))
	for _, ch := range s.characters {
		out = append(out, ch.Clone())
	}
	return out
}

// CurrentCharacter returns a snapshot of the selected character
func (s *Store) CurrentCharacter() (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.current()
	if err != nil {
		return nil, err
	}
	return ch.Clone(), nil
}

// CombatHistory returns the retained combat records, oldest first
func (s *Store) CombatHistory() []entities.CombatResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.CombatResult, len(s.history))
	copy(out, s.history)
	return out
}

// PopNotifications drains the notification queue
func (s *Store) PopNotifications() []entities.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.notifications
	s.notifications = nil
	return out
}

// Settings returns the current settings
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings replaces the settings
func (s *Store) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.CombatSpeed <= 0 {
		return errors.InvalidArgument("combat speed must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saveAsync(ctx)
	return nil
}

// SaveFailed reports whether the most recent save attempt failed
func (s *Store) SaveFailed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveFailed
}

// LastSave returns when the game last saved successfully
func (s *Store) LastSave() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

// GameStarted reports whether any character has ever been created
func (s *Store) GameStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameStarted
}
