// Package server exposes the game store over HTTP/JSON for a local UI,
// with a websocket hub pushing notifications and state-change events.
package server

import (
	"context"
	"net/http"

	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/game"
)

// Config holds the dependencies for the HTTP server
type Config struct {
	Store   *game.Store
	Content *content.Content
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Content == nil {
		vb.RequiredField("Content")
	}

	return vb.Build()
}

// Server routes HTTP requests to store actions
type Server struct {
	store   *game.Store
	content *content.Content
	hub     *Hub
	mux     *http.ServeMux
}

// New creates the server and registers its routes
func New(cfg *Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Server{
		store:   cfg.Store,
		content: cfg.Content,
		hub:     NewHub(),
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	// Session state
	s.mux.HandleFunc("GET /api/state", s.handleGetState)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	s.mux.HandleFunc("POST /api/save", s.handleSave)
	s.mux.HandleFunc("GET /api/debug/dump", s.handleDebugDump)

	// Static content
	s.mux.HandleFunc("GET /api/classes", s.handleListClasses)
	s.mux.HandleFunc("GET /api/maps", s.handleListMaps)

	// Characters
	s.mux.HandleFunc("GET /api/characters", s.handleListCharacters)
	s.mux.HandleFunc("POST /api/characters", s.handleCreateCharacter)
	s.mux.HandleFunc("POST /api/characters/select", s.handleSelectCharacter)
	s.mux.HandleFunc("POST /api/characters/delete", s.handleDeleteCharacter)
	s.mux.HandleFunc("POST /api/train", s.handleTrain)
	s.mux.HandleFunc("GET /api/train/cost", s.handleTrainingCost)
	s.mux.HandleFunc("POST /api/levelup", s.handleLevelUp)
	s.mux.HandleFunc("POST /api/heal", s.handleHeal)
	s.mux.HandleFunc("POST /api/battle", s.handleBattle)

	// Inventory
	s.mux.HandleFunc("POST /api/items/equip", s.handleEquip)
	s.mux.HandleFunc("POST /api/items/unequip", s.handleUnequip)
	s.mux.HandleFunc("POST /api/items/sell", s.handleSellItem)
	s.mux.HandleFunc("POST /api/items/consume", s.handleConsumeGem)
	s.mux.HandleFunc("POST /api/gems/fuse", s.handleFuse)
	s.mux.HandleFunc("POST /api/gems/fuse-all", s.handleFuseAll)

	// Wilderness
	s.mux.HandleFunc("GET /api/map", s.handleGetMap)
	s.mux.HandleFunc("POST /api/map/switch", s.handleSwitchMap)
	s.mux.HandleFunc("GET /api/moves", s.handleAvailableMoves)
	s.mux.HandleFunc("POST /api/move", s.handleMove)
	s.mux.HandleFunc("POST /api/fight", s.handleFight)
	s.mux.HandleFunc("POST /api/fight-all", s.handleFightAll)

	// Real-time events
	s.mux.Handle("GET /ws", s.hub)
}

// Handler returns the HTTP handler for the host's http.Server
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

// Run drives the websocket hub until ctx is cancelled
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// corsMiddleware lets a UI served from another local port talk to the
// engine during development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
