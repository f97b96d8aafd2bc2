package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emberforge/wildlands/internal/entities"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/game"
)

// Request and response DTOs. These define exactly what the client sends
// and receives; engine entities marshal themselves.

type createCharacterRequest struct {
	Name    string `json:"name"`
	ClassID string `json:"class_id"`
}

type characterIDRequest struct {
	CharacterID string `json:"character_id"`
}

type trainRequest struct {
	Stat string `json:"stat"`
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type fightRequest struct {
	InstanceID string `json:"instance_id"`
}

type itemIDRequest struct {
	ItemID string `json:"item_id"`
}

type equipRequest struct {
	ItemID string `json:"item_id"`
	Slot   string `json:"slot,omitempty"`
}

type unequipRequest struct {
	Slot string `json:"slot"`
}

type fuseRequest struct {
	GemIDs []string `json:"gem_ids"`
}

type fuseAllRequest struct {
	GemType string `json:"gem_type"`
	Tier    string `json:"tier"`
}

type switchMapRequest struct {
	MapID string `json:"map_id"`
}

type stateResponse struct {
	Characters  []*entities.Character   `json:"characters"`
	Current     *entities.Character     `json:"current,omitempty"`
	Position    entities.PlayerPosition `json:"position"`
	Explored    []string                `json:"explored,omitempty"`
	Settings    game.Settings           `json:"settings"`
	GameStarted bool                    `json:"gameStarted"`
	SaveFailed  bool                    `json:"saveFailed"`
	LastSave    time.Time               `json:"lastSave"`
}

type mapSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RequiredLevel int    `json:"requiredLevel"`
}

type classSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PrimaryStat string `json:"primaryStat"`
}

type sellResponse struct {
	Gold int `json:"gold"`
}

// handleGetState returns the full session snapshot the UI renders from.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{
		Characters:  s.store.Characters(),
		Position:    s.store.Position(),
		Explored:    s.store.ExploredTiles(),
		Settings:    s.store.Settings(),
		GameStarted: s.store.GameStarted(),
		SaveFailed:  s.store.SaveFailed(),
		LastSave:    s.store.LastSave(),
	}
	if ch, err := s.store.CurrentCharacter(); err == nil {
		resp.Current = ch
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Characters())
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if !decode(w, r, &req) {
		return
	}

	ch, err := s.store.CreateCharacter(r.Context(), req.Name, req.ClassID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("character_created")
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleSelectCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterIDRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.store.SelectCharacter(r.Context(), req.CharacterID); err != nil {
		writeError(w, err)
		return
	}

	s.publish("character_selected")
	s.writeCurrent(w)
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	var req characterIDRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.store.DeleteCharacter(r.Context(), req.CharacterID); err != nil {
		writeError(w, err)
		return
	}

	s.publish("character_deleted")
	writeJSON(w, http.StatusOK, s.store.Characters())
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if !decode(w, r, &req) {
		return
	}

	stat := entities.Stat(req.Stat)
	if !stat.IsValid() {
		writeError(w, errors.InvalidArgumentf("unknown stat %q", req.Stat))
		return
	}

	out, err := s.store.Train(r.Context(), stat)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("trained")
	writeJSON(w, http.StatusOK, out)
}

// handleTrainingCost answers the pre-commit query the training screen
// shows: what a session would cost and whether it is allowed.
func (s *Server) handleTrainingCost(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.TrainingStatus(entities.Stat(r.URL.Query().Get("stat")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAvailableMoves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.AvailableMoves())
}

func (s *Server) handleLevelUp(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.LevelUp(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("leveled_up")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHeal(w http.ResponseWriter, r *http.Request) {
	ch, err := s.store.Heal(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("healed")
	writeJSON(w, http.StatusOK, ch)
}

// handleBattle runs one arena battle against a level-matched opponent.
func (s *Server) handleBattle(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.StartBattle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("battle_finished")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.CombatHistory())
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	m := s.store.CurrentMap()
	if m == nil {
		writeError(w, errors.FailedPrecondition("no wilderness map is active"))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	out := make([]mapSummary, 0, len(s.content.Maps))
	for _, mc := range s.content.Maps {
		out = append(out, mapSummary{
			ID:            mc.ID,
			Name:          mc.Name,
			RequiredLevel: mc.RequiredLevel,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListClasses(w http.ResponseWriter, r *http.Request) {
	out := make([]classSummary, 0, len(s.content.Classes))
	for _, cl := range s.content.Classes {
		out = append(out, classSummary{
			ID:          cl.ID,
			Name:        cl.Name,
			Description: cl.Description,
			PrimaryStat: string(cl.PrimaryStat),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSwitchMap(w http.ResponseWriter, r *http.Request) {
	var req switchMapRequest
	if !decode(w, r, &req) {
		return
	}

	m, err := s.store.SwitchMap(r.Context(), req.MapID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("map_switched")
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := s.store.Move(r.Context(), req.X, req.Y)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("moved")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFight(w http.ResponseWriter, r *http.Request) {
	var req fightRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := s.store.FightMonster(r.Context(), req.InstanceID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("fight_finished")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFightAll(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.FightAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("fight_finished")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request) {
	var req equipRequest
	if !decode(w, r, &req) {
		return
	}

	ch, err := s.store.Equip(r.Context(), &game.EquipInput{
		ItemID: req.ItemID,
		Slot:   entities.ItemSlot(req.Slot),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("equipment_changed")
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request) {
	var req unequipRequest
	if !decode(w, r, &req) {
		return
	}

	ch, err := s.store.Unequip(r.Context(), entities.ItemSlot(req.Slot))
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("equipment_changed")
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleSellItem(w http.ResponseWriter, r *http.Request) {
	var req itemIDRequest
	if !decode(w, r, &req) {
		return
	}

	gold, err := s.store.SellItem(r.Context(), req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("item_sold")
	writeJSON(w, http.StatusOK, sellResponse{Gold: gold})
}

func (s *Server) handleConsumeGem(w http.ResponseWriter, r *http.Request) {
	var req itemIDRequest
	if !decode(w, r, &req) {
		return
	}

	effect, err := s.store.ConsumeGem(r.Context(), req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("gem_consumed")
	writeJSON(w, http.StatusOK, effect)
}

func (s *Server) handleFuse(w http.ResponseWriter, r *http.Request) {
	var req fuseRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := s.store.Fuse(r.Context(), req.GemIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("fusion_finished")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFuseAll(w http.ResponseWriter, r *http.Request) {
	var req fuseAllRequest
	if !decode(w, r, &req) {
		return
	}

	gemType := entities.GemType(req.GemType)
	tier := entities.GemTier(req.Tier)
	if !gemType.IsValid() {
		writeError(w, errors.InvalidArgumentf("unknown gem type %q", req.GemType))
		return
	}
	if !tier.IsValid() {
		writeError(w, errors.InvalidArgumentf("unknown gem tier %q", req.Tier))
		return
	}

	out, err := s.store.FuseAll(r.Context(), gemType, tier)
	if err != nil {
		writeError(w, err)
		return
	}

	s.publish("fusion_finished")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req game.Settings
	if !decode(w, r, &req) {
		return
	}

	if err := s.store.UpdateSettings(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}

	s.publish("settings_changed")
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Save(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lastSave": s.store.LastSave()})
}

// handleDebugDump returns everything in one payload for bug reports.
func (s *Server) handleDebugDump(w http.ResponseWriter, r *http.Request) {
	dump := map[string]any{
		"characters": s.store.Characters(),
		"history":    s.store.CombatHistory(),
		"settings":   s.store.Settings(),
		"map":        s.store.CurrentMap(),
		"position":   s.store.Position(),
		"explored":   s.store.ExploredTiles(),
		"lastSave":   s.store.LastSave(),
		"saveFailed": s.store.SaveFailed(),
	}
	writeJSON(w, http.StatusOK, dump)
}

// writeCurrent responds with the selected character snapshot.
func (s *Server) writeCurrent(w http.ResponseWriter) {
	ch, err := s.store.CurrentCharacter()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// publish pushes queued notifications and a state-changed marker to every
// websocket client. Called after each successful mutation.
func (s *Server) publish(action string) {
	for _, n := range s.store.PopNotifications() {
		s.hub.Broadcast(Message{Type: EventNotification, Payload: n})
	}
	s.hub.Broadcast(Message{Type: EventStateChanged, Payload: map[string]string{"action": action}})
}

// decode parses the JSON request body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, errors.InvalidArgument("invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsInvalidArgument(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsAlreadyExists(err):
		status = http.StatusConflict
	case errors.IsFailedPrecondition(err):
		status = http.StatusUnprocessableEntity
	case errors.IsResourceExhausted(err):
		status = http.StatusTooManyRequests
	case errors.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
