package entities

import "time"

// RoundLog records one actor's action within a combat round
type RoundLog struct {
	Round    int    `json:"round"`
	ActorID  string `json:"actorId"`
	TargetID string `json:"targetId"`
	Damage   int    `json:"damage"`
	Miss     bool   `json:"miss,omitempty"`
	Critical bool   `json:"critical,omitempty"`
	Text     string `json:"text"`
}

// CombatResult is the immutable record of one resolved encounter
type CombatResult struct {
	ID               string        `json:"id"`
	AttackerID       string        `json:"attackerId"`
	AttackerName     string        `json:"attackerName"`
	DefenderID       string        `json:"defenderId"`
	DefenderName     string        `json:"defenderName"`
	Rounds           []RoundLog    `json:"rounds"`
	WinnerID         string        `json:"winnerId"`
	ExperienceGained int           `json:"experienceGained"`
	GoldGained       int           `json:"goldGained"`
	Duration         time.Duration `json:"duration"`
	FoughtAt         time.Time     `json:"foughtAt"`
}

// CombatHistoryLimit caps how many results the engine retains
const CombatHistoryLimit = 100
