package entities

import "time"

// NotificationType classifies an engine-emitted notification
type NotificationType string

// Notification types
const (
	NotificationItemDrop       NotificationType = "item_drop"
	NotificationCharacterDeath NotificationType = "character_death"
	NotificationLevelUp        NotificationType = "level_up"
	NotificationFusionResult   NotificationType = "fusion_result"
)

// Notification is a structured event for the presentation sink. The sink
// owns display and dismissal; the engine only emits.
type Notification struct {
	ID       string           `json:"id"`
	Type     NotificationType `json:"type"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	ItemName string           `json:"itemName,omitempty"`
	Rarity   Rarity           `json:"rarity,omitempty"`
	Duration time.Duration    `json:"duration"`
	At       time.Time        `json:"at"`
}
