package models

import "time"

// Event represents a recorded outcome, such as a notification send or a fallback write.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "notification.welcome.sent", "subscriber.flushed"
	Level     string    `json:"level"` // e.g., "info", "warn", "error"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
