package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/waitlist-be/internal/database"
	"github.com/isdelr/waitlist-be/internal/models"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(ctx context.Context, eventType, level, message string) error
	GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// EventService provides business logic for event management.
type EventService struct {
	db *database.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *database.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database.
func (s *EventService) CreateEvent(ctx context.Context, eventType, level, message string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind("INSERT INTO events (id, type, level, message, created_at) VALUES (?, ?, ?, ?, ?)"),
		event.ID, event.Type, event.Level, event.Message, event.CreatedAt)
	return err
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind("SELECT id, type, level, message, created_at FROM events ORDER BY created_at DESC LIMIT ?"), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
