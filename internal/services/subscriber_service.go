package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/waitlist-be/internal/database"
	"github.com/isdelr/waitlist-be/internal/models"
	"github.com/rs/zerolog/log"
)

// SubscriberServiceProvider defines the interface for subscriber services.
type SubscriberServiceProvider interface {
	AddSubscriber(ctx context.Context, email string) (SubscribeResult, error)
	GetSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// SubscribeResult describes the outcome of AddSubscriber.
type SubscribeResult struct {
	Subscriber models.Subscriber
	IsNew      bool
	// Fallback is set when the subscriber was kept in memory because the store was unreachable.
	Fallback bool
}

// SubscriberService persists waiting-list signups. While the database is
// unreachable it keeps signups in a FallbackStore instead of failing.
type SubscriberService struct {
	db       *database.DB
	fallback *FallbackStore
	events   EventServiceProvider
	now      func() time.Time
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(db *database.DB, fallback *FallbackStore, events EventServiceProvider) *SubscriberService {
	return &SubscriberService{
		db:       db,
		fallback: fallback,
		events:   events,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ValidateEmail trims email and checks that it is non-empty and contains '@'.
// This is intentionally lenient; no RFC 5322 parsing is attempted.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// AddSubscriber stores email. Adding an address that is already stored is not an error.
func (s *SubscriberService) AddSubscriber(ctx context.Context, email string) (SubscribeResult, error) {
	email, err := ValidateEmail(email)
	if err != nil {
		return SubscribeResult{}, err
	}

	sub := models.Subscriber{Email: email, CreatedAt: s.now()}
	// An address accepted during an outage keeps its signup time and is not new again.
	held, wasHeld := s.fallback.Get(email)
	if wasHeld {
		sub.CreatedAt = held.CreatedAt
	}

	id, inserted, err := s.insert(ctx, sub)
	if err != nil {
		if !database.IsUnavailable(err) {
			return SubscribeResult{}, fmt.Errorf("add subscriber: %w", err)
		}
		isNew := s.fallback.Add(email, sub.CreatedAt)
		log.Warn().Err(err).Str("email", email).Bool("new", isNew).Int("pending", s.fallback.Len()).
			Msg("Database unavailable, storing subscriber in memory")
		return SubscribeResult{Subscriber: sub, IsNew: isNew, Fallback: true}, nil
	}

	if wasHeld {
		s.fallback.Remove(email)
		return SubscribeResult{Subscriber: sub, IsNew: false}, nil
	}

	sub.ID = id
	return SubscribeResult{Subscriber: sub, IsNew: inserted}, nil
}

// GetSubscribers returns every stored subscriber, most recent first.
func (s *SubscriberService) GetSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, created_at FROM subscribers ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscribers := []models.Subscriber{}
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}

// PendingFallback returns how many subscribers are waiting in memory for the store.
func (s *SubscriberService) PendingFallback() int {
	return s.fallback.Len()
}

// FlushFallback writes in-memory subscribers to the store, keeping their
// original signup time. It stops at the first sign that the store is still unreachable.
func (s *SubscriberService) FlushFallback(ctx context.Context) (int, error) {
	flushed := 0
	for _, sub := range s.fallback.Pending() {
		_, inserted, err := s.insert(ctx, sub)
		if err != nil {
			if database.IsUnavailable(err) {
				return flushed, err
			}
			log.Error().Err(err).Str("email", sub.Email).Msg("Failed to flush fallback subscriber")
			continue
		}
		s.fallback.Remove(sub.Email)
		flushed++
		if inserted && s.events != nil {
			msg := fmt.Sprintf("Subscriber %s accepted during an outage was saved.", sub.Email)
			if err := s.events.CreateEvent(ctx, "subscriber.flushed", "info", msg); err != nil {
				log.Warn().Err(err).Msg("Failed to record flush event")
			}
		}
	}
	return flushed, nil
}

// insert upserts sub and reports whether a new row was created.
func (s *SubscriberService) insert(ctx context.Context, sub models.Subscriber) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO subscribers (email, created_at) VALUES (?, ?)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`), sub.Email, sub.CreatedAt).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil && database.IsUniqueViolation(err):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}
	return id, true, nil
}
