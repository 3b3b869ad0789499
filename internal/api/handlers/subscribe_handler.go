package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/waitlist-be/internal/services"
	ws "github.com/isdelr/waitlist-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Notifier sends the emails that follow a new signup. It must not block.
type Notifier interface {
	NotifySubscribed(email string)
}

// Publisher pushes live updates to connected dashboards. It must not block.
type Publisher interface {
	Publish(action string, payload interface{})
}

// SubscribeHandler handles waiting-list signups.
type SubscribeHandler struct {
	service   services.SubscriberServiceProvider
	notifier  Notifier
	publisher Publisher
}

// NewSubscribeHandler creates a new SubscribeHandler.
func NewSubscribeHandler(service services.SubscriberServiceProvider, notifier Notifier, publisher Publisher) *SubscribeHandler {
	return &SubscribeHandler{service: service, notifier: notifier, publisher: publisher}
}

// SubscribePayload is the body of a signup request.
type SubscribePayload struct {
	Email string `json:"email"`
}

// Subscribe adds the posted email to the waiting list.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var payload SubscribePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.AddSubscriber(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, "Please provide a valid email address")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to add subscriber")
		respondError(w, http.StatusInternalServerError, "Failed to process subscription")
		return
	}

	if !result.IsNew {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"message":         "You are already subscribed to our list.",
			"isNewSubscriber": false,
		})
		return
	}

	log.Info().Str("email", result.Subscriber.Email).Bool("fallback", result.Fallback).Msg("New subscriber")
	if h.notifier != nil {
		h.notifier.NotifySubscribed(result.Subscriber.Email)
	}
	if h.publisher != nil {
		h.publisher.Publish(ws.ActionSubscriberCreated, result.Subscriber)
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":         true,
		"message":         "Thank you! You're on the early access list.",
		"isNewSubscriber": true,
	})
}
