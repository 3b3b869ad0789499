package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/isdelr/waitlist-be/internal/dashboard"
	"github.com/isdelr/waitlist-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler serves the authenticated subscriber views.
type AdminHandler struct {
	service services.SubscriberServiceProvider
	now     func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.SubscriberServiceProvider) *AdminHandler {
	return &AdminHandler{service: service, now: time.Now}
}

// ListSubscribers returns every subscriber, most recent first.
func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.GetSubscribers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch subscribers")
		respondError(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    subs,
	})
}

// Stats returns the dashboard summary numbers.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.GetSubscribers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch subscribers for stats")
		respondError(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    dashboard.ComputeStats(subs, h.now()),
	})
}

// Export streams the full subscriber list as a CSV attachment.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.GetSubscribers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch subscribers for export")
		respondError(w, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}

	var buf bytes.Buffer
	if err := dashboard.WriteCSV(&buf, subs); err != nil {
		log.Error().Err(err).Msg("Failed to write CSV export")
		respondError(w, http.StatusInternalServerError, "Failed to export subscribers")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+dashboard.ExportFilename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Dashboard renders the HTML admin page. It accepts q to filter by email and page to paginate.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.GetSubscribers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch subscribers for dashboard")
		http.Error(w, "Failed to fetch subscribers", http.StatusInternalServerError)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}
	view := dashboard.BuildView(subs, r.URL.Query().Get("q"), page, h.now())

	var buf bytes.Buffer
	if err := dashboard.Render(&buf, view); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard")
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
