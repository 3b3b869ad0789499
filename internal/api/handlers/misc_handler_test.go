package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/waitlist-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEvents_GetRecent(t *testing.T) {
	tests := []struct {
		query     string
		wantLimit int
	}{
		{query: "", wantLimit: 20},
		{query: "?limit=5", wantLimit: 5},
		{query: "?limit=-1", wantLimit: 20},
		{query: "?limit=abc", wantLimit: 20},
		{query: "?limit=100000", wantLimit: maxEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &fakeEvents{events: []models.Event{{ID: "e1", Type: "notification.welcome.sent"}}}
			rec := httptest.NewRecorder()
			NewEventHandler(svc).GetRecent(rec, httptest.NewRequest(http.MethodGet, "/admin/events"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantLimit, svc.lastLimit)
			assert.Contains(t, rec.Body.String(), "notification.welcome.sent")
		})
	}
}

func TestEvents_Failure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewEventHandler(&fakeEvents{err: errors.New("boom")}).GetRecent(rec, httptest.NewRequest(http.MethodGet, "/admin/events", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}, fakeCounter(0)).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up","fallbackPending":0}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("refused")}, fakeCounter(4)).Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","database":"down","fallbackPending":4}`, rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := limiter.Middleware(ok)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/subscribe", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1236"))
	// Other clients have their own bucket.
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1234"))
}

func TestRateLimiter_Body(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/subscribe", nil))
		if i == 1 {
			assert.JSONEq(t, `{"success":false,"error":"Too many subscription requests. Please try again later."}`, rec.Body.String())
		}
	}
}
