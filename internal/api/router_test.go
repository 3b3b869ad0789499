package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/isdelr/waitlist-be/internal/api/handlers"
	"github.com/isdelr/waitlist-be/internal/auth"
	"github.com/isdelr/waitlist-be/internal/database/databasetest"
	"github.com/isdelr/waitlist-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	emails []string
}

func (n *recordingNotifier) NotifySubscribed(email string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, email)
}

type testApp struct {
	handler  http.Handler
	notifier *recordingNotifier
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := databasetest.New(t)

	events := services.NewEventService(db)
	admins := services.NewAdminService(db)
	created, err := admins.EnsureAdmin(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)
	require.True(t, created)

	notifier := &recordingNotifier{}
	router := NewRouter(Dependencies{
		Subscribers:    services.NewSubscriberService(db, services.NewFallbackStore(), events),
		Admins:         admins,
		Events:         events,
		DB:             db,
		Issuer:         auth.NewIssuer([]byte("test-secret"), 24*time.Hour),
		Notifier:       notifier,
		RateLimiter:    handlers.NewRateLimiter(600, 100),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &testApp{handler: router, notifier: notifier}
}

func (a *testApp) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func login(t *testing.T, app *testApp) *http.Cookie {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestSignupAndAdminFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/subscribe", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, jsonBody(t, rec)["isNewSubscriber"])

	rec = app.do(t, http.MethodPost, "/subscribe", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := jsonBody(t, rec)
	assert.Equal(t, false, body["isNewSubscriber"])
	assert.Equal(t, "You are already subscribed to our list.", body["message"])

	rec = app.do(t, http.MethodPost, "/subscribe", `{"email":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Only the first signup triggers emails.
	assert.Equal(t, []string{"a@x.com"}, app.notifier.emails)

	rec = app.do(t, http.MethodGet, "/admin/subscribers", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	cookie := login(t, app)

	rec = app.do(t, http.MethodGet, "/admin/subscribers", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	data := jsonBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "a@x.com", data[0].(map[string]interface{})["email"])

	rec = app.do(t, http.MethodGet, "/admin/stats", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := jsonBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["recentCount"])

	rec = app.do(t, http.MethodGet, "/admin/subscribers/export", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,Email,Date Subscribed\n1,a@x.com,"))

	rec = app.do(t, http.MethodGet, "/admin/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")

	rec = app.do(t, http.MethodGet, "/admin/events", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, jsonBody(t, rec)["success"])
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)
	login(t, app)

	rec := app.do(t, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestBearerTokenAccess(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/admin/subscribers", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up","fallbackPending":0}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/subscribe", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
