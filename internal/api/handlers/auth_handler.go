package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/isdelr/waitlist-be/internal/auth"
	"github.com/isdelr/waitlist-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles admin login and logout.
type AuthHandler struct {
	service services.AdminServiceProvider
	issuer  *auth.Issuer
	secure  bool
}

// NewAuthHandler creates a new AuthHandler. secure sets the Secure flag on the session cookie.
func NewAuthHandler(service services.AdminServiceProvider, issuer *auth.Issuer, secure bool) *AuthHandler {
	return &AuthHandler{service: service, issuer: issuer, secure: secure}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func loginResponse(w http.ResponseWriter, status int, success bool, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": success,
		"message": message,
	})
}

// Login verifies the admin credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		loginResponse(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}
	if strings.TrimSpace(payload.Username) == "" || strings.TrimSpace(payload.Password) == "" {
		loginResponse(w, http.StatusBadRequest, false, "Username and password are required")
		return
	}

	admin, err := h.service.VerifyAdmin(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", payload.Username).Msg("Failed login attempt")
			loginResponse(w, http.StatusUnauthorized, false, "Invalid username or password")
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to verify admin")
		loginResponse(w, http.StatusInternalServerError, false, "Authentication failed")
		return
	}

	token, err := h.issuer.GenerateJWT(admin)
	if err != nil {
		log.Error().Err(err).Int64("admin_id", admin.ID).Msg("Failed to generate JWT")
		loginResponse(w, http.StatusInternalServerError, false, "Authentication failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.issuer.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})

	log.Info().Str("username", admin.Username).Msg("Admin logged in")
	loginResponse(w, http.StatusOK, true, "Login successful")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	loginResponse(w, http.StatusOK, true, "Logged out")
}
