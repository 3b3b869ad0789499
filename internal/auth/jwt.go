package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/waitlist-be/internal/models"
	"github.com/rs/zerolog/log"
)

// CookieName is the cookie that carries the admin session token.
const CookieName = "admin_token"

// ErrInvalidToken is returned for any token that fails parsing, signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the JWT claims structure.
type Claims struct {
	AdminID  int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type contextKey string

// AdminClaimsKey is the context key for admin claims.
const AdminClaimsKey = contextKey("adminClaims")

// Issuer signs and validates admin session tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer whose tokens expire after ttl.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// RandomSecret returns a fresh 32-byte signing secret.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// TTL returns how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// GenerateJWT creates a new JWT for a given admin.
func (i *Issuer) GenerateJWT(admin models.AdminUser) (string, error) {
	now := i.now()
	claims := &Claims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateJWT parses and validates a JWT string.
func (i *Issuer) ValidateJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(AdminClaimsKey).(*Claims)
	return claims, ok
}

// Middleware creates a middleware for protecting routes.
func (i *Issuer) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			// 1. Try the session cookie
			if cookie, err := r.Cookie(CookieName); err == nil {
				tokenStr = cookie.Value
			}

			// 2. Fall back to the Authorization header
			if tokenStr == "" {
				if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					tokenStr = strings.TrimSpace(token)
				}
			}

			if tokenStr == "" {
				unauthorized(w)
				return
			}

			claims, err := i.ValidateJWT(tokenStr)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected admin token")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   "Unauthorized",
	})
}
