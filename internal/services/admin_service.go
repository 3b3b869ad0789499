package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/waitlist-be/internal/database"
	"github.com/isdelr/waitlist-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const minAdminPasswordLen = 8

// AdminServiceProvider defines the interface for admin account services.
type AdminServiceProvider interface {
	VerifyAdmin(ctx context.Context, username, password string) (models.AdminUser, error)
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

// AdminService verifies and provisions dashboard accounts.
type AdminService struct {
	db *database.DB
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *database.DB) *AdminService {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return &AdminService{db: db, dummyHash: hash}
}

// GetAdminByUsername retrieves a single admin by username, including the password hash.
func (s *AdminService) GetAdminByUsername(ctx context.Context, username string) (models.AdminUser, error) {
	var admin models.AdminUser
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?"), username)
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminUser{}, fmt.Errorf("admin %s not found: %w", username, ErrInvalidCredentials)
		}
		return models.AdminUser{}, err
	}
	return admin, nil
}

// VerifyAdmin checks username and password against the stored bcrypt hash.
func (s *AdminService) VerifyAdmin(ctx context.Context, username, password string) (models.AdminUser, error) {
	admin, err := s.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		}
		return models.AdminUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return models.AdminUser{}, fmt.Errorf("authentication failed for %s: %w", username, ErrInvalidCredentials)
	}

	// Don't hand the password hash to callers
	admin.PasswordHash = ""
	return admin, nil
}

// EnsureAdmin provisions the first admin account from explicit credentials.
// It does nothing when any admin already exists and reports whether an account was created.
func (s *AdminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if username == "" || password == "" {
		return false, ErrNoAdminCredentials
	}
	if len(password) < minAdminPasswordLen {
		return false, ErrWeakAdminPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind("INSERT INTO admin_users (username, password_hash) VALUES (?, ?)"), username, string(hashedPassword))
	if err != nil {
		return false, err
	}
	return true, nil
}
