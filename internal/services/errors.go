package services

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAdminCredentials = errors.New("no admin credentials configured")
	ErrWeakAdminPassword  = errors.New("admin password must be at least 8 characters")
)
