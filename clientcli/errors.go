package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrTokenRequired  = errors.New("session token is required")
	ErrConfigRequired = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrEmptyPath  = errors.New("path is required")
	ErrEmptyText  = errors.New("text is required")
	ErrEmptyID    = errors.New("item id is required")
	ErrEmptyTitle = errors.New("title is required")
)
