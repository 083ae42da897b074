package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered principal. The RefreshToken field holds the
// single currently valid refresh token value for the user's session, or ""
// when the user is logged out.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	RefreshToken string
	AvatarURL    string
	CoverURL     string
	WatchHistory []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidEmail    = errors.New("email is not a valid address")
	ErrEmptyFullName   = errors.New("full name cannot be empty")
	ErrUsernameTooLong = errors.New("username exceeds maximum length of 64 characters")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
)

const (
	maxUsernameLength = 64
	minPasswordLength = 8
)

// NewUser creates a User with a fresh ID. The password hash is set by the
// caller after hashing; usernames are stored lowercase.
func NewUser(username, email, fullName string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, ErrEmptyFullName
	}

	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidatePassword checks the plaintext password against the minimum policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// PublicProfile is the subset of user fields exposed when a user is joined
// onto content owned by them.
type PublicProfile struct {
	ID        uuid.UUID
	Username  string
	Email     string
	AvatarURL string
}
