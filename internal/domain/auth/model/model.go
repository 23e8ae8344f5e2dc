package model

import (
	"github.com/google/uuid"
	"time"
)

// User is the principal record. CurrentRefreshToken is the single session
// slot: the only refresh token accepted for this user. It is written
// exclusively by the token issuer and the refresh rotation, never by
// profile updates.
type User struct {
	ID                  uuid.UUID
	Email               string
	Username            string
	FullName            string
	AvatarURL           string
	PasswordHash        string
	CurrentRefreshToken string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserId       uuid.UUID
}
