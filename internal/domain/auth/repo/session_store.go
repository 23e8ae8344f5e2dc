package repo

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore manages the single refresh-token slot per user. The slot is
// the sole source of truth for which refresh token is currently valid: a
// token that does not match the slot has been rotated away or revoked by
// logout.
type SessionStore interface {
	// Get returns the stored refresh token, or "" when no session is active.
	Get(ctx context.Context, userID uuid.UUID) (string, error)

	// Set overwrites the slot unconditionally. Any previously stored token
	// is thereby invalidated.
	Set(ctx context.Context, userID uuid.UUID, token string) error

	// Rotate replaces old with new only if old is the stored value.
	// Returns ErrTokenReuse when the compare fails.
	Rotate(ctx context.Context, userID uuid.UUID, old, new string) error

	// Clear empties the slot (logout).
	Clear(ctx context.Context, userID uuid.UUID) error
}
