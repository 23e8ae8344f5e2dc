package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims and RefreshClaims are distinct types signed with distinct
// secrets, so a token of one kind never validates as the other.
type AccessClaims struct {
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID) (token string, exp time.Time, err error)

	GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, err error)

	ValidateAccessToken(raw string) (AccessClaims, error)

	ValidateRefreshToken(raw string) (RefreshClaims, error)
}
