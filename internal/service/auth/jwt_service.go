package auth

import (
	"context"
	"time"
)

// MinSecretLength is the minimum accepted length of the HMAC signing secret.
const MinSecretLength = 32

// Identity is the authenticated principal carried inside a session token.
type Identity struct {
	UserID int64
	Email  string
}

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token containing the user's information.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, identity Identity) (string, error)

	// GenerateTokenWithExpiry behaves like GenerateToken and also reports the
	// instant at which the token stops being valid.
	GenerateTokenWithExpiry(ctx context.Context, identity Identity) (string, time.Time, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// It returns ErrMalformedToken, ErrExpiredToken or ErrInvalidSignature on failure.
	// Expiry is checked before the signature.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the identity and validity window decoded from a token.
type Claims struct {
	UserID    int64
	Email     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Identity returns the principal embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}
