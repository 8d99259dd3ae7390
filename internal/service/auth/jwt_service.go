package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the access tokens of the public API.
type JWTService interface {
	// GenerateToken signs a new access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken parses and verifies a token string, returning its
	// claims. Fails on expiry, bad signature, or a malformed token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carries the decoded token claims handed to callers.
type Claims struct {
	// UserID is the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
