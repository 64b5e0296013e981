package storefront

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates the two token flavors carried by the session
// cookie pair.
type TokenKind string

const (
	// TokenKindAccess is the short lived per-request credential
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long lived credential used only to mint
	// new access tokens
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the payload carried by both token kinds: subject
// identity, role, and the kind discriminator.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserRole string    `json:"role,omitempty"`
	Kind     TokenKind `json:"type"`
}

// UserID returns the subject identifier
func (c *TokenClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// Role returns the role claim
func (c *TokenClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issuance time
func (c *TokenClaims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
