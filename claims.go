package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is what the authorization gate works against. Handlers accept
// this interface so callers can plug in claims from any token source.
type AuthClaims interface {
	Subject() string
	UserID() string
	Role() Role
	HasRole(role Role) bool
	IsAtLeast(minRole Role) bool
	CanManage(target Role) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// AccountClaims is the concrete claims payload minted and validated by the
// token service.
type AccountClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*AccountClaims)(nil)

// Subject returns the subject claim
func (c *AccountClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject when no uid claim
// was minted.
func (c *AccountClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Role returns the account role carried by the token.
func (c *AccountClaims) Role() Role {
	return Role(c.UserRole)
}

// HasRole checks if the claims carry a specific role.
func (c *AccountClaims) HasRole(role Role) bool {
	return Role(c.UserRole) == role
}

// IsAtLeast checks if the claims' role meets the minimum required rank.
func (c *AccountClaims) IsAtLeast(minRole Role) bool {
	return IsAtLeast(Role(c.UserRole), minRole)
}

// CanManage applies the strictly-greater rank rule against a target role.
func (c *AccountClaims) CanManage(target Role) bool {
	return CanManage(Role(c.UserRole), target)
}

// Expires returns the expiration time
func (c *AccountClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AccountClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
