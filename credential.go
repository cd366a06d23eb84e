package accounts

import (
	"github.com/google/uuid"
)

// NewCredential builds a personal-email credential for an identity. The
// plaintext password is checked against the complexity policy and hashed
// before the entity exists; it is never stored.
func NewCredential(userID uuid.UUID, username, plaintext string) (*Credential, error) {
	username = NormalizeEmail(username)

	if userID == uuid.Nil {
		return nil, ErrParamRequired("user id")
	}
	if err := checkEmail("username", username); err != nil {
		return nil, err
	}

	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, err
	}

	return &Credential{
		UserID:       userID,
		Type:         CredentialTypePersonalEmail,
		Username:     username,
		PasswordHash: hash,
	}, nil
}

// Verify re-hashes the plaintext and compares digests. The stored hash never
// leaves the entity.
func (c *Credential) Verify(plaintext string) bool {
	return ComparePasswordAndHash(plaintext, c.PasswordHash) == nil
}
