package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// SecurityKeyTTL is how long activation and forgot-password keys stay valid.
const SecurityKeyTTL = 72 * time.Hour

const securityKeyBytes = 32

// NewSecurityKey mints a single-use 256-bit random key, hex encoded, with its
// expiry timestamp.
func NewSecurityKey() (string, time.Time, error) {
	buf := make([]byte, securityKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(buf), time.Now().Add(SecurityKeyTTL), nil
}

// VerifySecurityKey checks a presented key against the stored key and expiry.
// The ladder is: absent key, mismatched key, expired key — each with its own
// coded error so callers can tell the cases apart. field names the key in the
// error ("active key", "forgot key").
func VerifySecurityKey(field, stored string, expire *time.Time, presented string, now time.Time) error {
	if stored == "" || expire == nil {
		return ErrParamNotExists(field)
	}
	if presented == "" || presented != stored {
		return ErrParamIncorrect(field)
	}
	if !expire.After(now) {
		return ErrParamExpired(field)
	}
	return nil
}
