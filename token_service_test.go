package accounts_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceGenerate(t *testing.T) {
	config := newTestConfig()
	service := accounts.NewTokenService(config, testLogger{})

	identity := &accounts.Identity{
		ID:   uuid.New(),
		Role: accounts.RoleAdmin,
	}

	tokenString, err := service.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := jwt.ParseWithClaims(tokenString, &accounts.AccountClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(config.signingKey), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(*accounts.AccountClaims)
	require.True(t, ok)
	assert.Equal(t, identity.ID.String(), claims.Subject())
	assert.Equal(t, identity.ID.String(), claims.UserID())
	assert.Equal(t, accounts.RoleAdmin, claims.Role())
	assert.Equal(t, config.issuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings(config.audience), claims.Audience)
	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestTokenServiceGenerateNilIdentity(t *testing.T) {
	service := accounts.NewTokenService(newTestConfig(), nil)

	tokenString, err := service.Generate(nil)
	assert.Error(t, err)
	assert.Empty(t, tokenString)
}

func TestTokenServiceValidate(t *testing.T) {
	config := newTestConfig()
	service := accounts.NewTokenService(config, testLogger{})

	identity := &accounts.Identity{
		ID:   uuid.New(),
		Role: accounts.RoleManager,
	}

	t.Run("valid token round trips", func(t *testing.T) {
		tokenString, err := service.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)
		assert.Equal(t, identity.ID.String(), claims.UserID())
		assert.Equal(t, accounts.RoleManager, claims.Role())
		assert.True(t, claims.Expires().After(time.Now()))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &accounts.AccountClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    config.issuer,
				Subject:   identity.ID.String(),
				Audience:  jwt.ClaimStrings(config.audience),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			UID:      identity.ID.String(),
			UserRole: accounts.RoleManager,
		}

		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, expired)
		tokenString, err := raw.SignedString([]byte(config.signingKey))
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsTokenExpiredError(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		claims, err := service.Validate("not.a.token")
		assert.Nil(t, claims)
		assert.True(t, accounts.IsMalformedError(err))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := accounts.NewTokenService(testConfig{
			signingKey: "other-key",
			expiration: 1,
			issuer:     config.issuer,
			audience:   config.audience,
		}, testLogger{})

		tokenString, err := other.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsMalformedError(err))
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := accounts.NewTokenService(testConfig{
			signingKey: config.signingKey,
			expiration: 1,
			issuer:     "someone-else",
			audience:   config.audience,
		}, testLogger{})

		tokenString, err := other.Generate(identity)
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsMalformedError(err))
	})
}

func TestAccountClaimsHelpers(t *testing.T) {
	now := time.Now()
	claims := &accounts.AccountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserRole: accounts.RoleManager,
	}

	assert.Equal(t, "subject-id", claims.UserID())
	assert.True(t, claims.HasRole(accounts.RoleManager))
	assert.False(t, claims.HasRole(accounts.RoleAdmin))
	assert.True(t, claims.IsAtLeast(accounts.RoleClient))
	assert.False(t, claims.IsAtLeast(accounts.RoleAdmin))
	assert.True(t, claims.CanManage(accounts.RoleClient))
	assert.False(t, claims.CanManage(accounts.RoleManager))
	assert.Equal(t, now.Unix(), claims.IssuedAt().Unix())
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.Expires().Unix())

	claims.UID = "uid-wins"
	assert.Equal(t, "uid-wins", claims.UserID())

	empty := &accounts.AccountClaims{}
	assert.True(t, empty.Expires().IsZero())
	assert.True(t, empty.IssuedAt().IsZero())
}

func TestMultiTokenValidator(t *testing.T) {
	config := newTestConfig()
	service := accounts.NewTokenService(config, testLogger{})

	identity := &accounts.Identity{ID: uuid.New(), Role: accounts.RoleUser}
	tokenString, err := service.Generate(identity)
	require.NoError(t, err)

	rejecting := accounts.TokenValidatorFunc(func(string) (accounts.AuthClaims, error) {
		return nil, accounts.ErrTokenMalformed
	})

	t.Run("falls through malformed to next validator", func(t *testing.T) {
		multi := accounts.NewMultiTokenValidator(rejecting, service)

		claims, err := multi.Validate(tokenString)
		require.NoError(t, err)
		assert.Equal(t, identity.ID.String(), claims.UserID())
	})

	t.Run("expired stops the chain", func(t *testing.T) {
		expiring := accounts.TokenValidatorFunc(func(string) (accounts.AuthClaims, error) {
			return nil, accounts.ErrTokenExpired
		})
		multi := accounts.NewMultiTokenValidator(expiring, service)

		claims, err := multi.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsTokenExpiredError(err))
	})

	t.Run("all malformed returns last error", func(t *testing.T) {
		multi := accounts.NewMultiTokenValidator(rejecting, rejecting)

		claims, err := multi.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsMalformedError(err))
	})

	t.Run("no validators", func(t *testing.T) {
		multi := accounts.NewMultiTokenValidator(nil)

		claims, err := multi.Validate(tokenString)
		assert.Nil(t, claims)
		assert.True(t, accounts.IsMalformedError(err))
	})
}
