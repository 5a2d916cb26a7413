package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateTokens(t *testing.T) {
	access, refresh, err := GenerateTokens(1, "member@example.com", RoleMember, testSecret, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, RoleMember, claims.Role)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
	assert.Equal(t, jwtIssuer, claims.Issuer)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	claims, err = ValidateToken(refresh, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
}

func TestGenerateAccessToken_EmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(1, "a@b.c", RoleMember, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.c", RoleAdmin, testSecret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ValidateToken(token, "other")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not-a-token", testSecret)
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := ValidateToken(token, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := generateToken(1, "a@b.c", RoleMember, tokenTypeAccess, testSecret, -time.Hour)
		require.NoError(t, err)

		_, err = ValidateToken(expired, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	forged := func(t *testing.T, mutate func(*JWTClaims)) string {
		claims := &JWTClaims{
			UserID:    1,
			Role:      RoleMember,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		mutate(claims)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return signed
	}

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := ValidateToken(forged(t, func(c *JWTClaims) { c.Issuer = "someone-else" }), testSecret)
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := ValidateToken(forged(t, func(c *JWTClaims) { c.Role = "superuser" }), testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		_, err := ValidateToken(forged(t, func(c *JWTClaims) { c.Subject = "2" }), testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("forged claims are otherwise accepted", func(t *testing.T) {
		claims, err := ValidateToken(forged(t, func(*JWTClaims) {}), testSecret)
		require.NoError(t, err)
		assert.Equal(t, RoleMember, claims.Role)
	})

	t.Run("other signing method", func(t *testing.T) {
		claims := &JWTClaims{UserID: 1, Role: RoleAdmin}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(signed, testSecret)
		assert.Error(t, err)
	})
}

func TestGenerateToken_UnknownRole(t *testing.T) {
	_, err := GenerateAccessToken(1, "a@b.c", "user", testSecret)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestGenerateTokens_UniqueIDs(t *testing.T) {
	a, err := GenerateAccessToken(1, "a@b.c", RoleMember, testSecret)
	require.NoError(t, err)
	b, err := GenerateAccessToken(1, "a@b.c", RoleMember, testSecret)
	require.NoError(t, err)

	ca, err := ValidateToken(a, testSecret)
	require.NoError(t, err)
	cb, err := ValidateToken(b, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestRefreshAccessToken(t *testing.T) {
	access, refresh, err := GenerateTokens(5, "t@example.com", RoleTrainer, testSecret, testSecret)
	require.NoError(t, err)

	newAccess, claims, err := RefreshAccessToken(refresh, testSecret, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)

	parsed, err := ValidateToken(newAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, tokenTypeAccess, parsed.TokenType)

	_, _, err = RefreshAccessToken(access, testSecret, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleTrainer))
	assert.True(t, ValidRole(RoleMember))
	assert.False(t, ValidRole("user"))
	assert.False(t, ValidRole(""))
}
