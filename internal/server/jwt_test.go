package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/config"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: expirationHours,
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	assert.Len(t, parts, 3, "JWT should have 3 parts separated by dots")

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_DifferentUsersGetDifferentTokens(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID1, userID2 := uuid.New(), uuid.New()

	token1, err := service.GenerateToken(userID1)
	require.NoError(t, err)
	token2, err := service.GenerateToken(userID2)
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)

	claims1, err := service.ValidateToken(token1)
	require.NoError(t, err)
	assert.Equal(t, userID1, claims1.UserID)

	claims2, err := service.ValidateToken(token2)
	require.NoError(t, err)
	assert.Equal(t, userID2, claims2.UserID)
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	issuer := setupTestJWTService(t, 24)
	verifier := NewJWTService(&config.JWTConfig{
		Secret:          "different-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	})

	token, err := issuer.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "signature")
}

func TestJWTService_ValidateToken_MalformedToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "one part", token: "invalid"},
		{name: "two parts", token: "invalid.token"},
		{name: "four parts", token: "invalid.token.format.extra"},
		{name: "invalid base64", token: "invalid.base64.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t, 24)
	service.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	service := setupTestJWTService(t, 24)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_RequiresUserID(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken(uuid.Nil)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user id")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	getter, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, getter.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
