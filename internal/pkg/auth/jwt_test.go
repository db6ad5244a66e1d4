// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func managerWithIssuer(issuer string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Issuer = issuer
	return NewJWTManager(cfg)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenAcceptsConfiguredIssuer(t *testing.T) {
	manager := managerWithIssuer("rathod-mart")
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"email":   "u1@example.com",
		"iss":     "rathod-mart",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
}

func TestValidateTokenRejectsForeignIssuer(t *testing.T) {
	manager := managerWithIssuer("rathod-mart")
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"iss":     "someone-else",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsMissingIssuerWhenConfigured(t *testing.T) {
	manager := managerWithIssuer("rathod-mart")
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenSkipsIssuerCheckWhenUnconfigured(t *testing.T) {
	manager := managerWithIssuer("")
	token := signedToken(t, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestValidateTokenRejectsWrongSigningMethod(t *testing.T) {
	manager := managerWithIssuer("")
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.ValidateToken(signed)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
