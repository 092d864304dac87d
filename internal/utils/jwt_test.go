package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api-server/internal/config"
	"clinic-api-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      60,
		JWTRefreshExpirationHours: 168,
	}
}

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "user-123"},
		Email:     "d.smith@example.com",
		Role:      models.RolePatient,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()

	access, refresh, err := GenerateTokens(testUser(), "patient-456", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateToken(access, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RolePatient, claims.Role)
	assert.Equal(t, "patient-456", claims.RoleScopedID)
	assert.Equal(t, "user-123", claims.Subject)

	refreshClaims, err := ValidateToken(refresh, cfg.JWTRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refreshClaims.UserID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()

	access, _, err := GenerateTokens(testUser(), "", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(access, "some-other-secret")
	assert.Error(t, err)
}

func TestAccessAndRefreshSecretsAreNotInterchangeable(t *testing.T) {
	cfg := testConfig()

	access, refresh, err := GenerateTokens(testUser(), "", cfg)
	require.NoError(t, err)

	_, err = ValidateToken(access, cfg.JWTRefreshSecret)
	assert.Error(t, err)
	_, err = ValidateToken(refresh, cfg.JWTSecret)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token", "access-secret")
	assert.Error(t, err)
}
