package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api-server/internal/config"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/scheduling"
	"clinic-api-server/internal/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-access-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      60,
		JWTRefreshExpirationHours: 168,
	}
}

func testRouter(cfg *config.Config, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/", AuthMiddleware(cfg))
	if len(roles) > 0 {
		group.Use(RoleAuthMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID, "roleScopedId": principal.RoleScopedID})
	})
	return router
}

func accessToken(t *testing.T, cfg *config.Config, role models.Role, roleScopedID string) string {
	t.Helper()
	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: role}
	token, _, err := utils.GenerateTokens(user, roleScopedID, cfg)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	token := accessToken(t, cfg, models.RolePatient, "pat-1")
	w := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pat-1")
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := testRouter(testConfig())
	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)
	token := accessToken(t, cfg, models.RolePatient, "pat-1")

	for _, header := range []string{"Token " + token, token, "Bearer"} {
		w := doRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddlewareRejectsRefreshTokenOnAccessRoutes(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	user := &models.User{BaseModel: models.BaseModel{ID: "user-1"}, Role: models.RolePatient}
	_, refresh, err := utils.GenerateTokens(user, "pat-1", cfg)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg, models.RoleClerk)

	clerkToken := accessToken(t, cfg, models.RoleClerk, "clk-1")
	assert.Equal(t, http.StatusOK, doRequest(router, "Bearer "+clerkToken).Code)

	patientToken := accessToken(t, cfg, models.RolePatient, "pat-1")
	w := doRequest(router, "Bearer "+patientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), scheduling.CodeForbidden)
}
