package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api-server/internal/scheduling"
)

func recordResponse(write func(c *gin.Context)) (*httptest.ResponseRecorder, ResponseData) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	write(c)

	var body ResponseData
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		panic(err)
	}
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := recordResponse(func(c *gin.Context) {
		Success(c, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotNil(t, body.Data)
}

func TestErrorEnvelope(t *testing.T) {
	w, body := recordResponse(func(c *gin.Context) {
		BadRequest(c, "EMAIL_EXISTS", "A user with this email already exists")
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	require.NotNil(t, body.Error)
	assert.Equal(t, "EMAIL_EXISTS", body.Error.Code)
}

func TestRuleErrorMapsStatusAndCode(t *testing.T) {
	w, body := recordResponse(func(c *gin.Context) {
		RuleError(c, scheduling.SlotUnavailable())
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, scheduling.CodeSlotUnavailable, body.Error.Code)

	w, body = recordResponse(func(c *gin.Context) {
		RuleError(c, scheduling.Forbidden())
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, scheduling.CodeForbidden, body.Error.Code)
}
