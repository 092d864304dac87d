package scheduling

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api-server/internal/models"
)

func TestEnsureReschedulable(t *testing.T) {
	assert.Nil(t, EnsureReschedulable(models.StatusScheduled))
	assert.Nil(t, EnsureReschedulable(models.StatusNoShow))

	err := EnsureReschedulable(models.StatusCompleted)
	require.NotNil(t, err)
	assert.Equal(t, CodeAlreadyCompleted, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)

	err = EnsureReschedulable(models.StatusCancelled)
	require.NotNil(t, err)
	assert.Equal(t, CodeAlreadyCancelled, err.Code)
}

func TestEnsureCancellable(t *testing.T) {
	assert.Nil(t, EnsureCancellable(models.StatusScheduled))
	assert.Nil(t, EnsureCancellable(models.StatusNoShow))

	err := EnsureCancellable(models.StatusCancelled)
	require.NotNil(t, err)
	assert.Equal(t, CodeAlreadyCancelled, err.Code)

	err = EnsureCancellable(models.StatusCompleted)
	require.NotNil(t, err)
	assert.Equal(t, CodeAlreadyCompleted, err.Code)
}
