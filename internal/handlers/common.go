package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-api-server/internal/utils"
)

// serverError logs the detailed error and returns a generic 500
// envelope to the client.
func serverError(c *gin.Context, logger zerolog.Logger, err error, message string) {
	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	utils.InternalServerError(c, message)
}
