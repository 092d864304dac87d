package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-api-server/internal/scheduling"
)

// ErrorDetail carries the machine-readable error code and a
// human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseData is the envelope wrapping every API response.
type ResponseData struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data"`
	Error   *ErrorDetail `json:"error"`
}

// Success sends a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{Success: true, Data: data})
}

// Created sends a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{Success: true, Data: data})
}

// Error sends an error envelope with the given status and code.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, ResponseData{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message},
	})
}

// RuleError maps a scheduling rule error to the envelope once,
// centrally; handlers never pick status codes for business failures.
func RuleError(c *gin.Context, err *scheduling.Error) {
	Error(c, err.Status, err.Code, err.Message)
}

// BadRequest sends a 400 error envelope.
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized sends a 401 error envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden sends a 403 error envelope.
func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, scheduling.CodeForbidden, "You are not authorized to perform this action")
}

// NotFound sends a 404 error envelope.
func NotFound(c *gin.Context, code, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalServerError sends a generic 500 envelope. The detailed error
// is logged by the caller, never returned to the client.
func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, scheduling.CodeServerError, message)
}
