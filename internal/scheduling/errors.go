package scheduling

import "net/http"

// Error codes returned inside the response envelope.
const (
	CodeInvalidID        = "INVALID_ID"
	CodeInvalidDoctorID  = "INVALID_DOCTOR_ID"
	CodeInvalidPatientID = "INVALID_PATIENT_ID"
	CodeInvalidStatus    = "INVALID_STATUS"
	CodeNotFound         = "NOT_FOUND"
	CodePatientNotFound  = "PATIENT_NOT_FOUND"
	CodeDoctorNotFound   = "DOCTOR_NOT_FOUND"
	CodeSlotUnavailable  = "SLOT_UNAVAILABLE"
	CodeAlreadyCompleted = "ALREADY_COMPLETED"
	CodeAlreadyCancelled = "ALREADY_CANCELLED"
	CodeForbidden        = "FORBIDDEN"
	CodeServerError      = "SERVER_ERROR"
)

// Error is a business-rule failure carried as a value. Rule functions
// return *Error instead of writing HTTP responses; the transport layer
// maps Status and Code to the envelope once, centrally.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

// NewError builds a rule error with an explicit HTTP status.
func NewError(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

// BadRequest builds a 400 rule error.
func BadRequest(code, message string) *Error {
	return NewError(http.StatusBadRequest, code, message)
}

// NotFound builds a 404 rule error.
func NotFound(code, message string) *Error {
	return NewError(http.StatusNotFound, code, message)
}

// Forbidden builds the uniform 403 error used for every authorization
// failure, including malformed identity claims.
func Forbidden() *Error {
	return NewError(http.StatusForbidden, CodeForbidden, "You are not authorized to perform this action")
}

// SlotUnavailable is returned when the candidate time window overlaps
// an active appointment for the doctor.
func SlotUnavailable() *Error {
	return BadRequest(CodeSlotUnavailable, "This time slot is already booked. Please choose a different time.")
}
