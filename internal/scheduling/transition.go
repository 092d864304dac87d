package scheduling

import (
	"clinic-api-server/internal/models"
)

// EnsureReschedulable rejects reschedule attempts on terminal
// appointments. Completed and Cancelled are terminal.
func EnsureReschedulable(status models.AppointmentStatus) *Error {
	switch status {
	case models.StatusCompleted:
		return BadRequest(CodeAlreadyCompleted, "Cannot reschedule a completed appointment")
	case models.StatusCancelled:
		return BadRequest(CodeAlreadyCancelled, "Cannot reschedule a cancelled appointment")
	}
	return nil
}

// EnsureCancellable rejects cancel attempts on terminal appointments.
func EnsureCancellable(status models.AppointmentStatus) *Error {
	switch status {
	case models.StatusCancelled:
		return BadRequest(CodeAlreadyCancelled, "Appointment is already cancelled")
	case models.StatusCompleted:
		return BadRequest(CodeAlreadyCompleted, "Cannot cancel a completed appointment")
	}
	return nil
}
