package models

import (
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
	StatusNoShow    AppointmentStatus = "NoShow"
)

// ParseAppointmentStatus converts a string to an AppointmentStatus,
// ignoring case. Returns false for unknown values.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	for _, status := range []AppointmentStatus{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow} {
		if strings.EqualFold(s, string(status)) {
			return status, true
		}
	}
	return "", false
}

// Appointment represents a scheduled clinic visit. Appointments are
// never physically deleted; cancellation marks the status and stamps
// CancelledAt.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID        string            `gorm:"size:36;index;not null" json:"doctorId"`
	AppointmentDate time.Time         `gorm:"index;not null" json:"appointmentDate"`
	DurationMinutes int               `gorm:"default:30" json:"durationMinutes"`
	Status          AppointmentStatus `gorm:"size:20;default:'Scheduled'" json:"status"`
	Reason          string            `gorm:"size:255" json:"reason,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	DoctorNotes     string            `gorm:"type:text" json:"doctorNotes,omitempty"`
	CreatedBy       string            `gorm:"size:36" json:"createdBy"`
	CancelledAt     *time.Time        `json:"cancelledAt,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
}
