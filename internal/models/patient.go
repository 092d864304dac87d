package models

import (
	"time"
)

// Patient holds the role-specific profile for a user with the Patient role.
type Patient struct {
	BaseModel
	UserID                string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Address               string     `gorm:"size:255" json:"address,omitempty"`
	EmergencyContactName  string     `gorm:"size:100" json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string     `gorm:"size:30" json:"emergencyContactPhone,omitempty"`
	DoctorNotes           string     `gorm:"type:text" json:"-"`
	RegistrationDate      time.Time  `gorm:"autoCreateTime" json:"registrationDate"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
}
