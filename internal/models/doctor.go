package models

import (
	"time"
)

// Doctor holds the role-specific profile for a user with the Doctor role.
type Doctor struct {
	BaseModel
	UserID            string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Specialization    string    `gorm:"size:100;not null;default:'General Practitioner'" json:"specialization"`
	LicenseNumber     string    `gorm:"size:50" json:"licenseNumber,omitempty"`
	YearsOfExperience *int      `json:"yearsOfExperience,omitempty"`
	JoinedDate        time.Time `gorm:"autoCreateTime" json:"joinedDate"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"-"`
}
