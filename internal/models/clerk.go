package models

import (
	"time"
)

// Clerk holds the role-specific profile for a user with the Clerk role.
type Clerk struct {
	BaseModel
	UserID     string    `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Department string    `gorm:"size:100" json:"department,omitempty"`
	HireDate   time.Time `gorm:"autoCreateTime" json:"hireDate"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
