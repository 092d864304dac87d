package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
	RoleClerk   Role = "Clerk"
)

// ParseRole converts a string to a Role. Returns false for unknown values.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleClerk:
		return Role(s), true
	}
	return "", false
}

// User represents an identity record. Each user owns at most one
// role-specific profile matching its role; the role is immutable after
// creation.
type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName    string     `gorm:"size:100;not null" json:"firstName"`
	LastName     string     `gorm:"size:100;not null" json:"lastName"`
	Phone        string     `gorm:"size:30" json:"phone,omitempty"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	Patient       *Patient       `gorm:"foreignKey:UserID" json:"-"`
	Doctor        *Doctor        `gorm:"foreignKey:UserID" json:"-"`
	Clerk         *Clerk         `gorm:"foreignKey:UserID" json:"-"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RoleScopedID returns the id of the loaded role profile (Patient,
// Doctor or Clerk record id), distinct from the user id itself.
// Returns an empty string when the matching profile is not loaded.
func (u *User) RoleScopedID() string {
	switch u.Role {
	case RolePatient:
		if u.Patient != nil {
			return u.Patient.ID
		}
	case RoleDoctor:
		if u.Doctor != nil {
			return u.Doctor.ID
		}
	case RoleClerk:
		if u.Clerk != nil {
			return u.Clerk.ID
		}
	}
	return ""
}
