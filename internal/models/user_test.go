package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("Patient")
	require.True(t, ok)
	assert.Equal(t, RolePatient, role)

	_, ok = ParseRole("patient")
	assert.False(t, ok, "roles are case sensitive")

	_, ok = ParseRole("Admin")
	assert.False(t, ok)
}

func TestSetAndCheckPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong-pass"))
}

func TestRoleScopedID(t *testing.T) {
	u := User{Role: RolePatient}
	assert.Empty(t, u.RoleScopedID(), "profile not loaded")

	u.Patient = &Patient{BaseModel: BaseModel{ID: "pat-1"}}
	assert.Equal(t, "pat-1", u.RoleScopedID())

	// A profile of a different role never leaks through.
	d := User{Role: RoleDoctor, Patient: &Patient{BaseModel: BaseModel{ID: "pat-1"}}}
	assert.Empty(t, d.RoleScopedID())
	d.Doctor = &Doctor{BaseModel: BaseModel{ID: "doc-1"}}
	assert.Equal(t, "doc-1", d.RoleScopedID())
}
