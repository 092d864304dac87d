package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api-server/internal/models"
)

func TestListScopePatient(t *testing.T) {
	scope, err := ListScope(patientP, ListFilter{})
	require.Nil(t, err)
	assert.Equal(t, "pat-1", scope.PatientID)
	assert.Empty(t, scope.DoctorID)

	// A patient cannot widen their view with a doctor filter.
	scope, err = ListScope(patientP, ListFilter{DoctorID: "doc-9"})
	require.Nil(t, err)
	assert.Equal(t, "pat-1", scope.PatientID)
	assert.Empty(t, scope.DoctorID)
}

func TestListScopeDoctor(t *testing.T) {
	scope, err := ListScope(doctorP, ListFilter{})
	require.Nil(t, err)
	assert.Equal(t, "doc-1", scope.DoctorID)
	assert.Empty(t, scope.PatientID)

	// The doctor filter never overrides the doctor's own scope.
	scope, err = ListScope(doctorP, ListFilter{DoctorID: "doc-9"})
	require.Nil(t, err)
	assert.Equal(t, "doc-1", scope.DoctorID)
}

func TestListScopeClerk(t *testing.T) {
	scope, err := ListScope(clerkP, ListFilter{})
	require.Nil(t, err)
	assert.Empty(t, scope.PatientID)
	assert.Empty(t, scope.DoctorID)

	scope, err = ListScope(clerkP, ListFilter{DoctorID: "doc-9"})
	require.Nil(t, err)
	assert.Equal(t, "doc-9", scope.DoctorID)
}

func TestListScopeMissingProfile(t *testing.T) {
	_, err := ListScope(Principal{UserID: "u", Role: models.RolePatient}, ListFilter{})
	require.NotNil(t, err)
	assert.Equal(t, CodePatientNotFound, err.Code)

	_, err = ListScope(Principal{UserID: "u", Role: models.RoleDoctor}, ListFilter{})
	require.NotNil(t, err)
	assert.Equal(t, CodeDoctorNotFound, err.Code)
}

func TestListScopeUnknownRole(t *testing.T) {
	_, err := ListScope(Principal{UserID: "u", Role: "Admin"}, ListFilter{})
	require.NotNil(t, err)
	assert.Equal(t, CodeForbidden, err.Code)
}
