package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clinic-api-server/internal/models"
)

var (
	patientP  = Principal{UserID: "u-pat", Role: models.RolePatient, RoleScopedID: "pat-1"}
	otherPat  = Principal{UserID: "u-pat2", Role: models.RolePatient, RoleScopedID: "pat-2"}
	doctorP   = Principal{UserID: "u-doc", Role: models.RoleDoctor, RoleScopedID: "doc-1"}
	otherDoc  = Principal{UserID: "u-doc2", Role: models.RoleDoctor, RoleScopedID: "doc-2"}
	clerkP    = Principal{UserID: "u-clk", Role: models.RoleClerk, RoleScopedID: "clk-1"}
	noProfile = Principal{UserID: "u-x", Role: models.RolePatient}
)

func testAppointment() *models.Appointment {
	return &models.Appointment{PatientID: "pat-1", DoctorID: "doc-1"}
}

func TestCanViewAppointment(t *testing.T) {
	appt := testAppointment()

	assert.Nil(t, CanViewAppointment(patientP, appt))
	assert.Nil(t, CanViewAppointment(doctorP, appt))
	assert.Nil(t, CanViewAppointment(clerkP, appt))

	assert.NotNil(t, CanViewAppointment(otherPat, appt))
	assert.NotNil(t, CanViewAppointment(otherDoc, appt))
	assert.NotNil(t, CanViewAppointment(noProfile, appt))
	assert.NotNil(t, CanViewAppointment(Principal{UserID: "u", Role: "Ghost"}, appt))
}

func TestCanCreateAppointment(t *testing.T) {
	assert.Nil(t, CanCreateAppointment(patientP, "pat-1"))
	assert.Nil(t, CanCreateAppointment(clerkP, "pat-1"))
	assert.Nil(t, CanCreateAppointment(clerkP, "pat-2"))

	assert.NotNil(t, CanCreateAppointment(patientP, "pat-2"), "patients cannot book for others")
	assert.NotNil(t, CanCreateAppointment(doctorP, "pat-1"), "doctors do not create appointments")
	assert.NotNil(t, CanCreateAppointment(noProfile, "pat-1"))
}

func TestCanSetStatus(t *testing.T) {
	appt := testAppointment()

	assert.Nil(t, CanSetStatus(doctorP, appt))
	assert.Nil(t, CanSetStatus(clerkP, appt))

	assert.NotNil(t, CanSetStatus(otherDoc, appt))
	assert.NotNil(t, CanSetStatus(patientP, appt))
}

func TestCanComplete(t *testing.T) {
	appt := testAppointment()

	assert.Nil(t, CanComplete(doctorP, appt))

	assert.NotNil(t, CanComplete(otherDoc, appt))
	assert.NotNil(t, CanComplete(clerkP, appt), "completion is reserved for the assigned doctor")
	assert.NotNil(t, CanComplete(patientP, appt))
}

func TestCanCancel(t *testing.T) {
	appt := testAppointment()

	assert.Nil(t, CanCancel(patientP, appt))
	assert.Nil(t, CanCancel(clerkP, appt))

	assert.NotNil(t, CanCancel(otherPat, appt))
	assert.NotNil(t, CanCancel(doctorP, appt), "doctors mark no-shows instead of cancelling")
	assert.NotNil(t, CanCancel(noProfile, appt))
}

func TestForbiddenErrorShape(t *testing.T) {
	err := CanViewAppointment(otherPat, testAppointment())
	assert.Equal(t, CodeForbidden, err.Code)
	assert.Equal(t, 403, err.Status)
}
