package scheduling

import (
	"clinic-api-server/internal/models"
)

// Per-operation authorization rules. Each function returns nil when the
// caller may proceed and a Forbidden error otherwise. Ownership is
// checked against the caller's role-scoped id, so a missing or
// malformed profile id always denies.

// CanViewAppointment allows the involved patient, the assigned doctor,
// or any clerk.
func CanViewAppointment(p Principal, appt *models.Appointment) *Error {
	switch p.Role {
	case models.RolePatient:
		if p.RoleScopedID == "" || appt.PatientID != p.RoleScopedID {
			return Forbidden()
		}
	case models.RoleDoctor:
		if p.RoleScopedID == "" || appt.DoctorID != p.RoleScopedID {
			return Forbidden()
		}
	case models.RoleClerk:
		// Clerks can access any appointment.
	default:
		return Forbidden()
	}
	return nil
}

// CanCreateAppointment allows patients to book for themselves and
// clerks to book for anyone. Doctors do not create appointments.
func CanCreateAppointment(p Principal, patientID string) *Error {
	switch p.Role {
	case models.RolePatient:
		if p.RoleScopedID == "" || patientID != p.RoleScopedID {
			return Forbidden()
		}
	case models.RoleClerk:
	default:
		return Forbidden()
	}
	return nil
}

// CanReschedule allows the involved patient, the assigned doctor, or
// any clerk to move an appointment.
func CanReschedule(p Principal, appt *models.Appointment) *Error {
	return CanViewAppointment(p, appt)
}

// CanSetStatus allows the assigned doctor or any clerk to set an
// arbitrary status.
func CanSetStatus(p Principal, appt *models.Appointment) *Error {
	switch p.Role {
	case models.RoleDoctor:
		if p.RoleScopedID == "" || appt.DoctorID != p.RoleScopedID {
			return Forbidden()
		}
	case models.RoleClerk:
	default:
		return Forbidden()
	}
	return nil
}

// CanComplete allows only the assigned doctor to complete an
// appointment and record doctor notes.
func CanComplete(p Principal, appt *models.Appointment) *Error {
	if p.Role != models.RoleDoctor || p.RoleScopedID == "" || appt.DoctorID != p.RoleScopedID {
		return Forbidden()
	}
	return nil
}

// CanCancel allows the involved patient or any clerk. Doctors cannot
// cancel; they mark no-shows through the status endpoint instead.
func CanCancel(p Principal, appt *models.Appointment) *Error {
	switch p.Role {
	case models.RolePatient:
		if p.RoleScopedID == "" || appt.PatientID != p.RoleScopedID {
			return Forbidden()
		}
	case models.RoleClerk:
	default:
		return Forbidden()
	}
	return nil
}
