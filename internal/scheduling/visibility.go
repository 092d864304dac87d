package scheduling

import (
	"time"

	"gorm.io/gorm"

	"clinic-api-server/internal/models"
)

// ListFilter carries the optional query parameters of the appointment
// list endpoint.
type ListFilter struct {
	Status   string
	Date     *time.Time
	DoctorID string
}

// Scope is the identity restriction derived from the caller's role.
// Empty fields mean no restriction on that column.
type Scope struct {
	PatientID string
	DoctorID  string
}

// ListScope narrows the appointment list to what the caller may see:
// patients and doctors see only their own appointments, clerks see all
// and may filter by an arbitrary doctor id.
func ListScope(p Principal, f ListFilter) (Scope, *Error) {
	switch p.Role {
	case models.RolePatient:
		if p.RoleScopedID == "" {
			return Scope{}, NotFound(CodePatientNotFound, "Patient profile not found")
		}
		return Scope{PatientID: p.RoleScopedID}, nil
	case models.RoleDoctor:
		if p.RoleScopedID == "" {
			return Scope{}, NotFound(CodeDoctorNotFound, "Doctor profile not found")
		}
		return Scope{DoctorID: p.RoleScopedID}, nil
	case models.RoleClerk:
		return Scope{DoctorID: f.DoctorID}, nil
	}
	return Scope{}, Forbidden()
}

// BuildListQuery applies the role scope and the optional status/date
// filters to an appointment query, ordered by appointment date
// ascending. Unknown status values are ignored rather than rejected.
func BuildListQuery(db *gorm.DB, p Principal, f ListFilter) (*gorm.DB, *Error) {
	scope, rerr := ListScope(p, f)
	if rerr != nil {
		return nil, rerr
	}

	query := db.Model(&models.Appointment{})
	if scope.PatientID != "" {
		query = query.Where("patient_id = ?", scope.PatientID)
	}
	if scope.DoctorID != "" {
		query = query.Where("doctor_id = ?", scope.DoctorID)
	}

	if f.Status != "" {
		if status, ok := models.ParseAppointmentStatus(f.Status); ok {
			query = query.Where("status = ?", status)
		}
	}

	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		query = query.Where("appointment_date >= ? AND appointment_date < ?", day, day.AddDate(0, 0, 1))
	}

	return query.Order("appointment_date asc"), nil
}
