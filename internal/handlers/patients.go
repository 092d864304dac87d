package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/middleware"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/scheduling"
	"clinic-api-server/internal/utils"
)

// PatientHandler handles patient directory and record requests.
type PatientHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{DB: db, Log: log}
}

// PatientDTO is the patient record representation returned to staff and
// to the patient themselves.
type PatientDTO struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"userId"`
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone,omitempty"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Address               string     `json:"address,omitempty"`
	EmergencyContactName  string     `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string     `json:"emergencyContactPhone,omitempty"`
	RegistrationDate      time.Time  `json:"registrationDate"`
	IsActive              bool       `json:"isActive"`
}

func patientDTO(p *models.Patient) PatientDTO {
	return PatientDTO{
		ID:                    p.ID,
		UserID:                p.UserID,
		FirstName:             p.User.FirstName,
		LastName:              p.User.LastName,
		Email:                 p.User.Email,
		Phone:                 p.User.Phone,
		DateOfBirth:           p.DateOfBirth,
		Address:               p.Address,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		RegistrationDate:      p.RegistrationDate,
		IsActive:              p.User.IsActive,
	}
}

func (h *PatientHandler) findPatient(c *gin.Context, id string) (*models.Patient, bool) {
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid patient ID")
		return nil, false
	}

	var patient models.Patient
	err := h.DB.Preload("User").First(&patient, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodePatientNotFound, "Patient not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while fetching patient")
		}
		return nil, false
	}
	return &patient, true
}

// canAccessPatient reports whether the principal may read the given
// patient record: staff may read any, a patient only their own.
func canAccessPatient(p scheduling.Principal, patientID string) bool {
	switch p.Role {
	case models.RoleDoctor, models.RoleClerk:
		return true
	case models.RolePatient:
		return p.RoleScopedID != "" && p.RoleScopedID == patientID
	}
	return false
}

// GetPatients lists patients, optionally filtered by a name or email
// search term. Staff only.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	query := h.DB.Preload("User").Joins("JOIN users ON users.id = patients.user_id")

	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where(
			"users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ?",
			term, term, term,
		)
	}

	var patients []models.Patient
	if err := query.Order("users.last_name asc, users.first_name asc").Find(&patients).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching patients")
		return
	}

	dtoList := make([]PatientDTO, 0, len(patients))
	for i := range patients {
		dtoList = append(dtoList, patientDTO(&patients[i]))
	}

	utils.Success(c, dtoList)
}

// GetPatient returns a single patient record. Staff may fetch any
// patient; a patient may only fetch their own record.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if !canAccessPatient(principal, patient.ID) {
		utils.Forbidden(c)
		return
	}

	utils.Success(c, patientDTO(patient))
}

// CreatePatientRequest represents the request body for clerk-created
// patient records.
type CreatePatientRequest struct {
	Email                 string     `json:"email" binding:"required,email"`
	Password              string     `json:"password" binding:"required,min=6"`
	FirstName             string     `json:"firstName" binding:"required"`
	LastName              string     `json:"lastName" binding:"required"`
	Phone                 string     `json:"phone"`
	DateOfBirth           *time.Time `json:"dateOfBirth"`
	Address               string     `json:"address"`
	EmergencyContactName  string     `json:"emergencyContactName"`
	EmergencyContactPhone string     `json:"emergencyContactPhone"`
}

// CreatePatient registers a patient directly, already active, skipping
// the approval queue. Clerk only.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.BadRequest(c, "EMAIL_EXISTS", "A user with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, h.Log, err, "An error occurred while creating patient")
		return
	}

	user := models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RolePatient,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		serverError(c, h.Log, err, "An error occurred while creating patient")
		return
	}

	patient := models.Patient{
		DateOfBirth:           req.DateOfBirth,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		patient.UserID = user.ID
		return tx.Create(&patient).Error
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while creating patient")
		return
	}

	patient.User = user
	utils.Created(c, patientDTO(&patient))
}

// UpdatePatientRequest represents the request body for patient record
// updates.
type UpdatePatientRequest struct {
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Phone                 *string    `json:"phone"`
	DateOfBirth           *time.Time `json:"dateOfBirth"`
	Address               *string    `json:"address"`
	EmergencyContactName  *string    `json:"emergencyContactName"`
	EmergencyContactPhone *string    `json:"emergencyContactPhone"`
}

// UpdatePatient updates a patient record. Staff may update any patient;
// a patient may only update their own record.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	var req UpdatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if !canAccessPatient(principal, patient.ID) {
		utils.Forbidden(c)
		return
	}

	if req.FirstName != "" {
		patient.User.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.User.LastName = req.LastName
	}
	if req.Phone != nil {
		patient.User.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContactName != nil {
		patient.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		patient.EmergencyContactPhone = *req.EmergencyContactPhone
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&patient.User).Error; err != nil {
			return err
		}
		return tx.Save(patient).Error
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while updating patient")
		return
	}

	utils.Success(c, patientDTO(patient))
}

// DeactivatePatient marks a patient's account inactive without removing
// their records. Clerk only.
func (h *PatientHandler) DeactivatePatient(c *gin.Context) {
	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.DB.Model(&patient.User).Update("is_active", false).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while deactivating patient")
		return
	}

	utils.Success(c, gin.H{
		"message":   "Patient deactivated successfully",
		"patientId": patient.ID,
	})
}

// GetPatientNotes returns the clinical notes on a patient record.
// Doctors and clerks only; never visible to the patient.
func (h *PatientHandler) GetPatientNotes(c *gin.Context) {
	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	utils.Success(c, gin.H{
		"patientId": patient.ID,
		"notes":     patient.DoctorNotes,
	})
}

// UpdatePatientNotesRequest represents the request body for note updates.
type UpdatePatientNotesRequest struct {
	Notes string `json:"notes"`
}

// UpdatePatientNotes replaces the clinical notes on a patient record.
// Doctors and clerks only.
func (h *PatientHandler) UpdatePatientNotes(c *gin.Context) {
	var req UpdatePatientNotesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.DB.Model(patient).Update("doctor_notes", req.Notes).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while updating patient notes")
		return
	}

	utils.Success(c, gin.H{
		"patientId": patient.ID,
		"notes":     req.Notes,
	})
}

// MedicalHistoryEntryDTO is one completed visit in a patient's history.
type MedicalHistoryEntryDTO struct {
	AppointmentID        string    `json:"appointmentId"`
	AppointmentDate      time.Time `json:"appointmentDate"`
	DoctorName           string    `json:"doctorName"`
	DoctorSpecialization string    `json:"doctorSpecialization"`
	Reason               string    `json:"reason,omitempty"`
	DoctorNotes          string    `json:"doctorNotes,omitempty"`
}

// GetMedicalHistory returns a patient's completed appointments, most
// recent first. Staff may view any patient; a patient only their own.
func (h *PatientHandler) GetMedicalHistory(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	patient, ok := h.findPatient(c, c.Param("id"))
	if !ok {
		return
	}

	if !canAccessPatient(principal, patient.ID) {
		utils.Forbidden(c)
		return
	}

	var appointments []models.Appointment
	err := h.DB.Preload("Doctor.User").
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusCompleted).
		Order("appointment_date desc").
		Find(&appointments).Error
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching medical history")
		return
	}

	history := make([]MedicalHistoryEntryDTO, 0, len(appointments))
	for _, appt := range appointments {
		history = append(history, MedicalHistoryEntryDTO{
			AppointmentID:        appt.ID,
			AppointmentDate:      appt.AppointmentDate,
			DoctorName:           "Dr. " + appt.Doctor.User.FirstName + " " + appt.Doctor.User.LastName,
			DoctorSpecialization: appt.Doctor.Specialization,
			Reason:               appt.Reason,
			DoctorNotes:          appt.DoctorNotes,
		})
	}

	utils.Success(c, history)
}
