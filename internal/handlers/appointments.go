package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/cache"
	"clinic-api-server/internal/middleware"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/scheduling"
	"clinic-api-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Log   zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, c *cache.Cache, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Cache: c, Log: log}
}

// AppointmentDTO is the appointment representation returned to clients,
// with display names resolved through explicit preloads.
type AppointmentDTO struct {
	ID                   string    `json:"id"`
	PatientID            string    `json:"patientId"`
	DoctorID             string    `json:"doctorId"`
	AppointmentDate      time.Time `json:"appointmentDate"`
	DurationMinutes      int       `json:"durationMinutes"`
	Reason               string    `json:"reason,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	DoctorNotes          string    `json:"doctorNotes,omitempty"`
	Status               string    `json:"status"`
	PatientName          string    `json:"patientName,omitempty"`
	DoctorName           string    `json:"doctorName,omitempty"`
	DoctorSpecialization string    `json:"doctorSpecialization,omitempty"`
}

func appointmentDTO(a *models.Appointment) AppointmentDTO {
	dto := AppointmentDTO{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AppointmentDate: a.AppointmentDate,
		DurationMinutes: a.DurationMinutes,
		Reason:          a.Reason,
		Notes:           a.Notes,
		DoctorNotes:     a.DoctorNotes,
		Status:          string(a.Status),
	}
	if a.Patient.User.ID != "" {
		dto.PatientName = a.Patient.User.FirstName + " " + a.Patient.User.LastName
	}
	if a.Doctor.User.ID != "" {
		dto.DoctorName = "Dr. " + a.Doctor.User.FirstName + " " + a.Doctor.User.LastName
		dto.DoctorSpecialization = a.Doctor.Specialization
	}
	return dto
}

func (h *AppointmentHandler) preloaded() *gorm.DB {
	return h.DB.Preload("Patient.User").Preload("Doctor.User")
}

// GetAppointments lists appointments visible to the caller. Patients
// and doctors see their own; clerks see all and may filter by doctor.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	filter := scheduling.ListFilter{
		Status:   c.Query("status"),
		DoctorID: c.Query("doctorId"),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseDate(dateStr)
		if err != nil {
			utils.BadRequest(c, "INVALID_DATE", "Invalid date format, expected YYYY-MM-DD")
			return
		}
		filter.Date = &date
	}
	if filter.DoctorID != "" {
		if _, err := uuid.Parse(filter.DoctorID); err != nil {
			// Unknown doctor filter values are ignored, like unknown statuses.
			filter.DoctorID = ""
		}
	}

	query, rerr := scheduling.BuildListQuery(h.preloaded(), principal, filter)
	if rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching appointments")
		return
	}

	dtoList := make([]AppointmentDTO, 0, len(appointments))
	for i := range appointments {
		dtoList = append(dtoList, appointmentDTO(&appointments[i]))
	}

	utils.Success(c, dtoList)
}

// GetAppointment fetches a single appointment, ownership-checked.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid appointment ID")
		return
	}

	var appointment models.Appointment
	if err := h.preloaded().First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "Appointment not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while fetching appointment")
		}
		return
	}

	if rerr := scheduling.CanViewAppointment(principal, &appointment); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	utils.Success(c, appointmentDTO(&appointment))
}

// GetAvailableSlots returns the 20 fixed half-hour slots for a doctor
// on a date with availability flags.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidDoctorID, "Invalid doctor ID")
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		utils.BadRequest(c, "INVALID_DATE", "Invalid date format, expected YYYY-MM-DD")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeDoctorNotFound, "Doctor not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while fetching available slots")
		}
		return
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var booked []time.Time
	err = h.DB.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctorID, models.StatusScheduled).
		Where("appointment_date >= ? AND appointment_date < ?", day, day.AddDate(0, 0, 1)).
		Pluck("appointment_date", &booked).Error
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching available slots")
		return
	}

	utils.Success(c, scheduling.DaySlots(day, booked))
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	PatientID       string    `json:"patientId" binding:"required,uuid"`
	DoctorID        string    `json:"doctorId" binding:"required,uuid"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes"`
}

// CreateAppointment books a new appointment. Patients book for
// themselves, clerks for anyone. The conflict check and the insert run
// inside one serializable transaction, with a short per-slot Redis
// lock in front of it.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if rerr := scheduling.CanCreateAppointment(principal, req.PatientID); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodePatientNotFound, "Patient not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while creating appointment")
		}
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeDoctorNotFound, "Doctor not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while creating appointment")
		}
		return
	}

	release, locked := h.lockSlot(c, req.DoctorID, req.AppointmentDate)
	if !locked {
		return
	}
	defer release()

	appointment := models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		DurationMinutes: 30,
		Status:          models.StatusScheduled,
		Reason:          req.Reason,
		Notes:           req.Notes,
		CreatedBy:       principal.UserID,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		conflict, err := scheduling.HasConflict(tx, req.DoctorID, req.AppointmentDate, "")
		if err != nil {
			return err
		}
		if conflict {
			return scheduling.SlotUnavailable()
		}
		return tx.Create(&appointment).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		var rerr *scheduling.Error
		if errors.As(err, &rerr) {
			utils.RuleError(c, rerr)
		} else {
			serverError(c, h.Log, err, "An error occurred while creating appointment")
		}
		return
	}

	if err := h.preloaded().First(&appointment, "id = ?", appointment.ID).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while creating appointment")
		return
	}

	utils.Created(c, appointmentDTO(&appointment))
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
}

// RescheduleAppointment moves an appointment to a new time. Terminal
// appointments cannot be rescheduled; the new slot is conflict-checked
// inside a serializable transaction.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid appointment ID")
		return
	}

	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.preloaded().First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "Appointment not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while rescheduling appointment")
		}
		return
	}

	if rerr := scheduling.CanReschedule(principal, &appointment); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}
	if rerr := scheduling.EnsureReschedulable(appointment.Status); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	release, locked := h.lockSlot(c, appointment.DoctorID, req.AppointmentDate)
	if !locked {
		return
	}
	defer release()

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		conflict, err := scheduling.HasConflict(tx, appointment.DoctorID, req.AppointmentDate, appointment.ID)
		if err != nil {
			return err
		}
		if conflict {
			return scheduling.SlotUnavailable()
		}
		appointment.AppointmentDate = req.AppointmentDate
		return tx.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).
			Update("appointment_date", req.AppointmentDate).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		var rerr *scheduling.Error
		if errors.As(err, &rerr) {
			utils.RuleError(c, rerr)
		} else {
			serverError(c, h.Log, err, "An error occurred while rescheduling appointment")
		}
		return
	}

	utils.Success(c, appointmentDTO(&appointment))
}

// UpdateAppointmentStatusRequest represents the request body for a status update.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAppointmentStatus sets an arbitrary status. Once authorization
// passes the overwrite is unconditional; this is the staff correction
// path and does not re-check terminality.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid appointment ID")
		return
	}

	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	status, ok := models.ParseAppointmentStatus(req.Status)
	if !ok {
		utils.BadRequest(c, scheduling.CodeInvalidStatus, "Invalid status value")
		return
	}

	var appointment models.Appointment
	if err := h.preloaded().First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "Appointment not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while updating appointment status")
		}
		return
	}

	if rerr := scheduling.CanSetStatus(principal, &appointment); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	appointment.Status = status
	if err := h.DB.Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Update("status", status).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while updating appointment status")
		return
	}

	utils.Success(c, appointmentDTO(&appointment))
}

// CompleteAppointmentRequest represents the request body for completion.
type CompleteAppointmentRequest struct {
	DoctorNotes string `json:"doctorNotes"`
}

// CompleteAppointment marks an appointment Completed and records the
// doctor's notes. Completing twice is idempotent: status stays
// Completed and the notes take the last call's value.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid appointment ID")
		return
	}

	var req CompleteAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.preloaded().First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "Appointment not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while completing appointment")
		}
		return
	}

	if rerr := scheduling.CanComplete(principal, &appointment); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	appointment.Status = models.StatusCompleted
	appointment.DoctorNotes = req.DoctorNotes
	if err := h.DB.Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"doctor_notes": req.DoctorNotes,
		}).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while completing appointment")
		return
	}

	utils.Success(c, appointmentDTO(&appointment))
}

// CancelAppointment cancels an appointment. Patients cancel their own,
// clerks any; terminal appointments are rejected.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid appointment ID")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "Appointment not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while cancelling appointment")
		}
		return
	}

	if rerr := scheduling.CanCancel(principal, &appointment); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}
	if rerr := scheduling.EnsureCancellable(appointment.Status); rerr != nil {
		utils.RuleError(c, rerr)
		return
	}

	now := time.Now()
	if err := h.DB.Model(&models.Appointment{}).
		Where("id = ?", appointment.ID).
		Updates(map[string]interface{}{
			"status":       models.StatusCancelled,
			"cancelled_at": now,
		}).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while cancelling appointment")
		return
	}

	utils.Success(c, gin.H{
		"message":       "Appointment cancelled successfully",
		"appointmentId": appointment.ID,
	})
}

// lockSlot takes a short Redis lock on the doctor/time pair so two
// in-flight bookings for the same slot serialize before the
// transaction. Returns a release func and whether the lock was taken;
// on failure the response has already been written.
func (h *AppointmentHandler) lockSlot(c *gin.Context, doctorID string, t time.Time) (func(), bool) {
	if h.Cache == nil {
		return func() {}, true
	}

	key := "booking_lock:" + doctorID + ":" + t.UTC().Format(time.RFC3339)
	owner := uuid.New().String()
	locked, err := h.Cache.AcquireLock(c.Request.Context(), key, owner, 10*time.Second)
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while booking the slot")
		return nil, false
	}
	if !locked {
		utils.RuleError(c, scheduling.SlotUnavailable())
		return nil, false
	}

	return func() {
		if err := h.Cache.ReleaseLock(c.Request.Context(), key, owner); err != nil {
			h.Log.Warn().Err(err).Msg("failed to release booking lock")
		}
	}, true
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
