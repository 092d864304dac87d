package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/models"
	"clinic-api-server/internal/scheduling"
	"clinic-api-server/internal/utils"
)

// DoctorHandler handles doctor directory requests.
type DoctorHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{DB: db, Log: log}
}

// DoctorDTO is the doctor directory entry returned to all
// authenticated users.
type DoctorDTO struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Specialization    string    `json:"specialization"`
	LicenseNumber     string    `json:"licenseNumber,omitempty"`
	YearsOfExperience *int      `json:"yearsOfExperience,omitempty"`
	JoinedDate        time.Time `json:"joinedDate"`
	IsActive          bool      `json:"isActive"`
}

func doctorDTO(d *models.Doctor) DoctorDTO {
	return DoctorDTO{
		ID:                d.ID,
		UserID:            d.UserID,
		FirstName:         d.User.FirstName,
		LastName:          d.User.LastName,
		Email:             d.User.Email,
		Specialization:    d.Specialization,
		LicenseNumber:     d.LicenseNumber,
		YearsOfExperience: d.YearsOfExperience,
		JoinedDate:        d.JoinedDate,
		IsActive:          d.User.IsActive,
	}
}

// GetDoctors lists active doctors, optionally filtered by
// specialization. Available to all authenticated users so patients can
// pick a doctor when booking.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	query := h.DB.Preload("User").
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("users.is_active = ?", true)

	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("doctors.specialization LIKE ?", "%"+spec+"%")
	}

	var doctors []models.Doctor
	if err := query.Order("users.last_name asc, users.first_name asc").Find(&doctors).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching doctors")
		return
	}

	dtoList := make([]DoctorDTO, 0, len(doctors))
	for i := range doctors {
		dtoList = append(dtoList, doctorDTO(&doctors[i]))
	}

	utils.Success(c, dtoList)
}

// GetDoctor returns a single doctor directory entry.
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid doctor ID")
		return
	}

	var doctor models.Doctor
	err := h.DB.Preload("User").First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeDoctorNotFound, "Doctor not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while fetching doctor")
		}
		return
	}

	utils.Success(c, doctorDTO(&doctor))
}

// CreateDoctorRequest represents the request body for clerk-created
// doctor accounts.
type CreateDoctorRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	FirstName         string `json:"firstName" binding:"required"`
	LastName          string `json:"lastName" binding:"required"`
	Phone             string `json:"phone"`
	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"licenseNumber"`
	YearsOfExperience *int   `json:"yearsOfExperience"`
}

// CreateDoctor registers a doctor account directly, already active.
// Clerk only.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.BadRequest(c, "EMAIL_EXISTS", "A user with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		serverError(c, h.Log, err, "An error occurred while creating doctor")
		return
	}

	user := models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.RoleDoctor,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		serverError(c, h.Log, err, "An error occurred while creating doctor")
		return
	}

	specialization := req.Specialization
	if specialization == "" {
		specialization = "General Practitioner"
	}
	doctor := models.Doctor{
		Specialization:    specialization,
		LicenseNumber:     req.LicenseNumber,
		YearsOfExperience: req.YearsOfExperience,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		return tx.Create(&doctor).Error
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while creating doctor")
		return
	}

	doctor.User = user
	utils.Created(c, doctorDTO(&doctor))
}

// UpdateDoctorRequest represents the request body for doctor profile
// updates.
type UpdateDoctorRequest struct {
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Phone             *string `json:"phone"`
	Specialization    *string `json:"specialization"`
	LicenseNumber     *string `json:"licenseNumber"`
	YearsOfExperience *int    `json:"yearsOfExperience"`
}

// UpdateDoctor updates a doctor's directory entry. Clerk only.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid doctor ID")
		return
	}

	var doctor models.Doctor
	err := h.DB.Preload("User").First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeDoctorNotFound, "Doctor not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while updating doctor")
		}
		return
	}

	if req.FirstName != "" {
		doctor.User.FirstName = req.FirstName
	}
	if req.LastName != "" {
		doctor.User.LastName = req.LastName
	}
	if req.Phone != nil {
		doctor.User.Phone = *req.Phone
	}
	if req.Specialization != nil && *req.Specialization != "" {
		doctor.Specialization = *req.Specialization
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = req.YearsOfExperience
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&doctor.User).Error; err != nil {
			return err
		}
		return tx.Save(&doctor).Error
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while updating doctor")
		return
	}

	utils.Success(c, doctorDTO(&doctor))
}
