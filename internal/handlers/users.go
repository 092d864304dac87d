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

// UserHandler handles profile and clerk user-management requests.
type UserHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB, log zerolog.Logger) *UserHandler {
	return &UserHandler{DB: db, Log: log}
}

// PatientInfoDTO carries patient-specific profile fields.
type PatientInfoDTO struct {
	PatientID             string     `json:"patientId"`
	DateOfBirth           *time.Time `json:"dateOfBirth,omitempty"`
	Address               string     `json:"address,omitempty"`
	EmergencyContactName  string     `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string     `json:"emergencyContactPhone,omitempty"`
}

// DoctorInfoDTO carries doctor-specific profile fields.
type DoctorInfoDTO struct {
	DoctorID          string `json:"doctorId"`
	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"licenseNumber,omitempty"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty"`
}

// UserProfileDTO is the current user's profile representation.
type UserProfileDTO struct {
	UserID       string          `json:"userId"`
	Email        string          `json:"email"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Phone        string          `json:"phone,omitempty"`
	Role         string          `json:"role"`
	RoleScopedID string          `json:"roleSpecificId,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastLoginAt  *time.Time      `json:"lastLoginAt,omitempty"`
	PatientInfo  *PatientInfoDTO `json:"patientInfo,omitempty"`
	DoctorInfo   *DoctorInfoDTO  `json:"doctorInfo,omitempty"`
}

func userProfileDTO(user *models.User) UserProfileDTO {
	dto := UserProfileDTO{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Role:         string(user.Role),
		RoleScopedID: user.RoleScopedID(),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		LastLoginAt:  user.LastLoginAt,
	}

	if user.Role == models.RolePatient && user.Patient != nil {
		dto.PatientInfo = &PatientInfoDTO{
			PatientID:             user.Patient.ID,
			DateOfBirth:           user.Patient.DateOfBirth,
			Address:               user.Patient.Address,
			EmergencyContactName:  user.Patient.EmergencyContactName,
			EmergencyContactPhone: user.Patient.EmergencyContactPhone,
		}
	} else if user.Role == models.RoleDoctor && user.Doctor != nil {
		dto.DoctorInfo = &DoctorInfoDTO{
			DoctorID:          user.Doctor.ID,
			Specialization:    user.Doctor.Specialization,
			LicenseNumber:     user.Doctor.LicenseNumber,
			YearsOfExperience: user.Doctor.YearsOfExperience,
		}
	}

	return dto
}

func (h *UserHandler) loadCurrentUser(c *gin.Context) (*models.User, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Forbidden(c)
		return nil, false
	}

	var user models.User
	err := h.DB.Preload("Patient").Preload("Doctor").Preload("Clerk").
		First(&user, "id = ?", principal.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "User not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while fetching profile")
		}
		return nil, false
	}
	return &user, true
}

// GetMyProfile returns the current user's profile with role-specific
// details.
func (h *UserHandler) GetMyProfile(c *gin.Context) {
	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}
	utils.Success(c, userProfileDTO(user))
}

// UpdateProfileRequest represents the request body for profile updates.
type UpdateProfileRequest struct {
	FirstName             string     `json:"firstName"`
	LastName              string     `json:"lastName"`
	Phone                 *string    `json:"phone"`
	DateOfBirth           *time.Time `json:"dateOfBirth"`
	Address               *string    `json:"address"`
	EmergencyContactName  *string    `json:"emergencyContactName"`
	EmergencyContactPhone *string    `json:"emergencyContactPhone"`
}

// UpdateMyProfile updates the current user's profile; patient-specific
// fields apply only to patients.
func (h *UserHandler) UpdateMyProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if user.Role == models.RolePatient && user.Patient != nil {
			if req.DateOfBirth != nil {
				user.Patient.DateOfBirth = req.DateOfBirth
			}
			if req.Address != nil {
				user.Patient.Address = *req.Address
			}
			if req.EmergencyContactName != nil {
				user.Patient.EmergencyContactName = *req.EmergencyContactName
			}
			if req.EmergencyContactPhone != nil {
				user.Patient.EmergencyContactPhone = *req.EmergencyContactPhone
			}
			return tx.Save(user.Patient).Error
		}
		return nil
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while updating profile")
		return
	}

	utils.Success(c, userProfileDTO(user))
}

// UpdatePasswordRequest represents the request body for password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// UpdateMyPassword changes the current user's password after verifying
// the existing one.
func (h *UserHandler) UpdateMyPassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, ok := h.loadCurrentUser(c)
	if !ok {
		return
	}

	if !user.CheckPassword(req.CurrentPassword) {
		utils.BadRequest(c, "INVALID_PASSWORD", "Current password is incorrect")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		utils.BadRequest(c, "PASSWORD_MISMATCH", "New passwords do not match")
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		serverError(c, h.Log, err, "An error occurred while updating password")
		return
	}
	if err := h.DB.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while updating password")
		return
	}

	utils.Success(c, gin.H{"message": "Password updated successfully"})
}

// PendingUserDTO is a registration awaiting clerk approval.
type PendingUserDTO struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetPendingUsers lists inactive registrations awaiting approval.
func (h *UserHandler) GetPendingUsers(c *gin.Context) {
	var pending []models.User
	err := h.DB.Where("is_active = ?", false).Order("created_at asc").Find(&pending).Error
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching pending users")
		return
	}

	dtoList := make([]PendingUserDTO, 0, len(pending))
	for _, u := range pending {
		dtoList = append(dtoList, PendingUserDTO{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}

	utils.Success(c, dtoList)
}

// ApproveUser activates a pending registration.
func (h *UserHandler) ApproveUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid user ID")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "User not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while approving user")
		}
		return
	}

	if user.IsActive {
		utils.BadRequest(c, "ALREADY_ACTIVE", "User is already active")
		return
	}

	if err := h.DB.Model(&user).Update("is_active", true).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while approving user")
		return
	}

	utils.Success(c, gin.H{
		"message": "User approved successfully",
		"userId":  user.ID,
	})
}

// RejectUser removes a pending registration and its role profile.
func (h *UserHandler) RejectUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.BadRequest(c, scheduling.CodeInvalidID, "Invalid user ID")
		return
	}

	var user models.User
	err := h.DB.Preload("Patient").Preload("Doctor").Preload("Clerk").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, scheduling.CodeNotFound, "User not found")
		} else {
			serverError(c, h.Log, err, "An error occurred while rejecting user")
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if user.Patient != nil {
			if err := tx.Delete(user.Patient).Error; err != nil {
				return err
			}
		} else if user.Doctor != nil {
			if err := tx.Delete(user.Doctor).Error; err != nil {
				return err
			}
		} else if user.Clerk != nil {
			if err := tx.Delete(user.Clerk).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while rejecting user")
		return
	}

	utils.Success(c, gin.H{
		"message": "User rejected successfully",
		"userId":  id,
	})
}
