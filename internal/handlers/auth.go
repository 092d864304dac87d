package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/cache"
	"clinic-api-server/internal/config"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Cache *cache.Cache
	Log   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, c *cache.Cache, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Cache: c, Log: log}
}

// UserData is the identity payload returned on login and refresh.
type UserData struct {
	UserID       string `json:"userId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	RoleScopedID string `json:"roleSpecificId"`
	Message      string `json:"message,omitempty"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a token carrying the role and
// the role-scoped profile id.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	err := h.DB.Preload("Patient").Preload("Doctor").Preload("Clerk").
		First(&user, "email = ?", req.Email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			serverError(c, h.Log, err, "An error occurred during login")
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !user.IsActive {
		utils.Unauthorized(c, "Account is inactive")
		return
	}

	now := time.Now()
	if err := h.DB.Model(&user).Update("last_login_at", now).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred during login")
		return
	}

	roleScopedID := user.RoleScopedID()
	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, roleScopedID, h.Cfg)
	if err != nil {
		serverError(c, h.Log, err, "An error occurred during login")
		return
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred during login")
		return
	}

	utils.Success(c, UserData{
		UserID:       user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         string(user.Role),
		Token:        accessToken,
		RefreshToken: refreshTokenString,
		RoleScopedID: roleScopedID,
	})
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email          string     `json:"email" binding:"required,email"`
	Password       string     `json:"password" binding:"required,min=6"`
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName" binding:"required"`
	Phone          string     `json:"phone"`
	Role           string     `json:"role" binding:"required,oneof=Patient Doctor Clerk"`
	DateOfBirth    *time.Time `json:"dateOfBirth"`
	Specialization string     `json:"specialization"`
}

// Register creates an inactive user and its role profile. No token is
// issued; the account waits for clerk approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	role, _ := models.ParseRole(req.Role)

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred during registration")
		return
	}
	if count > 0 {
		utils.BadRequest(c, "EMAIL_EXISTS", "Email already registered")
		return
	}

	user := models.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
		IsActive:  false, // Requires clerk approval
	}
	if err := user.SetPassword(req.Password); err != nil {
		serverError(c, h.Log, err, "An error occurred during registration")
		return
	}

	var roleScopedID string
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		switch role {
		case models.RolePatient:
			patient := models.Patient{UserID: user.ID, DateOfBirth: req.DateOfBirth}
			if err := tx.Create(&patient).Error; err != nil {
				return err
			}
			roleScopedID = patient.ID
		case models.RoleDoctor:
			specialization := req.Specialization
			if specialization == "" {
				specialization = "General Practitioner"
			}
			doctor := models.Doctor{UserID: user.ID, Specialization: specialization}
			if err := tx.Create(&doctor).Error; err != nil {
				return err
			}
			roleScopedID = doctor.ID
		case models.RoleClerk:
			clerk := models.Clerk{UserID: user.ID}
			if err := tx.Create(&clerk).Error; err != nil {
				return err
			}
			roleScopedID = clerk.ID
		}
		return nil
	})
	if err != nil {
		serverError(c, h.Log, err, "An error occurred during registration")
		return
	}

	utils.Created(c, UserData{
		UserID:       user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Role:         string(user.Role),
		RoleScopedID: roleScopedID,
		Message:      "Account created successfully. Please wait for clerk approval.",
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken rotates the refresh token and issues a new access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	var storedToken models.RefreshToken
	err = h.DB.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
		req.RefreshToken, claims.UserID, false, time.Now()).First(&storedToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			serverError(c, h.Log, err, "An error occurred during token refresh")
		}
		return
	}

	var user models.User
	err = h.DB.Preload("Patient").Preload("Doctor").Preload("Clerk").
		First(&user, "id = ?", claims.UserID).Error
	if err != nil {
		serverError(c, h.Log, err, "An error occurred during token refresh")
		return
	}

	// Rotate: revoke the old token before issuing a new one.
	if err := h.DB.Model(&storedToken).Update("is_revoked", true).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred during token refresh")
		return
	}

	roleScopedID := user.RoleScopedID()
	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, roleScopedID, h.Cfg)
	if err != nil {
		serverError(c, h.Log, err, "An error occurred during token refresh")
		return
	}

	newToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&newToken).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred during token refresh")
		return
	}

	utils.Success(c, gin.H{
		"token":        accessToken,
		"refreshToken": refreshTokenString,
	})
}

// ForgotPasswordRequest represents the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

const resetCodePrefix = "reset_code:"

// ForgotPassword issues a reset code, stores it in Redis with a TTL
// and emails it. The response does not reveal whether the email is
// registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if h.Cache == nil {
		utils.InternalServerError(c, "Password reset is temporarily unavailable")
		return
	}

	genericResponse := gin.H{"message": "If the email is registered, a reset code has been sent"}

	var user models.User
	if err := h.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(c, genericResponse)
		} else {
			serverError(c, h.Log, err, "An error occurred while requesting password reset")
		}
		return
	}

	code, err := generateResetCode()
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while requesting password reset")
		return
	}

	ttl := time.Duration(h.Cfg.ResetCodeExpiryMinutes) * time.Minute
	if err := h.Cache.Set(c.Request.Context(), resetCodePrefix+req.Email, code, ttl); err != nil {
		serverError(c, h.Log, err, "An error occurred while requesting password reset")
		return
	}

	if err := utils.SendResetCodeEmail(h.Cfg, req.Email, code); err != nil {
		serverError(c, h.Log, err, "An error occurred while requesting password reset")
		return
	}

	utils.Success(c, genericResponse)
}

// ResetPasswordRequest represents the request body for completing a reset.
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// ResetPassword verifies the emailed code and sets the new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		utils.BadRequest(c, "PASSWORD_MISMATCH", "New passwords do not match")
		return
	}

	if h.Cache == nil {
		utils.InternalServerError(c, "Password reset is temporarily unavailable")
		return
	}

	storedCode, err := h.Cache.Get(c.Request.Context(), resetCodePrefix+req.Email)
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while resetting password")
		return
	}
	if storedCode == "" || storedCode != req.Code {
		utils.BadRequest(c, "INVALID_RESET_CODE", "Reset code is invalid or expired")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.BadRequest(c, "INVALID_RESET_CODE", "Reset code is invalid or expired")
		} else {
			serverError(c, h.Log, err, "An error occurred while resetting password")
		}
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		serverError(c, h.Log, err, "An error occurred while resetting password")
		return
	}
	if err := h.DB.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
		serverError(c, h.Log, err, "An error occurred while resetting password")
		return
	}

	if err := h.Cache.Delete(c.Request.Context(), resetCodePrefix+req.Email); err != nil {
		h.Log.Warn().Err(err).Msg("failed to delete used reset code")
	}

	utils.Success(c, gin.H{"message": "Password reset successfully"})
}

// Health reports liveness.
func (h *AuthHandler) Health(c *gin.Context) {
	utils.Success(c, gin.H{"status": "Healthy", "timestamp": time.Now().UTC()})
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
