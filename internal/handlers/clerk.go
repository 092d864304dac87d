package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clinic-api-server/internal/cache"
	"clinic-api-server/internal/models"
	"clinic-api-server/internal/utils"
)

const (
	dashboardCacheKey = "clerk:dashboard"
	dashboardCacheTTL = 30 * time.Second
)

// ClerkHandler serves the clerk dashboard.
type ClerkHandler struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Log   zerolog.Logger
}

// NewClerkHandler creates a new ClerkHandler.
func NewClerkHandler(db *gorm.DB, cache *cache.Cache, log zerolog.Logger) *ClerkHandler {
	return &ClerkHandler{DB: db, Cache: cache, Log: log}
}

// DashboardStats aggregates the counters shown on the clerk dashboard.
type DashboardStats struct {
	TotalPatients         int64 `json:"totalPatients"`
	TotalDoctors          int64 `json:"totalDoctors"`
	PendingApprovals      int64 `json:"pendingApprovals"`
	TodaysAppointments    int64 `json:"todaysAppointments"`
	ScheduledAppointments int64 `json:"scheduledAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	CancelledAppointments int64 `json:"cancelledAppointments"`
}

// GetDashboard returns clinic-wide counters. Results are cached briefly
// since the dashboard is polled and the counts tolerate slight staleness.
func (h *ClerkHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				utils.Success(c, stats)
				return
			}
		}
	}

	var stats DashboardStats

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalPatients, h.DB.Model(&models.Patient{})},
		{&stats.TotalDoctors, h.DB.Model(&models.Doctor{})},
		{&stats.PendingApprovals, h.DB.Model(&models.User{}).Where("is_active = ?", false)},
		{&stats.ScheduledAppointments, h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusScheduled)},
		{&stats.CompletedAppointments, h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusCompleted)},
		{&stats.CancelledAppointments, h.DB.Model(&models.Appointment{}).Where("status = ?", models.StatusCancelled)},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dest).Error; err != nil {
			serverError(c, h.Log, err, "An error occurred while fetching dashboard stats")
			return
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	err := h.DB.Model(&models.Appointment{}).
		Where("appointment_date >= ? AND appointment_date < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&stats.TodaysAppointments).Error
	if err != nil {
		serverError(c, h.Log, err, "An error occurred while fetching dashboard stats")
		return
	}

	if h.Cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := h.Cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL); err != nil {
				h.Log.Warn().Err(err).Msg("failed to cache dashboard stats")
			}
		}
	}

	utils.Success(c, stats)
}
