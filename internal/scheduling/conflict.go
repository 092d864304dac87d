package scheduling

import (
	"time"

	"gorm.io/gorm"

	"clinic-api-server/internal/models"
)

// SlotDuration is the fixed booking window used for conflict checks
// and slot enumeration. Appointments store their own DurationMinutes,
// but the conflict window is always 30 minutes.
const SlotDuration = 30 * time.Minute

// Overlaps reports whether two fixed-width booking windows starting at
// the given times overlap (half-open interval test).
func Overlaps(existingStart, candidateStart time.Time) bool {
	return existingStart.Before(candidateStart.Add(SlotDuration)) &&
		existingStart.Add(SlotDuration).After(candidateStart)
}

// HasConflict reports whether a Scheduled appointment for the doctor
// overlaps the candidate window. excludeID skips the appointment being
// rescheduled; pass an empty string on creation.
//
// Run inside the same transaction as the insert/update so the check
// and the write are serialized.
func HasConflict(tx *gorm.DB, doctorID string, candidate time.Time, excludeID string) (bool, error) {
	query := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctorID, models.StatusScheduled).
		Where("appointment_date > ? AND appointment_date < ?",
			candidate.Add(-SlotDuration), candidate.Add(SlotDuration))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
