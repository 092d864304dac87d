package scheduling

import (
	"time"
)

// Clinic working hours for slot enumeration.
const (
	slotOpeningHour = 8
	slotClosingHour = 18
)

// TimeSlot is a fixed half-hour booking bucket for display.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySlots enumerates the 20 half-hour slots between 08:00 and 18:00
// on the target date. A slot is unavailable when a booked appointment
// starts at exactly that hour and minute. This is a display aid, not a
// reservation: booking still goes through the conflict check.
func DaySlots(date time.Time, booked []time.Time) []TimeSlot {
	slots := make([]TimeSlot, 0, (slotClosingHour-slotOpeningHour)*2)

	for hour := slotOpeningHour; hour < slotClosingHour; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			slotTime := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())

			isBooked := false
			for _, b := range booked {
				if b.Hour() == slotTime.Hour() && b.Minute() == slotTime.Minute() {
					isBooked = true
					break
				}
			}

			slots = append(slots, TimeSlot{
				Time:      slotTime.Format("15:04"),
				Available: !isBooked,
			})
		}
	}

	return slots
}
