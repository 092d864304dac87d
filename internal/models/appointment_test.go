package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppointmentStatus(t *testing.T) {
	tests := []struct {
		input string
		want  AppointmentStatus
		ok    bool
	}{
		{"Scheduled", StatusScheduled, true},
		{"scheduled", StatusScheduled, true},
		{"COMPLETED", StatusCompleted, true},
		{"cancelled", StatusCancelled, true},
		{"noshow", StatusNoShow, true},
		{"NoShow", StatusNoShow, true},
		{"no-show", "", false},
		{"Pending", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAppointmentStatus(tt.input)
		require.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
