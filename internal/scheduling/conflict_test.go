package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.September, 1, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		existing  time.Time
		candidate time.Time
		want      bool
	}{
		{"same start", at(9, 0), at(9, 0), true},
		{"candidate 15 min into existing", at(9, 0), at(9, 15), true},
		{"candidate 15 min before existing", at(9, 15), at(9, 0), true},
		{"candidate 29 min after existing", at(9, 0), at(9, 29), true},
		{"adjacent slot after", at(9, 0), at(9, 30), false},
		{"adjacent slot before", at(9, 30), at(9, 0), false},
		{"well separated", at(9, 0), at(11, 0), false},
		{"one minute short of adjacent", at(9, 0), at(8, 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.existing, tt.candidate))
		})
	}
}

func TestOverlapsIsSymmetric(t *testing.T) {
	a := at(10, 0)
	for _, b := range []time.Time{at(9, 45), at(10, 10), at(10, 30), at(9, 30)} {
		assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "overlap must not depend on argument order")
	}
}
