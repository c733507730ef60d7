package sequencer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatID(t *testing.T) {
	tests := []struct {
		date time.Time
		seq  int
		want string
	}{
		{time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC), 1, "050326001"},
		{time.Date(2026, 3, 5, 23, 59, 0, 0, time.UTC), 42, "050326042"},
		{time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), 999, "311226999"},
		{time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), 7, "010130007"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatID(tt.date, tt.seq))
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 3, 5, 14, 30, 12, 0, time.UTC)
	start, end := DayBounds(at)

	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), end)

	// Two timestamps on the same day share bounds, midnight belongs to
	// the new day.
	s2, _ := DayBounds(time.Date(2026, 3, 5, 0, 0, 0, 1, time.UTC))
	assert.Equal(t, start, s2)
	s3, _ := DayBounds(end)
	assert.Equal(t, end, s3)
}
