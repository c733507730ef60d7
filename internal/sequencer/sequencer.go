// Package sequencer formats the date-scoped KOT identifiers. The counter
// itself is allocated atomically by the settlement transaction.
package sequencer

import (
	"fmt"
	"time"
)

// FormatID builds a KOT id: DDMMYY prefix plus a zero-padded 3-digit
// sequence within the day. Sequence 1 on 5 March 2026 is "050326001".
func FormatID(date time.Time, seq int) string {
	return fmt.Sprintf("%02d%02d%02d%03d", date.Day(), int(date.Month()), date.Year()%100, seq)
}

// DayBounds returns [startOfDay, startOfDay+24h) in the timestamp's
// location. The same boundary is used for storage queries so the counter
// and CountForDay never disagree.
func DayBounds(at time.Time) (start, end time.Time) {
	start = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	return start, start.AddDate(0, 0, 1)
}
