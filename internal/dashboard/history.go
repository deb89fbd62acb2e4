package dashboard

import (
	"time"

	"airquality-monitor/internal/models"
)

// DefaultHistorySize is how many readings the dashboard keeps
const DefaultHistorySize = 500

// History holds the most recent readings, oldest first
type History struct {
	max     int
	entries []*models.DashboardEntry
}

// NewHistory creates a history keeping at most max entries
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Append adds entry unless it repeats the latest one (same values received
// within the same second). It reports whether the entry was kept.
func (h *History) Append(entry *models.DashboardEntry) bool {
	if last := h.Latest(); last != nil && isRepeat(last, entry) {
		return false
	}

	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.max:]...)
	}
	return true
}

// Latest returns the newest entry, or nil when empty
func (h *History) Latest() *models.DashboardEntry {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[len(h.entries)-1]
}

// Tail returns up to n newest entries, oldest first
func (h *History) Tail(n int) []*models.DashboardEntry {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]*models.DashboardEntry(nil), h.entries[len(h.entries)-n:]...)
}

// Len returns the number of entries held
func (h *History) Len() int {
	return len(h.entries)
}

func isRepeat(a, b *models.DashboardEntry) bool {
	return a.Telemetry.Equal(&b.Telemetry) &&
		a.ReceivedAt.Truncate(time.Second).Equal(b.ReceivedAt.Truncate(time.Second))
}
