package session

import "time"

// DefaultHistoryLimit is used when no positive cap is configured.
const DefaultHistoryLimit = 100

// HistoryEntry records one completed analysis. DriveLink is nil when nothing was published.
type HistoryEntry struct {
	FileName  string    `json:"filename"`
	DriveLink *string   `json:"drive_link"`
	CreatedAt time.Time `json:"created_at"`
}

// AppendBounded returns a new slice holding history plus entry, trimmed to the limit most
// recent entries in insertion order. history itself is never modified.
func AppendBounded(history []HistoryEntry, entry HistoryEntry, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	total := len(history) + 1
	start := 0
	if total > limit {
		start = total - limit
	}

	out := make([]HistoryEntry, 0, total-start)
	if start < len(history) {
		out = append(out, history[start:]...)
	}
	return append(out, entry)
}
