package artifacts

import (
	"errors"
	"time"
)

// SourceText marks artifacts produced from typed idea text rather than an upload.
const SourceText = "text"

// ErrNotFound is returned when an artifact does not exist in the catalog.
var ErrNotFound = errors.New("artifact not found")

// Artifact is one persisted analysis.
type Artifact struct {
	ID          string
	SessionHash string
	FileName    string
	StorageKey  string
	Location    string
	SourceKind  string
	SizeBytes   int64
	SHA256      string
	DriveLink   *string
	CreatedAt   time.Time
}
