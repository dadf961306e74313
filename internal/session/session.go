package session

import (
	"time"

	"github.com/google/uuid"

	"idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/util"
)

// Session is the per-browser state threaded through a request.
type Session struct {
	ID          string            `json:"id"`
	State       string            `json:"state,omitempty"`
	Credentials *auth.Credentials `json:"credentials,omitempty"`
	History     []HistoryEntry    `json:"history,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	dirty bool
	isNew bool
}

// New returns an empty session. It is only persisted once something is stored in it.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		isNew:     true,
	}
}

// Hash is a stable, non-reversible identifier for logs and storage namespaces.
func (s *Session) Hash() string {
	return util.ShortHash(s.ID)
}

// Authenticated reports whether the session holds a credential set.
func (s *Session) Authenticated() bool {
	return s != nil && s.Credentials != nil
}

// SetState records a pending OAuth state token.
func (s *Session) SetState(state string) {
	s.State = state
	s.dirty = true
}

// SetCredentials stores creds and clears the pending OAuth state.
func (s *Session) SetCredentials(creds *auth.Credentials) {
	s.Credentials = creds
	s.State = ""
	s.dirty = true
}

// AddHistory appends entry, keeping at most limit entries.
func (s *Session) AddHistory(entry HistoryEntry, limit int) {
	s.History = AppendBounded(s.History, entry, limit)
	s.dirty = true
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool {
	return s.dirty
}
