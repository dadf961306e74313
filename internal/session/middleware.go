package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/telemetry"
)

const (
	CookieName = "idea_session"
	contextKey = "session"
)

// Manager loads the session named by the request cookie and persists it once the
// handler changes it.
type Manager struct {
	store  Store
	signer *auth.Signer
	ttl    time.Duration
	secure bool
}

// NewManager builds a Manager. secure marks the cookie Secure, for HTTPS deployments.
func NewManager(store Store, signer *auth.Signer, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, signer: signer, ttl: ttl, secure: secure}
}

type requestState struct {
	m       *Manager
	c       *gin.Context
	sess    *Session
	cleared bool
}

// Middleware attaches a session to every request.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := &requestState{m: m, c: c, sess: m.load(c)}
		c.Set(contextKey, st)
		c.Writer = &commitWriter{ResponseWriter: c.Writer, commit: st.commit}

		c.Next()

		st.commit()
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	cookie, err := c.Request.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}
	sid, err := m.signer.Verify(cookie.Value)
	if err != nil {
		telemetry.Debug("session.cookie_invalid", nil)
		return New()
	}
	sess, err := m.store.Load(c.Request.Context(), sid)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Error("session.load_failed", map[string]any{"err": err.Error()})
		}
		return New()
	}
	return sess
}

// commit persists a changed session and re-issues its cookie, so the cookie and the
// stored record expire together. It runs before the first byte of the response and
// again after the handler returns; once the body has started only the record is saved.
func (st *requestState) commit() {
	if st.cleared || st.sess == nil || !st.sess.dirty {
		return
	}
	sess := st.sess
	if err := st.m.store.Save(st.c.Request.Context(), sess, st.m.ttl); err != nil {
		telemetry.Error("session.save_failed", map[string]any{
			"session": sess.Hash(),
			"err":     err.Error(),
		})
		return
	}
	sess.dirty = false
	sess.isNew = false

	if st.c.Writer.Written() {
		return
	}
	token, err := st.m.signer.Sign(sess.ID)
	if err != nil {
		telemetry.Error("session.sign_failed", map[string]any{"err": err.Error()})
		return
	}
	http.SetCookie(st.c.Writer, st.m.cookie(token, int(st.m.ttl.Seconds())))
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(c *gin.Context) *Session {
	st := stateFrom(c)
	if st == nil || st.cleared {
		return nil
	}
	return st.sess
}

// Clear deletes the whole session (credentials and history) and expires the cookie.
func Clear(c *gin.Context) {
	st := stateFrom(c)
	if st == nil {
		return
	}
	if st.sess != nil && !st.sess.isNew {
		if err := st.m.store.Delete(c.Request.Context(), st.sess.ID); err != nil {
			telemetry.Error("session.delete_failed", map[string]any{"err": err.Error()})
		}
	}
	st.cleared = true
	http.SetCookie(c.Writer, st.m.cookie("", -1))
}

// Rotate moves the request's session to a fresh id and drops the record stored under
// the old one. The new cookie is issued when the response is written.
func Rotate(c *gin.Context) {
	st := stateFrom(c)
	if st == nil || st.cleared || st.sess == nil {
		return
	}
	if !st.sess.isNew {
		if err := st.m.store.Delete(c.Request.Context(), st.sess.ID); err != nil {
			telemetry.Error("session.delete_failed", map[string]any{"err": err.Error()})
		}
	}
	st.sess.ID = uuid.NewString()
	st.sess.isNew = true
	st.sess.dirty = true
}

func stateFrom(c *gin.Context) *requestState {
	if c == nil {
		return nil
	}
	val, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	st, _ := val.(*requestState)
	return st
}

type commitWriter struct {
	gin.ResponseWriter
	commit func()
}

func (w *commitWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *commitWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *commitWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}
