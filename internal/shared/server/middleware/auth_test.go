package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/session"
	sharedauth "idea-analyzer/internal/shared/auth"
)

func newGateRouter(t *testing.T) (*gin.Engine, *session.MemoryStore, *sharedauth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := sharedauth.NewSigner("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	store := session.NewMemoryStore()
	mgr := session.NewManager(store, signer, time.Hour, false)

	r := gin.New()
	r.Use(mgr.Middleware(), RequireLogin("/login", PublicPaths...))
	for _, p := range []string{"/", "/login", "/oauth2callback", "/logout", "/healthz", "/metrics", "/static/app.css", "/other"} {
		r.GET(p, func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	}
	return r, store, signer
}

func TestRequireLoginRedirectsAnonymous(t *testing.T) {
	r, _, _ := newGateRouter(t)

	for _, path := range []string{"/", "/other"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusFound || resp.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %q", path, resp.Code, resp.Header().Get("Location"))
		}
	}
}

func TestRequireLoginAllowsPublicPaths(t *testing.T) {
	r, _, _ := newGateRouter(t)

	for _, path := range []string{"/login", "/oauth2callback", "/logout", "/healthz", "/metrics", "/static/app.css"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestRequireLoginAllowsAuthenticatedSession(t *testing.T) {
	r, store, signer := newGateRouter(t)

	sess := session.New()
	sess.SetCredentials(&sharedauth.Credentials{Token: "t", TokenURI: "u", ClientID: "c", Scopes: []string{sharedauth.DriveFileScope}})
	if err := store.Save(t.Context(), sess, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err := signer.Sign(sess.ID)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
