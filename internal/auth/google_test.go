package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"idea-analyzer/internal/session"
	sharedauth "idea-analyzer/internal/shared/auth"
)

type harness struct {
	router *gin.Engine
	store  *session.MemoryStore
	signer *sharedauth.Signer
	svc    *GoogleService
	seen   *session.Session
}

func newHarness(t *testing.T, opts GoogleOptions) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := sharedauth.NewSigner("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	h := &harness{store: session.NewMemoryStore(), signer: signer}
	h.svc = NewGoogleService(opts)
	h.svc.endpoint = oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: "https://accounts.example.com/token"}

	r := gin.New()
	r.Use(session.NewManager(h.store, signer, time.Hour, false).Middleware())
	h.svc.RegisterRoutes(r)
	r.GET("/whoami", func(c *gin.Context) {
		h.seen = session.FromContext(c)
		c.String(http.StatusOK, "ok")
	})
	h.router = r
	return h
}

func (h *harness) do(t *testing.T, target string, cookie *http.Cookie, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = "ideas.local:10000"
	for k, v := range header {
		req.Header[k] = v
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp := httptest.NewRecorder()
	h.router.ServeHTTP(resp, req)
	return resp
}

func cookieFrom(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

var testOpts = GoogleOptions{ClientID: "client", ClientSecret: "secret", PreferredScheme: "http"}

func TestLoginRedirectsWithStateAndOfflineAccess(t *testing.T) {
	h := newHarness(t, testOpts)

	resp := h.do(t, LoginPath, nil, nil)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	q := loc.Query()
	if q.Get("state") == "" {
		t.Fatal("expected state parameter")
	}
	if q.Get("access_type") != "offline" || q.Get("prompt") != "consent" || q.Get("include_granted_scopes") != "true" {
		t.Fatalf("unexpected auth params: %v", q)
	}
	if q.Get("scope") != sharedauth.DriveFileScope {
		t.Fatalf("unexpected scope: %q", q.Get("scope"))
	}
	if q.Get("redirect_uri") != "http://ideas.local:10000/oauth2callback" {
		t.Fatalf("unexpected redirect_uri: %q", q.Get("redirect_uri"))
	}

	cookie := cookieFrom(resp)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	h.do(t, "/whoami", cookie, nil)
	if h.seen == nil || h.seen.State != q.Get("state") {
		t.Fatalf("expected pending state stored in session")
	}
}

func TestRedirectURLPrefersPublicBaseURLThenForwardedProto(t *testing.T) {
	h := newHarness(t, GoogleOptions{ClientID: "c", ClientSecret: "s", PublicBaseURL: "https://ideas.example.com/"})
	resp := h.do(t, LoginPath, nil, nil)
	loc, _ := url.Parse(resp.Header().Get("Location"))
	if got := loc.Query().Get("redirect_uri"); got != "https://ideas.example.com/oauth2callback" {
		t.Fatalf("unexpected redirect_uri %q", got)
	}

	h = newHarness(t, testOpts)
	resp = h.do(t, LoginPath, nil, http.Header{"X-Forwarded-Proto": {"https"}})
	loc, _ = url.Parse(resp.Header().Get("Location"))
	if got := loc.Query().Get("redirect_uri"); got != "https://ideas.local:10000/oauth2callback" {
		t.Fatalf("unexpected redirect_uri %q", got)
	}
}

func TestLoginNotConfigured(t *testing.T) {
	h := newHarness(t, GoogleOptions{})
	resp := h.do(t, LoginPath, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestCallbackWithoutStateRedirectsToLogin(t *testing.T) {
	h := newHarness(t, testOpts)
	h.svc.exchange = func(context.Context, *oauth2.Config, string) (*oauth2.Token, error) {
		t.Fatal("exchange must not be called")
		return nil, nil
	}

	resp := h.do(t, CallbackPath+"?state=abc&code=xyz", nil, nil)
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to /login, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
}

func loginCookieAndState(t *testing.T, h *harness) (*http.Cookie, string) {
	t.Helper()
	resp := h.do(t, LoginPath, nil, nil)
	loc, _ := url.Parse(resp.Header().Get("Location"))
	return cookieFrom(resp), loc.Query().Get("state")
}

func TestCallbackStoresCredentials(t *testing.T) {
	h := newHarness(t, testOpts)
	var gotRedirect string
	h.svc.exchange = func(_ context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
		if code != "the-code" {
			t.Fatalf("unexpected code %q", code)
		}
		gotRedirect = cfg.RedirectURL
		return &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}, nil
	}

	cookie, state := loginCookieAndState(t, h)
	resp := h.do(t, CallbackPath+"?state="+state+"&code=the-code", cookie, nil)
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", resp.Code, resp.Header().Get("Location"))
	}
	if gotRedirect != "http://ideas.local:10000/oauth2callback" {
		t.Fatalf("unexpected redirect url %q", gotRedirect)
	}

	fresh := cookieFrom(resp)
	if fresh == nil || fresh.Value == cookie.Value {
		t.Fatal("expected a new session cookie after login")
	}
	h.do(t, "/whoami", cookie, nil)
	if h.seen.Authenticated() {
		t.Fatal("the pre-login cookie must not carry the credentials")
	}

	h.do(t, "/whoami", fresh, nil)
	if !h.seen.Authenticated() {
		t.Fatal("expected credentials stored")
	}
	if h.seen.State != "" {
		t.Fatal("expected pending state cleared")
	}
	if h.seen.Credentials.ClientID != "client" || h.seen.Credentials.TokenURI != "https://accounts.example.com/token" {
		t.Fatalf("unexpected credentials %+v", h.seen.Credentials)
	}
}

func TestCallbackFailuresRestartLogin(t *testing.T) {
	cases := map[string]struct {
		query    func(state string) string
		exchange exchangeFunc
	}{
		"state mismatch": {
			query: func(string) string { return "?state=other&code=c" },
		},
		"provider error": {
			query: func(state string) string { return "?state=" + state + "&error=access_denied" },
		},
		"missing code": {
			query: func(state string) string { return "?state=" + state },
		},
		"exchange failure": {
			query: func(state string) string { return "?state=" + state + "&code=c" },
			exchange: func(context.Context, *oauth2.Config, string) (*oauth2.Token, error) {
				return nil, errors.New("invalid_grant")
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, testOpts)
			if tc.exchange != nil {
				h.svc.exchange = tc.exchange
			}
			cookie, state := loginCookieAndState(t, h)
			resp := h.do(t, CallbackPath+tc.query(state), cookie, nil)
			if resp.Code != http.StatusFound || resp.Header().Get("Location") != LoginPath {
				t.Fatalf("expected redirect to /login, got %d %q", resp.Code, resp.Header().Get("Location"))
			}
			h.do(t, "/whoami", cookie, nil)
			if h.seen.Authenticated() {
				t.Fatal("credentials must not be stored")
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, testOpts)
	h.svc.exchange = func(context.Context, *oauth2.Config, string) (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: "access"}, nil
	}
	loginCookie, state := loginCookieAndState(t, h)
	cookie := cookieFrom(h.do(t, CallbackPath+"?state="+state+"&code=c", loginCookie, nil))
	h.do(t, "/whoami", cookie, nil)
	if !h.seen.Authenticated() {
		t.Fatal("expected an authenticated session before logout")
	}

	resp := h.do(t, LogoutPath, cookie, nil)
	if resp.Code != http.StatusFound || resp.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to /login, got %d", resp.Code)
	}

	h.do(t, "/whoami", cookie, nil)
	if h.seen.Authenticated() || len(h.seen.History) != 0 {
		t.Fatal("expected an empty session after logout")
	}
}
