package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"idea-analyzer/internal/session"
	sharedauth "idea-analyzer/internal/shared/auth"
	"idea-analyzer/internal/shared/server/respond"
	"idea-analyzer/internal/shared/telemetry"
)

const (
	LoginPath    = "/login"
	CallbackPath = "/oauth2callback"
	LogoutPath   = "/logout"
	homePath     = "/"
)

type exchangeFunc func(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error)

func defaultExchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	return cfg.Exchange(ctx, code)
}

// GoogleOptions configures the Google OAuth flow.
type GoogleOptions struct {
	ClientID        string
	ClientSecret    string
	PublicBaseURL   string
	PreferredScheme string
}

// GoogleService handles the Google OAuth2 authorization-code flow for Drive access.
type GoogleService struct {
	opts     GoogleOptions
	endpoint oauth2.Endpoint
	exchange exchangeFunc
}

// NewGoogleService builds a GoogleService.
func NewGoogleService(opts GoogleOptions) *GoogleService {
	opts.PublicBaseURL = strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	if opts.PreferredScheme == "" {
		opts.PreferredScheme = "http"
	}
	return &GoogleService{opts: opts, endpoint: google.Endpoint, exchange: defaultExchange}
}

// RegisterRoutes attaches the login, callback and logout routes.
func (s *GoogleService) RegisterRoutes(r gin.IRoutes) {
	r.GET(LoginPath, s.login)
	r.GET(CallbackPath, s.callback)
	r.GET(LogoutPath, s.logout)
}

func (s *GoogleService) configured() bool {
	return s.opts.ClientID != "" && s.opts.ClientSecret != ""
}

func (s *GoogleService) oauthConfig(c *gin.Context) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.opts.ClientID,
		ClientSecret: s.opts.ClientSecret,
		RedirectURL:  s.redirectURL(c),
		Scopes:       []string{sharedauth.DriveFileScope},
		Endpoint:     s.endpoint,
	}
}

// redirectURL prefers the configured public base URL and otherwise rebuilds the
// callback URL from the request, trusting X-Forwarded-Proto from the proxy.
func (s *GoogleService) redirectURL(c *gin.Context) string {
	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + CallbackPath
	}
	scheme := s.opts.PreferredScheme
	if fwd := strings.TrimSpace(strings.Split(c.GetHeader("X-Forwarded-Proto"), ",")[0]); fwd == "http" || fwd == "https" {
		scheme = fwd
	}
	host := c.Request.Host
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-Host")); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host + CallbackPath
}

func (s *GoogleService) login(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}
	sess := session.FromContext(c)
	if sess == nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "session unavailable", nil)
		return
	}

	state := uuid.NewString()
	sess.SetState(state)

	url := s.oauthConfig(c).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	c.Redirect(http.StatusFound, url)
}

// callback completes the flow. Every failure restarts the login instead of showing an
// error page.
func (s *GoogleService) callback(c *gin.Context) {
	sess := session.FromContext(c)
	if sess == nil || sess.State == "" {
		telemetry.Warn("auth.callback_without_state", nil)
		c.Redirect(http.StatusFound, LoginPath)
		return
	}
	if providerErr := c.Query("error"); providerErr != "" {
		telemetry.Warn("auth.provider_error", map[string]any{"error": providerErr, "session": sess.Hash()})
		c.Redirect(http.StatusFound, LoginPath)
		return
	}
	if c.Query("state") != sess.State {
		telemetry.Warn("auth.state_mismatch", map[string]any{"session": sess.Hash()})
		c.Redirect(http.StatusFound, LoginPath)
		return
	}
	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	cfg := s.oauthConfig(c)
	tok, err := s.exchange(c.Request.Context(), cfg, code)
	if err != nil {
		telemetry.Error("auth.exchange_failed", map[string]any{"err": err.Error(), "session": sess.Hash()})
		c.Redirect(http.StatusFound, LoginPath)
		return
	}
	creds := sharedauth.CredentialsFromToken(cfg, tok)
	if err := creds.Validate(); err != nil {
		telemetry.Error("auth.credentials_invalid", map[string]any{"err": err.Error(), "session": sess.Hash()})
		c.Redirect(http.StatusFound, LoginPath)
		return
	}

	session.Rotate(c)
	sess.SetCredentials(creds)
	telemetry.Info("auth.login", map[string]any{"session": sess.Hash()})
	c.Redirect(http.StatusFound, homePath)
}

func (s *GoogleService) logout(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		telemetry.Info("auth.logout", map[string]any{"session": sess.Hash()})
	}
	session.Clear(c)
	c.Redirect(http.StatusFound, LoginPath)
}
