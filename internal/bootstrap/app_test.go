package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"idea-analyzer/internal/shared/config"
)

func TestBuildWithoutExternalServices(t *testing.T) {
	cfg := config.Config{
		Env:            config.EnvLocal,
		UploadDir:      t.TempDir(),
		ArtifactStore:  "local",
		HistoryLimit:   config.DefaultHistoryLimit,
		MaxUploadMB:    1,
		SessionTTL:     time.Hour,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}

	app, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(app.Close)

	if app.DB != nil || app.Redis != nil {
		t.Fatalf("expected in-memory catalog and sessions")
	}
	if app.Analyzer.Configured() {
		t.Fatalf("analyzer should be unconfigured without an api key")
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", resp.Code, resp.Body.String())
	}
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	cfg := config.Config{ArtifactStore: "s3", SessionTTL: time.Hour}
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for s3 store without bucket")
	}
}
