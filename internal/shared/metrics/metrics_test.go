package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAnalysisCountsOutcome(t *testing.T) {
	before := testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeFailed))
	ObserveAnalysis(OutcomeFailed, 150*time.Millisecond)
	after := testutil.ToFloat64(analysesTotal.WithLabelValues(OutcomeFailed))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ObservePublish(PublishSkipped)

	r := gin.New()
	r.Use(Middleware())
	r.GET("/metrics", Handler())
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{
		`ideas_drive_publish_total{outcome="skipped"}`,
		`ideas_http_requests_total{method="GET",path="/healthz",status="200"}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}
