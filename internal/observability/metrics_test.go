package observability_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rendis/tourplan/internal/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	observability.ObserveExternal("/api/health", 200, 12*time.Millisecond)
	observability.ObserveGeneration("success", time.Second)
	observability.ObserveExport("text", nil)
	observability.ObserveExport("share", errors.New("boom"))
	observability.ObserveHandoff("sqlite", "save")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"tourplan_external_requests_total",
		"tourplan_generations_total",
		`tourplan_exports_total{kind="share",outcome="failure"}`,
		"tourplan_handoff_events_total",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %s in output", name)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := observability.WithLevel(observability.NewLogger("prod", &buf), "warn")
	l.Info().Msg("hidden")
	l.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %q", buf.String())
	}
}
