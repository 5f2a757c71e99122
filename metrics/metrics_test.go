package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCommand(t *testing.T) {
	r := New()
	r.ObserveCommand("mkdir", "ok")
	r.ObserveCommand("mkdir", "ok")
	r.ObserveCommand("mkdir", "already_exists")

	if got := testutil.ToFloat64(r.commandsTotal.WithLabelValues("mkdir", "ok")); got != 2 {
		t.Errorf("Expected 2 successful mkdirs, got %v", got)
	}
	if got := testutil.ToFloat64(r.commandsTotal.WithLabelValues("mkdir", "already_exists")); got != 1 {
		t.Errorf("Expected 1 failed mkdir, got %v", got)
	}
}

func TestSessionGauge(t *testing.T) {
	r := New()
	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()

	if got := testutil.ToFloat64(r.sessionsActive); got != 1 {
		t.Errorf("Expected 1 active session, got %v", got)
	}
	if got := testutil.ToFloat64(r.sessionsCreated); got != 2 {
		t.Errorf("Expected 2 created sessions, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveCommand("pwd", "ok")
	r.ObserveRequest("POST", "/api/sessions", 201, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`vfssim_commands_total{outcome="ok",verb="pwd"} 1`,
		`vfssim_http_requests_total{method="POST",path="/api/sessions",status="201"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecordersAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.ObserveCommand("ls", "ok")

	if got := testutil.ToFloat64(b.commandsTotal.WithLabelValues("ls", "ok")); got != 0 {
		t.Errorf("recorders should not share collectors, got %v", got)
	}
}
