package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
)

func TestCollectorCountsEvents(t *testing.T) {
	c := New()

	c.SessionStarted("alice")
	c.BubblePopped(bubble.TierGreen, 5, false)
	c.BubblePopped(bubble.TierGreen, 7, true)
	c.BubblePopped(bubble.TierRed, 1, false)
	c.BubblesCulled(3)

	if got := testutil.ToFloat64(c.active); got != 1 {
		t.Errorf("active = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(c.pops.WithLabelValues("green")); got != 2 {
		t.Errorf("green pops = %v, expected 2", got)
	}
	if got := testutil.ToFloat64(c.points); got != 13 {
		t.Errorf("points = %v, expected 13", got)
	}
	if got := testutil.ToFloat64(c.bonuses); got != 1 {
		t.Errorf("bonuses = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(c.culled); got != 3 {
		t.Errorf("culled = %v, expected 3", got)
	}

	c.SessionEnded(bubble.Result{Score: 13, Reason: bubble.EndTimeout, Started: true, Saved: true, Duration: time.Minute})
	if got := testutil.ToFloat64(c.active); got != 0 {
		t.Errorf("active after end = %v, expected 0", got)
	}
	if got := testutil.ToFloat64(c.sessions.WithLabelValues("timeout")); got != 1 {
		t.Errorf("timeout sessions = %v, expected 1", got)
	}
}

func TestCollectorCountdownAbort(t *testing.T) {
	c := New()

	c.SessionEnded(bubble.Result{Reason: bubble.EndAborted, Saved: false})
	if got := testutil.ToFloat64(c.active); got != 0 {
		t.Errorf("active = %v, expected 0 for a session that never started", got)
	}
	if got := testutil.ToFloat64(c.unsaved); got != 1 {
		t.Errorf("unsaved = %v, expected 1", got)
	}
}

func TestCollectorHandler(t *testing.T) {
	c := New()
	c.BubblePopped(bubble.TierBlack, 10, false)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`bubblepop_bubbles_popped_total{tier="black"} 1`,
		"bubblepop_points_awarded_total 10",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
