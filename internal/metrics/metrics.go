// Package metrics exports Bubble Pop session events as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/bubble-pop/internal/bubble"
)

const namespace = "bubblepop"

// Collector implements bubble.Observer and owns its own registry.
type Collector struct {
	registry *prometheus.Registry

	active   prometheus.Gauge
	sessions *prometheus.CounterVec
	pops     *prometheus.CounterVec
	points   prometheus.Counter
	bonuses  prometheus.Counter
	culled   prometheus.Counter
	scores   prometheus.Histogram
	unsaved  prometheus.Counter
}

var _ bubble.Observer = (*Collector)(nil)

// New creates a collector registered on a fresh registry together with the
// Go runtime and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Sessions past the countdown that have not ended.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Ended sessions by reason.",
		}, []string{"reason"}),
		pops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bubbles_popped_total",
			Help:      "Popped bubbles by color.",
		}, []string{"tier"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points awarded across all sessions.",
		}),
		bonuses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "streak_bonuses_total",
			Help:      "Pops that earned the same-color bonus.",
		}),
		culled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bubbles_escaped_total",
			Help:      "Bubbles that drifted off the field unpopped.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Final session scores.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
		unsaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_unsaved_total",
			Help:      "Sessions whose score the store rejected.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.active, c.sessions, c.pops, c.points, c.bonuses, c.culled, c.scores, c.unsaved,
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) SessionStarted(string) {
	c.active.Inc()
}

func (c *Collector) BubblePopped(tier bubble.Tier, points int, bonus bool) {
	c.pops.WithLabelValues(tier.String()).Inc()
	c.points.Add(float64(points))
	if bonus {
		c.bonuses.Inc()
	}
}

func (c *Collector) BubblesCulled(n int) {
	c.culled.Add(float64(n))
}

// SessionEnded records the result. Sessions aborted during the countdown
// never incremented the active gauge.
func (c *Collector) SessionEnded(r bubble.Result) {
	if r.Started {
		c.active.Dec()
	}
	c.sessions.WithLabelValues(string(r.Reason)).Inc()
	c.scores.Observe(float64(r.Score))
	if !r.Saved {
		c.unsaved.Inc()
	}
}
