package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "knockout"

// Metrics holds every collector the server exposes on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	fixturesBuilt    prometheus.Counter
	fixturesRejected prometheus.Counter
	participants     prometheus.Histogram
	byes             prometheus.Histogram
	rounds           prometheus.Histogram

	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fixturesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixtures_built_total",
			Help:      "Number of tournament fixtures generated.",
		}),
		fixturesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixtures_rejected_total",
			Help:      "Number of fixture requests rejected as invalid input.",
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fixture_participants",
			Help:      "Participants per generated fixture.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 7),
		}),
		byes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fixture_byes",
			Help:      "Byes per generated fixture.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 63},
		}),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fixture_rounds",
			Help:      "Rounds per generated fixture.",
			Buckets:   prometheus.LinearBuckets(1, 1, 7),
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fixturesBuilt,
		m.fixturesRejected,
		m.participants,
		m.byes,
		m.rounds,
		m.requestDuration,
	)

	return m
}

func (m *Metrics) FixtureBuilt(participants, byes, rounds int) {
	m.fixturesBuilt.Inc()
	m.participants.Observe(float64(participants))
	m.byes.Observe(float64(byes))
	m.rounds.Observe(float64(rounds))
}

func (m *Metrics) FixtureRejected() {
	m.fixturesRejected.Inc()
}

func (m *Metrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry, DisableCompression: true})
}
