package serve

import (
	"strconv"
	"time"

	"github.com/advdv/bchain"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request counts and latencies in its own registry, never the global one.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the request collectors plus the go and process collectors.
func NewMetrics(env Environment) (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bchain_requests_total",
			Help:        "Requests dispatched, by method and response status.",
			ConstLabels: prometheus.Labels{"service": env.serviceName()},
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "bchain_request_duration_seconds",
			Help:        "Time spent dispatching a request, by method.",
			ConstLabels: prometheus.Labels{"service": env.serviceName()},
			Buckets:     prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return m, nil
}

// Registry returns the registry so applications can add their own collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware observes every request that passes through it. The observation is taken once the
// rest of the chain, including any error or not-found terminal, has run.
func (m *Metrics) Middleware() bchain.Handler {
	return bchain.HandlerFunc(func(w bchain.ResponseWriter, r *bchain.Request, next bchain.Next) error {
		start := time.Now()
		next(nil)

		m.duration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(r.Method, strconv.Itoa(w.StatusCode())).Inc()

		return nil
	})
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() bchain.Handler {
	return bchain.Std(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
