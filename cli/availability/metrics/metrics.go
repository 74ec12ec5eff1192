package metrics

import (
	"github.com/daniil11ru/availability/cli/availability/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "availability"

// Metrics счётчики циклов сверки
type Metrics struct {
	Registry *prometheus.Registry

	cycles        *prometheus.CounterVec
	vehicles      *prometheus.CounterVec
	available     prometheus.Gauge
	fetchFailures prometheus.Counter
	duration      prometheus.Histogram
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total reconciliation cycles by outcome.",
		}, []string{"outcome"}),
		vehicles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vehicles_total",
			Help:      "Vehicles processed by reconciliation cycles by operation.",
		}, []string{"operation"}),
		available: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vehicles_available",
			Help:      "Vehicles in the store after the last applied cycle.",
		}),
		fetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Remote snapshot fetch failures.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of reconciliation cycles.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Observe учитывает результат одного цикла
func (m *Metrics) Observe(summary domain.Summary, err error) {
	if summary.FetchFailed {
		m.fetchFailures.Inc()
	}
	if !summary.FinishedAt.IsZero() {
		m.duration.Observe(summary.Duration().Seconds())
	}

	switch {
	case err != nil:
		m.cycles.WithLabelValues("failed").Inc()
		return
	case summary.Skipped:
		m.cycles.WithLabelValues("skipped").Inc()
		return
	}

	m.cycles.WithLabelValues("applied").Inc()
	m.vehicles.WithLabelValues("updated").Add(float64(summary.Updated))
	m.vehicles.WithLabelValues("new").Add(float64(summary.New))
	m.vehicles.WithLabelValues("unavailable").Add(float64(summary.Unavailable))
	m.available.Set(float64(summary.Available))
}
