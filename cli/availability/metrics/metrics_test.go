package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/daniil11ru/availability/cli/availability/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAppliedCycle(t *testing.T) {
	m := New()
	started := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	m.Observe(domain.Summary{
		StartedAt:   started,
		FinishedAt:  started.Add(2 * time.Second),
		Updated:     1,
		New:         2,
		Unavailable: 3,
		Available:   3,
	}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.vehicles.WithLabelValues("updated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.vehicles.WithLabelValues("new")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.vehicles.WithLabelValues("unavailable")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.available))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fetchFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveSkippedAndFailedCycles(t *testing.T) {
	m := New()

	m.Observe(domain.Summary{FetchFailed: true, Skipped: true}, nil)
	m.Observe(domain.Summary{}, errors.New("store down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cycles.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.available))
}

func TestMetricsAreRegistered(t *testing.T) {
	m := New()
	m.Observe(domain.Summary{Available: 1}, nil)

	families, err := m.Registry.Gather()
	assert.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "availability_cycles_total")
	assert.Contains(t, names, "availability_vehicles_available")
}
