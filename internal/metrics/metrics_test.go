package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ClimbTransition("enter")
	m.ClimbTransition("enter")
	m.PoolAcquire("bullets", true)
	m.PoolAcquire("bullets", false)
	m.SetPoolActive("bullets", 3)
	m.SetStackDepth("ui", 2)
	m.PhysicsQuery("raycast", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.climbTransitions.WithLabelValues("enter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.poolAcquire.WithLabelValues("bullets", "exhausted")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.poolActive.WithLabelValues("bullets")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stackDepth.WithLabelValues("ui")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("raycast", "hit")))
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ClimbTransition("enter")
		m.PoolAcquire("p", true)
		m.SetPoolActive("p", 1)
		m.SetStackDepth("s", 1)
		m.PhysicsQuery("sweep", false)
	})
}

func TestNewWithNilRegisterer(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)
	b, err := New(nil)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}
