// Package metrics exposes prometheus collectors for traversal, pools and
// state stacks. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "traverse"

type Metrics struct {
	climbTransitions *prometheus.CounterVec
	poolAcquire      *prometheus.CounterVec
	poolActive       *prometheus.GaugeVec
	stackDepth       *prometheus.GaugeVec
	queries          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses a
// private registry so several sessions can coexist.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		climbTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "climb_transitions_total",
			Help:      "Climbing state transitions by kind.",
		}, []string{"kind"}),
		poolAcquire: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_acquire_total",
			Help:      "Pool acquire attempts by pool and result.",
		}, []string{"pool", "result"}),
		poolActive: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_active",
			Help:      "Objects currently handed out by a pool.",
		}, []string{"pool"}),
		stackDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stack_depth",
			Help:      "Number of states on a state stack.",
		}, []string{"stack"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "physics_queries_total",
			Help:      "Physics ray and sweep queries by kind and result.",
		}, []string{"kind", "result"}),
	}
	for _, c := range []prometheus.Collector{m.climbTransitions, m.poolAcquire, m.poolActive, m.stackDepth, m.queries} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) ClimbTransition(kind string) {
	if m == nil {
		return
	}
	m.climbTransitions.WithLabelValues(kind).Inc()
}

func (m *Metrics) PoolAcquire(pool string, ok bool) {
	if m == nil {
		return
	}
	m.poolAcquire.WithLabelValues(pool, result(ok, "ok", "exhausted")).Inc()
}

func (m *Metrics) SetPoolActive(pool string, n int) {
	if m == nil {
		return
	}
	m.poolActive.WithLabelValues(pool).Set(float64(n))
}

func (m *Metrics) SetStackDepth(stack string, n int) {
	if m == nil {
		return
	}
	m.stackDepth.WithLabelValues(stack).Set(float64(n))
}

func (m *Metrics) PhysicsQuery(kind string, hit bool) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind, result(hit, "hit", "miss")).Inc()
}

// Handler serves the default gatherer for the CLI's /metrics endpoint.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
