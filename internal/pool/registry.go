package pool

import (
	"traverse3d/internal/metrics"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
)

// Registry owns named pools for one session.
type Registry struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics

	pools *orderedmap.OrderedMap[string, *Pool]
}

func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		Log:     logrus.StandardLogger().WithField("subsystem", "pool"),
		Metrics: m,
		pools:   orderedmap.NewOrderedMap[string, *Pool](),
	}
}

// CreatePool returns the pool called name, creating an empty one if needed.
func (r *Registry) CreatePool(name string) *Pool {
	if p, ok := r.pools.Get(name); ok {
		return p
	}
	p := New(name)
	p.Log = r.Log.WithField("pool", name)
	p.Metrics = r.Metrics
	r.pools.Set(name, p)
	r.Log.WithField("pool", name).Info("pool created")
	return p
}

func (r *Registry) GetPool(name string) (*Pool, bool) {
	return r.pools.Get(name)
}

// DestroyPool destroys every item of the named pool and forgets it.
func (r *Registry) DestroyPool(name string) bool {
	p, ok := r.pools.Get(name)
	if !ok {
		r.Log.WithField("pool", name).Debug("no such pool")
		return false
	}
	p.Destroy()
	r.pools.Delete(name)
	return true
}

// DestroyAll destroys pools in creation order.
func (r *Registry) DestroyAll() {
	for _, name := range r.Names() {
		r.DestroyPool(name)
	}
}

// Names returns pool names in creation order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.pools.Len())
	for el := r.pools.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}
