// Package pool recycles a fixed number of pre-created objects.
package pool

import (
	"slices"

	"traverse3d/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Item is an object a Pool can hand out. Implementations are usually
// pointers so Release can find them again.
type Item interface {
	OnCreate()
	OnGet()
	OnRelease()
	OnDestroy()
}

type Factory func() Item

// Pool pre-creates its capacity up front and never grows past it.
type Pool struct {
	Name    string
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics

	factory   Factory
	maxSize   int
	available []Item
	active    []Item
}

func New(name string) *Pool {
	return &Pool{
		Name: name,
		Log:  logrus.StandardLogger().WithField("pool", name),
	}
}

// Initialize creates capacity items, calling OnCreate on each. A pool can
// only be initialized once.
func (p *Pool) Initialize(factory Factory, capacity int) {
	if p.factory != nil {
		p.Log.Warn("pool already initialized")
		return
	}
	p.factory = factory
	p.maxSize = max(capacity, 0)
	for i, n := 0, p.maxSize; i < n; i++ {
		if item := p.create(); item != nil {
			p.available = append(p.available, item)
		}
	}
	p.Log.WithField("capacity", p.maxSize).Debug("pool initialized")
}

func (p *Pool) create() Item {
	if p.Total() >= p.maxSize {
		p.Log.Warn("pool reached its capacity")
		return nil
	}
	if p.factory == nil {
		return nil
	}
	item := p.factory()
	if item != nil {
		item.OnCreate()
	}
	return item
}

// Acquire hands out an available item. It returns false when the pool is
// exhausted.
func (p *Pool) Acquire() (Item, bool) {
	if len(p.available) == 0 {
		p.Log.Debug("pool exhausted")
		p.Metrics.PoolAcquire(p.Name, false)
		return nil, false
	}
	item := p.available[len(p.available)-1]
	p.available = p.available[:len(p.available)-1]
	item.OnGet()
	p.active = append(p.active, item)
	p.Metrics.PoolAcquire(p.Name, true)
	p.Metrics.SetPoolActive(p.Name, len(p.active))
	return item, true
}

// Release returns an active item. Items that are not active in this pool are
// logged and ignored.
func (p *Pool) Release(item Item) {
	if item == nil {
		return
	}
	i := slices.Index(p.active, item)
	if i < 0 {
		p.Log.Warn("release of an item not active in this pool")
		return
	}
	p.active = slices.Delete(p.active, i, i+1)
	item.OnRelease()
	p.available = append(p.available, item)
	p.Metrics.SetPoolActive(p.Name, len(p.active))
}

// Destroy calls OnDestroy on every item, active or not, and empties the pool.
func (p *Pool) Destroy() {
	for _, item := range p.active {
		item.OnDestroy()
	}
	for _, item := range p.available {
		item.OnDestroy()
	}
	p.active = nil
	p.available = nil
	p.Metrics.SetPoolActive(p.Name, 0)
}

func (p *Pool) Available() int { return len(p.available) }
func (p *Pool) Active() int    { return len(p.active) }
func (p *Pool) Total() int     { return len(p.available) + len(p.active) }
func (p *Pool) MaxSize() int   { return p.maxSize }
