package physics

import (
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"

	"github.com/sirupsen/logrus"
)

type entry struct {
	obj      *engine.GameObject
	collider Collider
}

// PhysicsWorld answers ray and capsule sweep queries against the colliders of
// registered GameObjects. Queries read collider shapes fresh each call, so
// moving an object's transform moves its collider.
type PhysicsWorld struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics

	entries []entry
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Log: logrus.StandardLogger().WithField("subsystem", "physics"),
	}
}

// AddObject registers every Collider component on g. Objects without
// colliders are ignored.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) {
	added := 0
	for _, c := range g.Components() {
		if col, ok := c.(Collider); ok {
			p.entries = append(p.entries, entry{obj: g, collider: col})
			added++
		}
	}
	if added == 0 && p.Log != nil {
		p.Log.WithField("object", g.Name).Debug("no colliders, not registered")
	}
}

// RemoveObject drops all colliders belonging to g.
func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.obj != g {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(p.entries); i++ {
		p.entries[i] = entry{}
	}
	p.entries = kept
}

// ColliderCount returns the number of registered colliders.
func (p *PhysicsWorld) ColliderCount() int {
	return len(p.entries)
}
