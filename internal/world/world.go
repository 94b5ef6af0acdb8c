// Package world ties a scene to the physics world that answers its queries
// and loads scenes from the engine's JSON format.
package world

import (
	"traverse3d/internal/components"
	"traverse3d/internal/config"
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"
	"traverse3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// PlayerTag marks the object driven by input.
const PlayerTag = "player"

type World struct {
	Scene   *engine.Scene
	Physics *physics.PhysicsWorld
	Config  *config.Config
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

// New creates an empty world. Components spawned into it are configured from
// cfg; a nil cfg uses config.Default.
func New(cfg *config.Config, m *metrics.Metrics) *World {
	if cfg == nil {
		cfg = config.Default()
	}
	w := &World{
		Scene:   engine.NewScene("Main"),
		Physics: physics.NewPhysicsWorld(),
		Config:  cfg,
		Metrics: m,
		Log:     logrus.StandardLogger().WithField("subsystem", "world"),
	}
	w.Physics.Metrics = m
	w.Scene.World = w
	return w
}

func (w *World) Raycast(start, end rl.Vector3, filter engine.ObjectType) engine.Hit {
	return w.Physics.Raycast(start, end, filter)
}

func (w *World) SweepCapsule(start, end rl.Vector3, radius, halfHeight float32, filter engine.ObjectType) []engine.Hit {
	return w.Physics.SweepCapsule(start, end, radius, halfHeight, filter)
}

// Spawn configures and instruments g's components, adds it to the scene and
// registers its colliders. Objects spawned after Start must be started by the caller.
func (w *World) Spawn(g *engine.GameObject) {
	for _, c := range g.Components() {
		if cc, ok := c.(components.Configurable); ok {
			cc.Configure(w.Config)
		}
		if ic, ok := c.(components.Instrumented); ok {
			ic.SetMetrics(w.Metrics)
		}
	}
	w.Scene.AddGameObject(g)
	w.Physics.AddObject(g)
	w.Log.WithFields(logrus.Fields{"object": g.Name, "uid": g.UID}).Debug("spawned")
}

// Despawn removes g and its children from the scene and the physics world.
func (w *World) Despawn(g *engine.GameObject) {
	w.unregister(g)
	w.Scene.RemoveGameObject(g)
}

func (w *World) unregister(g *engine.GameObject) {
	for _, child := range g.Children {
		w.unregister(child)
	}
	w.Physics.RemoveObject(g)
}

// Player returns the first object tagged PlayerTag.
func (w *World) Player() *engine.GameObject {
	if found := w.Scene.FindByTag(PlayerTag); len(found) > 0 {
		return found[0]
	}
	return nil
}

func (w *World) Start() {
	w.Scene.Start()
	w.Log.WithFields(logrus.Fields{
		"objects":   len(w.Scene.GameObjects),
		"colliders": w.Physics.ColliderCount(),
	}).Info("world started")
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
}
