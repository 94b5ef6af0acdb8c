package physics

import (
	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ObjectType re-exports the engine's collision channels.
type ObjectType = engine.ObjectType

const (
	WorldStatic  = engine.WorldStatic
	WorldDynamic = engine.WorldDynamic
	Pawn         = engine.Pawn
	AllObjects   = engine.AllObjects
)

// Shape is a world-space collision volume. Box and Sphere are the only shapes.
type Shape interface {
	Bounds() AABB
}

// Box is an axis-aligned box.
type Box struct {
	AABB
}

func (b Box) Bounds() AABB { return b.AABB }

type Sphere struct {
	Center rl.Vector3
	Radius float32
}

func (s Sphere) Bounds() AABB {
	return NewAABBFromCenter(s.Center, rl.Vector3{X: 2 * s.Radius, Y: 2 * s.Radius, Z: 2 * s.Radius})
}

// Collider is implemented by components that take part in queries. The
// physics world finds them on a GameObject when it is added.
type Collider interface {
	CollisionShape() Shape
	CollisionType() ObjectType
}
