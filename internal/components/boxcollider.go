package components

import (
	"traverse3d/internal/engine"
	"traverse3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an axis-aligned box following its object's world position
// and scale. Rotation is ignored.
type BoxCollider struct {
	engine.BaseComponent
	Size   rl.Vector3
	Offset rl.Vector3
	Type   engine.ObjectType
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size: size,
		Type: engine.WorldStatic,
	}
}

// GetCenter returns the world-space center of this collider
func (b *BoxCollider) GetCenter() rl.Vector3 {
	return rl.Vector3Add(b.GetGameObject().WorldPosition(), b.Offset)
}

// GetWorldSize returns the collider size scaled by the object's world scale.
func (b *BoxCollider) GetWorldSize() rl.Vector3 {
	s := b.GetGameObject().WorldScale()
	return rl.Vector3{X: b.Size.X * s.X, Y: b.Size.Y * s.Y, Z: b.Size.Z * s.Z}
}

func (b *BoxCollider) GetAABB() physics.AABB {
	return physics.NewAABBFromCenter(b.GetCenter(), b.GetWorldSize())
}

func (b *BoxCollider) CollisionShape() physics.Shape {
	return physics.Box{AABB: b.GetAABB()}
}

func (b *BoxCollider) CollisionType() engine.ObjectType {
	return b.Type
}
