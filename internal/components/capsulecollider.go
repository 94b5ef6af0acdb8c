package components

import "traverse3d/internal/engine"

// CapsuleCollider is the vertical capsule a CharacterController moves. It is
// not a physics.Collider: characters don't block each other's queries.
// HalfHeight includes the hemispherical caps.
type CapsuleCollider struct {
	engine.BaseComponent
	Radius     float32
	HalfHeight float32
}

func NewCapsuleCollider(radius, halfHeight float32) *CapsuleCollider {
	return &CapsuleCollider{Radius: radius, HalfHeight: halfHeight}
}

// SetSize changes the capsule dimensions. The half-height never drops below
// the radius.
func (c *CapsuleCollider) SetSize(radius, halfHeight float32) {
	c.Radius = radius
	c.HalfHeight = max(halfHeight, radius)
}
