package components

import (
	"traverse3d/internal/engine"
	"traverse3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type SphereCollider struct {
	engine.BaseComponent
	Radius float32
	Offset rl.Vector3
	Type   engine.ObjectType
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		Radius: radius,
		Type:   engine.WorldDynamic,
	}
}

// GetCenter returns the world-space center of this collider
func (s *SphereCollider) GetCenter() rl.Vector3 {
	return rl.Vector3Add(s.GetGameObject().WorldPosition(), s.Offset)
}

// GetWorldRadius scales the radius by the largest world scale axis.
func (s *SphereCollider) GetWorldRadius() float32 {
	scale := s.GetGameObject().WorldScale()
	return s.Radius * max(scale.X, scale.Y, scale.Z)
}

func (s *SphereCollider) CollisionShape() physics.Shape {
	return physics.Sphere{Center: s.GetCenter(), Radius: s.GetWorldRadius()}
}

func (s *SphereCollider) CollisionType() engine.ObjectType {
	return s.Type
}
