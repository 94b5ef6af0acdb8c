package components

import (
	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const moveSpeedThreshold = 5

// AnimationSync samples movement state once per tick for presentation. It
// must update after the CharacterController. Without a controller every
// field keeps its zero value.
type AnimationSync struct {
	engine.BaseComponent

	GroundSpeed   float32
	VerticalSpeed float32
	ShouldMove    bool
	IsFalling     bool
	IsClimbing    bool
	// ClimbVelocity is the velocity in the character's local frame.
	ClimbVelocity rl.Vector3

	controller *CharacterController
}

func NewAnimationSync() *AnimationSync {
	return &AnimationSync{}
}

func (a *AnimationSync) Start() {
	a.controller = engine.GetComponent[*CharacterController](a.GetGameObject())
}

func (a *AnimationSync) Update(deltaTime float32) {
	if a.controller == nil {
		return
	}
	g := a.GetGameObject()
	v := a.controller.Velocity()

	a.GroundSpeed = rl.Vector3Length(rl.Vector3{X: v.X, Z: v.Z})
	a.VerticalSpeed = v.Y
	a.IsFalling = a.controller.IsFalling()
	a.IsClimbing = a.controller.IsClimbing()
	a.ShouldMove = rl.Vector3Length(a.controller.CurrentAcceleration()) > 0 &&
		a.GroundSpeed > moveSpeedThreshold && !a.IsFalling
	a.ClimbVelocity = engine.UnrotateVector(v, g.Transform.Rotation)
}
