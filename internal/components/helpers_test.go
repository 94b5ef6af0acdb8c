package components

import (
	"testing"

	"traverse3d/internal/engine"
	"traverse3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

const tick = float32(1.0 / 60)

type testWorld struct {
	scene   *engine.Scene
	physics *physics.PhysicsWorld
}

func newTestWorld() *testWorld {
	w := &testWorld{scene: engine.NewScene("test"), physics: physics.NewPhysicsWorld()}
	w.scene.World = w.physics
	return w
}

// box adds a static box collider given its min and max corners.
func (w *testWorld) box(name string, lo, hi rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = rl.Vector3Scale(rl.Vector3Add(lo, hi), 0.5)
	g.AddComponent(NewBoxCollider(rl.Vector3Subtract(hi, lo)))
	w.scene.AddGameObject(g)
	w.physics.AddObject(g)
	return g
}

// floor is a large slab whose top is at y = 0.
func (w *testWorld) floor() *engine.GameObject {
	return w.box("floor", rl.Vector3{X: -1000, Y: -100, Z: -1000}, rl.Vector3{X: 1000, Z: 1000})
}

type testCharacter struct {
	obj        *engine.GameObject
	animator   *Animator
	controller *CharacterController
	climbing   *ClimbingMovement
	input      *ClimbInput
	sync       *AnimationSync
}

// character builds a player at pos facing +Z. Components are added in the
// tick order input, animation, movement, sampling.
func (w *testWorld) character(pos rl.Vector3, withAnimator bool) *testCharacter {
	c := &testCharacter{obj: engine.NewGameObject("player")}
	c.obj.Transform.Position = pos

	c.input = NewClimbInput()
	c.obj.AddComponent(c.input)
	if withAnimator {
		c.animator = NewAnimator()
		c.obj.AddComponent(c.animator)
	}
	c.controller = NewCharacterController()
	c.controller.OrientRotationToMovement = false
	c.obj.AddComponent(c.controller)
	c.climbing = NewClimbingMovement()
	c.obj.AddComponent(c.climbing)
	c.sync = NewAnimationSync()
	c.obj.AddComponent(c.sync)

	w.scene.AddGameObject(c.obj)
	return c
}

func (w *testWorld) run(ticks int) {
	for i := 0; i < ticks; i++ {
		w.scene.Update(tick)
	}
}

func assertVec(t *testing.T, want, got rl.Vector3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}
