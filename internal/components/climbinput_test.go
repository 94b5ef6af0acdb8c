package components

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHop(t *testing.T) {
	tests := []struct {
		name  string
		input rl.Vector3
		want  HopDirection
	}{
		{"up", rl.Vector3{Y: 0.95}, HopUp},
		{"down", rl.Vector3{Y: -0.95}, HopDown},
		{"ambiguous", rl.Vector3{Y: 0.5, X: 0.5}, HopNone},
		{"half deflected up", rl.Vector3{Y: 0.5}, HopUp},
		{"half deflected down", rl.Vector3{Y: -0.3}, HopDown},
		{"sideways", rl.Vector3{X: 1}, HopNone},
		{"zero", rl.Vector3{}, HopNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyHop(tt.input, 0.9))
		})
	}
	assert.Equal(t, HopUp, ClassifyHop(rl.Vector3{Y: 1}, 1), "threshold is inclusive")
}

func TestParseInputAction(t *testing.T) {
	a, err := ParseInputAction("Toggle")
	require.NoError(t, err)
	assert.Equal(t, ActionToggleClimb, a)
	assert.Equal(t, "hop", ActionHop.String())

	_, err = ParseInputAction("dance")
	assert.Error(t, err)
}

func TestClimbMoveFollowsWall(t *testing.T) {
	w := wallWorld()
	c := w.character(rl.Vector3{Y: 96}, false)
	w.scene.Start()
	c.controller.SetMovementMode(ModeWalking)
	require.True(t, c.climbing.TryStartClimbing())

	c.input.OnClimbMove(rl.Vector2{Y: 1})
	assertVec(t, rl.Vector3{Y: 1}, c.controller.ConsumeInputVector(), 1e-5)

	c.input.OnClimbMove(rl.Vector2{X: 1})
	assertVec(t, rl.Vector3{X: 1}, c.controller.ConsumeInputVector(), 1e-5)
}

func TestMoveIsRelativeToYaw(t *testing.T) {
	w := newTestWorld()
	c := w.character(rl.Vector3{}, false)
	w.scene.Start()

	c.input.OnMove(rl.Vector2{Y: 1})
	assertVec(t, rl.Vector3{Z: 1}, c.controller.ConsumeInputVector(), 1e-5)

	c.input.Yaw = 90
	c.input.OnMove(rl.Vector2{Y: 1})
	assertVec(t, rl.Vector3{X: 1}, c.controller.ConsumeInputVector(), 1e-5)
	c.input.OnMove(rl.Vector2{X: 1})
	assertVec(t, rl.Vector3{Z: -1}, c.controller.ConsumeInputVector(), 1e-5)
}

func TestLookClampsPitch(t *testing.T) {
	ci := NewClimbInput()
	ci.OnLook(rl.Vector2{X: 100, Y: -5000})
	assert.InDelta(t, 10, ci.Yaw, 1e-4)
	assert.Equal(t, float32(89), ci.Pitch)

	ci.OnLook(rl.Vector2{Y: 5000})
	assert.Equal(t, float32(-89), ci.Pitch)
	assert.InDelta(t, -1, ci.LookDirection().Y, 0.01)
}

func TestToggleClimbPriority(t *testing.T) {
	w := wallWorld()
	c := w.character(rl.Vector3{Y: 96}, false)
	w.scene.Start()
	c.controller.SetMovementMode(ModeWalking)

	c.input.HandleInput(InputEvent{Action: ActionToggleClimb})
	assert.True(t, c.climbing.IsClimbing())

	c.input.HandleInput(InputEvent{Action: ActionToggleClimb})
	assert.False(t, c.climbing.IsClimbing())
}

func TestToggleFallsBackToVault(t *testing.T) {
	w := vaultWorld()
	c := w.character(rl.Vector3{Y: 96}, true)
	w.scene.Start()
	c.controller.SetMovementMode(ModeWalking)

	c.input.OnToggleClimb()
	require.True(t, c.animator.IsPlaying())
	assert.Equal(t, "vault", c.animator.CurrentClip().Name)
}

func TestHopIgnoredOutsideClimbing(t *testing.T) {
	w := wallWorld()
	c := w.character(rl.Vector3{Y: 200, Z: 26}, true)
	w.scene.Start()

	c.controller.AddMovementInput(rl.Vector3{Y: 1}, 1)
	c.controller.ConsumeInputVector()
	c.input.HandleInput(InputEvent{Action: ActionHop})
	assert.False(t, c.animator.IsPlaying())

	c.climbing.StartClimbing()
	c.input.HandleInput(InputEvent{Action: ActionHop})
	assert.True(t, c.animator.IsPlaying())
}

func TestHalfDeflectedInputHopsUp(t *testing.T) {
	w := wallWorld()
	c := w.character(rl.Vector3{Y: 200, Z: 26}, true)
	w.scene.Start()
	c.climbing.StartClimbing()

	c.input.OnClimbMove(rl.Vector2{Y: 0.5})
	c.controller.ConsumeInputVector()
	assert.Equal(t, HopUp, c.input.OnHopRequest())
	require.True(t, c.animator.IsPlaying())
	assert.Equal(t, "hop_up", c.animator.CurrentClip().Name)
}

func TestAnimationSyncSamplesController(t *testing.T) {
	w := newTestWorld()
	c := w.character(rl.Vector3{}, false)
	w.scene.Start()

	c.obj.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 90*rl.Deg2rad)
	c.controller.SetVelocity(rl.Vector3{X: 3, Y: -2, Z: 4})
	c.sync.Update(tick)

	assert.InDelta(t, 5, c.sync.GroundSpeed, 1e-5)
	assert.Equal(t, float32(-2), c.sync.VerticalSpeed)
	assert.True(t, c.sync.IsFalling)
	assert.False(t, c.sync.ShouldMove)
	assertVec(t, rl.Vector3{X: -4, Y: -2, Z: 3}, c.sync.ClimbVelocity, 1e-4)

	bare := NewAnimationSync()
	bare.Update(tick)
	assert.Zero(t, bare.GroundSpeed)
}
