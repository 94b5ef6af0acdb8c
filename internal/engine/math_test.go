package engine

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestAngleDegrees(t *testing.T) {
	assert.InDelta(t, 90, AngleDegrees(rl.Vector3{X: 1}, WorldUp), 1e-3)
	assert.InDelta(t, 0, AngleDegrees(rl.Vector3{Y: 5}, WorldUp), 1e-3)
	assert.InDelta(t, 180, AngleDegrees(rl.Vector3{Y: -1}, WorldUp), 1e-3)
	assert.InDelta(t, 45, AngleDegrees(rl.Vector3{X: 1, Y: 1}, WorldUp), 1e-3)
	assert.Zero(t, AngleDegrees(rl.Vector3{}, WorldUp))
}

func TestProjectOnto(t *testing.T) {
	assertVec(t, rl.Vector3{Z: 3}, ProjectOnto(rl.Vector3{X: 2, Z: 3}, rl.Vector3{Z: 10}))
	assertVec(t, rl.Vector3{}, ProjectOnto(rl.Vector3{X: 2}, rl.Vector3{}))
}

func TestQuatFromForward(t *testing.T) {
	for _, fwd := range []rl.Vector3{
		{Z: 1}, {X: 1}, {X: -1}, {Z: -1}, {X: 1, Y: 1}, {Y: -1, Z: 1},
	} {
		q := QuatFromForward(fwd)
		assertVec(t, rl.Vector3Normalize(fwd), rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q))
		// Roll-free: right stays horizontal.
		right := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q)
		assert.InDelta(t, 0, right.Y, 1e-4)
	}
}

func TestUnrotateVector(t *testing.T) {
	q := QuatFromForward(rl.Vector3{X: 1})
	assertVec(t, rl.Vector3{Z: 1}, UnrotateVector(rl.Vector3{X: 1}, q))
	assertVec(t, rl.Vector3{Y: 1}, UnrotateVector(WorldUp, q))
}

func TestYawOnly(t *testing.T) {
	q := QuatFromForward(rl.Vector3{X: 1, Y: -1})
	yaw := YawOnly(q)

	assertVec(t, rl.Vector3{X: 1}, rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, yaw))
	assert.InDelta(t, 90, YawDegrees(q), 1e-3)
}

func TestQuatInterpTo(t *testing.T) {
	from := rl.QuaternionIdentity()
	to := QuatFromForward(rl.Vector3{X: 1})

	assert.Equal(t, to, QuatInterpTo(from, to, 0.1, 0))
	assert.Equal(t, to, QuatInterpTo(to, to, 0.1, 5))
	assert.InDelta(t, 90, YawDegrees(QuatInterpTo(from, to, 1, 5)), 1e-2, "alpha clamps to 1")

	half := QuatInterpTo(from, to, 0.1, 5)
	assert.InDelta(t, 45, YawDegrees(half), 1e-2)
}
