package engine

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// WorldUp is the world's up axis.
var WorldUp = rl.Vector3{Y: 1}

const nearlyZero = 1e-6

// AngleDegrees returns the angle between a and b in degrees.
// Zero-length inputs give 0.
func AngleDegrees(a, b rl.Vector3) float32 {
	la, lb := rl.Vector3Length(a), rl.Vector3Length(b)
	if la < nearlyZero || lb < nearlyZero {
		return 0
	}
	dot := rl.Vector3DotProduct(a, b) / (la * lb)
	return math32.Acos(rl.Clamp(dot, -1, 1)) * rl.Rad2deg
}

// ProjectOnto returns the component of v along n.
func ProjectOnto(v, n rl.Vector3) rl.Vector3 {
	lenSq := rl.Vector3DotProduct(n, n)
	if lenSq < nearlyZero {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(n, rl.Vector3DotProduct(v, n)/lenSq)
}

// UnrotateVector transforms a world-space vector into the local frame of q.
func UnrotateVector(v rl.Vector3, q rl.Quaternion) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, rl.QuaternionInvert(q))
}

// QuatFromForward builds a roll-free rotation whose local +Z points along forward.
func QuatFromForward(forward rl.Vector3) rl.Quaternion {
	if rl.Vector3Length(forward) < nearlyZero {
		return rl.QuaternionIdentity()
	}
	f := rl.Vector3Normalize(forward)
	yaw := math32.Atan2(f.X, f.Z)
	pitch := -math32.Asin(rl.Clamp(f.Y, -1, 1))
	qYaw := rl.QuaternionFromAxisAngle(WorldUp, yaw)
	qPitch := rl.QuaternionFromAxisAngle(rl.Vector3{X: 1}, pitch)
	return rl.QuaternionNormalize(rl.QuaternionMultiply(qYaw, qPitch))
}

// YawDegrees returns the heading of q around WorldUp.
func YawDegrees(q rl.Quaternion) float32 {
	return yawRadians(q) * rl.Rad2deg
}

func yawRadians(q rl.Quaternion) float32 {
	fwd := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, q)
	if fwd.X*fwd.X+fwd.Z*fwd.Z < nearlyZero {
		// Looking straight up or down: take the heading from the right axis.
		right := rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, q)
		return math32.Atan2(-right.Z, right.X)
	}
	return math32.Atan2(fwd.X, fwd.Z)
}

// YawOnly strips pitch and roll from q.
func YawOnly(q rl.Quaternion) rl.Quaternion {
	return rl.QuaternionFromAxisAngle(WorldUp, yawRadians(q))
}

// QuatInterpTo moves current toward target at a fixed rate. A non-positive
// speed snaps straight to target.
func QuatInterpTo(current, target rl.Quaternion, deltaTime, speed float32) rl.Quaternion {
	if speed <= 0 {
		return target
	}
	if quatNearlyEqual(current, target) {
		return target
	}
	alpha := rl.Clamp(speed*deltaTime, 0, 1)
	return rl.QuaternionNormalize(rl.QuaternionSlerp(current, target, alpha))
}

func quatNearlyEqual(a, b rl.Quaternion) bool {
	// q and -q are the same rotation.
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	return math32.Abs(dot) > 1-nearlyZero
}
