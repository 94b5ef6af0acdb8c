package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
// Negative sizes are treated as their absolute value.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: abs(size.X) / 2, Y: abs(size.Y) / 2, Z: abs(size.Z) / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// ClosestPoint clamps p onto the box.
func (a AABB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: clamp(p.X, a.Min.X, a.Max.X),
		Y: clamp(p.Y, a.Min.Y, a.Max.Y),
		Z: clamp(p.Z, a.Min.Z, a.Max.Z),
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: rl.Vector3Min(a.Min, b.Min),
		Max: rl.Vector3Max(a.Max, b.Max),
	}
}

// Expand grows the box by r on every side.
func (a AABB) Expand(r float32) AABB {
	e := rl.Vector3{X: r, Y: r, Z: r}
	return AABB{Min: rl.Vector3Subtract(a.Min, e), Max: rl.Vector3Add(a.Max, e)}
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	pushes := [6]rl.Vector3{
		{X: b.Max.X - a.Min.X},
		{X: -(a.Max.X - b.Min.X)},
		{Y: b.Max.Y - a.Min.Y},
		{Y: -(a.Max.Y - b.Min.Y)},
		{Z: b.Max.Z - a.Min.Z},
		{Z: -(a.Max.Z - b.Min.Z)},
	}

	// The axis with minimum penetration is the push-out direction
	result := pushes[0]
	best := rl.Vector3Length(result)
	for _, p := range pushes[1:] {
		if l := rl.Vector3Length(p); l < best {
			best = l
			result = p
		}
	}
	return result
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
