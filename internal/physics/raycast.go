package physics

import (
	"traverse3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Raycast returns the closest blocking hit on the segment start->end among
// colliders matching filter. Shapes that contain start are ignored.
func (p *PhysicsWorld) Raycast(start, end rl.Vector3, filter engine.ObjectType) engine.Hit {
	delta := rl.Vector3Subtract(end, start)
	length := rl.Vector3Length(delta)
	if length < 1e-6 {
		return engine.NoHit(start, end)
	}
	direction := rl.Vector3Scale(delta, 1/length)
	bounds := AABB{Min: rl.Vector3Min(start, end), Max: rl.Vector3Max(start, end)}

	best := engine.NoHit(start, end)
	closest := length
	for _, e := range p.entries {
		if !e.collider.CollisionType().Has(filter) {
			continue
		}
		shape := e.collider.CollisionShape()
		if !shape.Bounds().Intersects(bounds) {
			continue
		}

		var t float32
		var normal rl.Vector3
		var ok bool
		switch s := shape.(type) {
		case Box:
			t, normal, ok = raycastBox(start, direction, s.AABB, closest)
		case Sphere:
			t, normal, ok = raycastSphere(start, direction, s, closest)
		}
		if !ok || t > closest {
			continue
		}

		closest = t
		point := rl.Vector3Add(start, rl.Vector3Scale(direction, t))
		best = engine.Hit{
			GameObject:   e.obj,
			ImpactPoint:  point,
			ImpactNormal: normal,
			Location:     point,
			Blocking:     true,
			Time:         t / length,
			Distance:     t,
			TraceStart:   start,
			TraceEnd:     end,
		}
	}
	p.Metrics.PhysicsQuery("raycast", best.Blocking)
	return best
}

// raycastBox is a slab test against an axis-aligned box.
func raycastBox(origin, direction rl.Vector3, box AABB, maxDistance float32) (float32, rl.Vector3, bool) {
	if box.Contains(origin) {
		return 0, rl.Vector3{}, false
	}

	tmin := float32(-1e30)
	tmax := float32(1e30)
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{direction.X, direction.Y, direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}
	enterAxis, enterSign := -1, float32(0)

	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return 0, rl.Vector3{}, false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / d[axis]
		t2 := (hi[axis] - o[axis]) / d[axis]
		// Entering through the min face means the normal points along -axis.
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis, enterSign = axis, sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, rl.Vector3{}, false
		}
	}

	if enterAxis < 0 || tmin < 0 || tmin > maxDistance {
		return 0, rl.Vector3{}, false
	}

	var normal rl.Vector3
	switch enterAxis {
	case 0:
		normal.X = enterSign
	case 1:
		normal.Y = enterSign
	default:
		normal.Z = enterSign
	}
	return tmin, normal, true
}

func raycastSphere(origin, direction rl.Vector3, sphere Sphere, maxDistance float32) (float32, rl.Vector3, bool) {
	oc := rl.Vector3Subtract(origin, sphere.Center)
	c := rl.Vector3DotProduct(oc, oc) - sphere.Radius*sphere.Radius
	if c <= 0 {
		return 0, rl.Vector3{}, false
	}
	b := rl.Vector3DotProduct(oc, direction)
	discriminant := b*b - c
	if discriminant < 0 {
		return 0, rl.Vector3{}, false
	}

	t := -b - math32.Sqrt(discriminant)
	if t < 0 || t > maxDistance {
		return 0, rl.Vector3{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return t, rl.Vector3Normalize(rl.Vector3Subtract(point, sphere.Center)), true
}
