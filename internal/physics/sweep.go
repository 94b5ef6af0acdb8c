package physics

import (
	"slices"

	"traverse3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const bisectionSteps = 10

// contact describes a capsule overlapping a shape.
type contact struct {
	normal rl.Vector3
	point  rl.Vector3
	depth  float32
}

// SweepCapsule sweeps a vertical capsule centred on start to end. halfHeight
// includes the hemispherical caps. Every collider touched along the way
// reports one hit at its earliest contact; the result is sorted by time.
// A capsule that already overlaps a collider at start reports
// StartPenetrating with Time 0.
func (p *PhysicsWorld) SweepCapsule(start, end rl.Vector3, radius, halfHeight float32, filter engine.ObjectType) []engine.Hit {
	if radius <= 0 {
		return nil
	}
	segHalf := halfHeight - radius
	if segHalf < 0 {
		segHalf = 0
	}

	startBox := capsuleBounds(start, radius, segHalf)
	swept := startBox.Union(capsuleBounds(end, radius, segHalf))
	length := rl.Vector3Distance(start, end)

	// Sample often enough that the capsule can't skip past a face.
	steps := 1
	if length > 0 {
		steps = int(math32.Ceil(length / (radius / 4)))
		if steps < 1 {
			steps = 1
		}
	}

	var hits []engine.Hit
	for _, e := range p.entries {
		if !e.collider.CollisionType().Has(filter) {
			continue
		}
		shape := e.collider.CollisionShape()
		if !shape.Bounds().Intersects(swept) {
			continue
		}

		if c, ok := capsuleContact(start, radius, segHalf, shape); ok {
			hits = append(hits, engine.Hit{
				GameObject:       e.obj,
				ImpactPoint:      c.point,
				ImpactNormal:     c.normal,
				Location:         start,
				Blocking:         true,
				StartPenetrating: true,
				Penetration:      c.depth,
				TraceStart:       start,
				TraceEnd:         end,
			})
			continue
		}
		if length == 0 {
			continue
		}

		prev := float32(0)
		for i := 1; i <= steps; i++ {
			t := float32(i) / float32(steps)
			if _, ok := capsuleContact(lerp(start, end, t), radius, segHalf, shape); !ok {
				prev = t
				continue
			}

			lo, hi := prev, t
			for j := 0; j < bisectionSteps; j++ {
				mid := (lo + hi) / 2
				if _, ok := capsuleContact(lerp(start, end, mid), radius, segHalf, shape); ok {
					hi = mid
				} else {
					lo = mid
				}
			}
			c, _ := capsuleContact(lerp(start, end, hi), radius, segHalf, shape)
			hits = append(hits, engine.Hit{
				GameObject:   e.obj,
				ImpactPoint:  c.point,
				ImpactNormal: c.normal,
				Location:     lerp(start, end, lo),
				Blocking:     true,
				Time:         lo,
				Distance:     lo * length,
				TraceStart:   start,
				TraceEnd:     end,
			})
			break
		}
	}

	slices.SortStableFunc(hits, func(a, b engine.Hit) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	p.Metrics.PhysicsQuery("sweep", len(hits) > 0)
	return hits
}

func lerp(a, b rl.Vector3, t float32) rl.Vector3 {
	return rl.Vector3Lerp(a, b, t)
}

func capsuleBounds(center rl.Vector3, radius, segHalf float32) AABB {
	return AABB{
		Min: rl.Vector3{X: center.X - radius, Y: center.Y - segHalf - radius, Z: center.Z - radius},
		Max: rl.Vector3{X: center.X + radius, Y: center.Y + segHalf + radius, Z: center.Z + radius},
	}
}

func capsuleContact(center rl.Vector3, radius, segHalf float32, shape Shape) (contact, bool) {
	switch s := shape.(type) {
	case Box:
		return capsuleBoxContact(center, radius, segHalf, s.AABB)
	case Sphere:
		return capsuleSphereContact(center, radius, segHalf, s)
	}
	return contact{}, false
}

func capsuleBoxContact(center rl.Vector3, radius, segHalf float32, box AABB) (contact, bool) {
	// Point on the capsule axis nearest the box's vertical extent.
	y := clamp(clamp(center.Y, box.Min.Y, box.Max.Y), center.Y-segHalf, center.Y+segHalf)
	axis := rl.Vector3{X: center.X, Y: y, Z: center.Z}
	closest := box.ClosestPoint(axis)
	d := rl.Vector3Subtract(axis, closest)
	dist := rl.Vector3Length(d)

	if dist > 1e-5 {
		if dist >= radius {
			return contact{}, false
		}
		return contact{
			normal: rl.Vector3Scale(d, 1/dist),
			point:  closest,
			depth:  radius - dist,
		}, true
	}

	// Axis is inside the box: push out through the shallowest face.
	bottom, top := center.Y-segHalf, center.Y+segHalf
	faces := [6]struct {
		depth  float32
		normal rl.Vector3
		point  rl.Vector3
	}{
		{axis.X - box.Min.X, rl.Vector3{X: -1}, rl.Vector3{X: box.Min.X, Y: y, Z: axis.Z}},
		{box.Max.X - axis.X, rl.Vector3{X: 1}, rl.Vector3{X: box.Max.X, Y: y, Z: axis.Z}},
		{top - box.Min.Y, rl.Vector3{Y: -1}, rl.Vector3{X: axis.X, Y: box.Min.Y, Z: axis.Z}},
		{box.Max.Y - bottom, rl.Vector3{Y: 1}, rl.Vector3{X: axis.X, Y: box.Max.Y, Z: axis.Z}},
		{axis.Z - box.Min.Z, rl.Vector3{Z: -1}, rl.Vector3{X: axis.X, Y: y, Z: box.Min.Z}},
		{box.Max.Z - axis.Z, rl.Vector3{Z: 1}, rl.Vector3{X: axis.X, Y: y, Z: box.Max.Z}},
	}
	best := faces[0]
	for _, f := range faces[1:] {
		if f.depth < best.depth {
			best = f
		}
	}
	return contact{normal: best.normal, point: best.point, depth: best.depth + radius}, true
}

func capsuleSphereContact(center rl.Vector3, radius, segHalf float32, s Sphere) (contact, bool) {
	axis := rl.Vector3{X: center.X, Y: clamp(s.Center.Y, center.Y-segHalf, center.Y+segHalf), Z: center.Z}
	d := rl.Vector3Subtract(axis, s.Center)
	dist := rl.Vector3Length(d)
	reach := radius + s.Radius
	if dist >= reach {
		return contact{}, false
	}

	normal := engine.WorldUp
	if dist > 1e-5 {
		normal = rl.Vector3Scale(d, 1/dist)
	}
	return contact{
		normal: normal,
		point:  rl.Vector3Add(s.Center, rl.Vector3Scale(normal, s.Radius)),
		depth:  reach - dist,
	}, true
}
