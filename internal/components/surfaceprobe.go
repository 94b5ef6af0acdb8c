package components

import (
	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// SurfaceSample is the representative climbable surface for one tick.
type SurfaceSample struct {
	Position rl.Vector3
	Normal   rl.Vector3
	Valid    bool
}

// Aggregate averages impact points and sums impact normals. No hits gives a
// zero, invalid sample.
func Aggregate(hits []engine.Hit) SurfaceSample {
	if len(hits) == 0 {
		return SurfaceSample{}
	}
	var pos, normal rl.Vector3
	for _, h := range hits {
		pos = rl.Vector3Add(pos, h.ImpactPoint)
		normal = rl.Vector3Add(normal, h.ImpactNormal)
	}
	return SurfaceSample{
		Position: rl.Vector3Scale(pos, 1/float32(len(hits))),
		Normal:   rl.Vector3Normalize(normal),
		Valid:    true,
	}
}

// SurfaceProbe issues the traversal queries for one character. Queries never
// change the world; a missing world yields empty results.
type SurfaceProbe struct {
	Owner *engine.GameObject
	Log   logrus.FieldLogger

	Radius        float32
	HalfHeight    float32
	ForwardOffset float32
	EyeHeight     float32
	Filter        engine.ObjectType
}

func (p *SurfaceProbe) world() engine.WorldAccess {
	w := p.Owner.World()
	if w == nil {
		p.Log.Debug("no world, probe skipped")
	}
	return w
}

// ProbeForward sweeps the probe capsule one unit forward from an offset
// origin and returns every hit.
func (p *SurfaceProbe) ProbeForward(origin, forward rl.Vector3, debug bool) []engine.Hit {
	w := p.world()
	if w == nil {
		return nil
	}
	start := rl.Vector3Add(origin, rl.Vector3Scale(forward, p.ForwardOffset))
	end := rl.Vector3Add(start, forward)
	hits := w.SweepCapsule(start, end, p.Radius, p.HalfHeight, p.Filter)
	if debug {
		p.Log.WithFields(logrus.Fields{"start": start, "end": end, "hits": len(hits)}).Trace("forward probe")
	}
	return hits
}

// ProbeSight casts a single ray from origin along forward.
func (p *SurfaceProbe) ProbeSight(origin, forward rl.Vector3, distance float32, debug bool) engine.Hit {
	end := rl.Vector3Add(origin, rl.Vector3Scale(forward, distance))
	return p.Line(origin, end, debug)
}

// Line casts a ray between two points.
func (p *SurfaceProbe) Line(start, end rl.Vector3, debug bool) engine.Hit {
	w := p.world()
	if w == nil {
		return engine.NoHit(start, end)
	}
	hit := w.Raycast(start, end, p.Filter)
	if debug {
		p.Log.WithFields(logrus.Fields{"start": start, "end": end, "blocking": hit.Blocking}).Trace("sight probe")
	}
	return hit
}

// TraceFromEyeHeight casts forward from the owner's eye, raised by startOffset.
func (p *SurfaceProbe) TraceFromEyeHeight(distance, startOffset float32, debug bool) engine.Hit {
	t := p.Owner.Transform
	origin := rl.Vector3Add(t.Position, rl.Vector3Scale(t.Up(), p.EyeHeight+startOffset))
	return p.ProbeSight(origin, t.Forward(), distance, debug)
}
