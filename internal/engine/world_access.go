package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// ObjectType is a bitmask of collision object channels used to filter queries.
type ObjectType uint8

const (
	WorldStatic ObjectType = 1 << iota
	WorldDynamic
	Pawn

	AllObjects = WorldStatic | WorldDynamic | Pawn
)

// Has reports whether any channel of other is set in t.
func (t ObjectType) Has(other ObjectType) bool {
	return t&other != 0
}

// Hit describes the result of a ray or sweep query.
// Defined here to avoid circular imports with physics package.
type Hit struct {
	GameObject *GameObject
	// ImpactPoint is the contact point on the other surface.
	ImpactPoint rl.Vector3
	// ImpactNormal points away from the surface that was hit.
	ImpactNormal rl.Vector3
	// Location is where the trace shape was when the contact happened.
	Location rl.Vector3

	Blocking         bool
	StartPenetrating bool
	Penetration      float32

	// Time is the fraction of the trace in [0, 1] at which the hit happened.
	Time     float32
	Distance float32

	TraceStart rl.Vector3
	TraceEnd   rl.Vector3
}

// NoHit returns a non-blocking hit for a trace that found nothing.
func NoHit(start, end rl.Vector3) Hit {
	return Hit{
		Location:   end,
		Time:       1,
		Distance:   rl.Vector3Distance(start, end),
		TraceStart: start,
		TraceEnd:   end,
	}
}

// WorldAccess provides components with access to world-level queries
// without creating circular import dependencies.
type WorldAccess interface {
	// Raycast returns the closest blocking hit between start and end.
	Raycast(start, end rl.Vector3, filter ObjectType) Hit
	// SweepCapsule sweeps a vertical capsule and returns one hit per collider,
	// ordered by time.
	SweepCapsule(start, end rl.Vector3, radius, halfHeight float32, filter ObjectType) []Hit
}
