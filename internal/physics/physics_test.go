package physics

import (
	"testing"

	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCollider struct {
	engine.BaseComponent
	shape Shape
	kind  ObjectType
}

func (c *testCollider) CollisionShape() Shape     { return c.shape }
func (c *testCollider) CollisionType() ObjectType { return c.kind }

func addBox(p *PhysicsWorld, name string, center, size rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.AddComponent(&testCollider{shape: Box{NewAABBFromCenter(center, size)}, kind: WorldStatic})
	p.AddObject(g)
	return g
}

func assertVec(t *testing.T, want, got rl.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-2, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-2, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-2, "z")
}

func TestAABBResolve(t *testing.T) {
	a := NewAABBFromCenter(rl.Vector3{X: 0.9}, rl.Vector3{X: 2, Y: 2, Z: 2})
	b := NewAABBFromCenter(rl.Vector3{X: 2.5}, rl.Vector3{X: 2, Y: 10, Z: 10})

	assertVec(t, rl.Vector3{X: -0.4}, a.Resolve(b))
	assertVec(t, rl.Vector3{}, a.Resolve(NewAABBFromCenter(rl.Vector3{X: 50}, rl.Vector3{X: 1, Y: 1, Z: 1})))
}

func TestRaycastHitsClosestBox(t *testing.T) {
	p := NewPhysicsWorld()
	near := addBox(p, "near", rl.Vector3{Z: 100}, rl.Vector3{X: 200, Y: 200, Z: 20})
	addBox(p, "far", rl.Vector3{Z: 300}, rl.Vector3{X: 200, Y: 200, Z: 20})

	hit := p.Raycast(rl.Vector3{}, rl.Vector3{Z: 500}, AllObjects)

	require.True(t, hit.Blocking)
	assert.Same(t, near, hit.GameObject)
	assertVec(t, rl.Vector3{Z: 90}, hit.ImpactPoint)
	assertVec(t, rl.Vector3{Z: -1}, hit.ImpactNormal)
	assert.InDelta(t, 90, hit.Distance, 1e-3)
	assert.InDelta(t, 0.18, hit.Time, 1e-4)
}

func TestRaycastMissReportsTraceEnd(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 20, Y: 20, Z: 20})

	end := rl.Vector3{X: 200, Z: 100}
	hit := p.Raycast(rl.Vector3{X: 200}, end, AllObjects)

	assert.False(t, hit.Blocking)
	assert.Equal(t, end, hit.TraceEnd)
	assert.Equal(t, float32(1), hit.Time)
}

func TestRaycastShortOfWall(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 200, Y: 200, Z: 20})

	assert.False(t, p.Raycast(rl.Vector3{}, rl.Vector3{Z: 80}, AllObjects).Blocking)
}

func TestRaycastIgnoresContainingShape(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "room", rl.Vector3{}, rl.Vector3{X: 10, Y: 10, Z: 10})

	assert.False(t, p.Raycast(rl.Vector3{}, rl.Vector3{Z: 100}, AllObjects).Blocking)
}

func TestRaycastFilter(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 200, Y: 200, Z: 20})

	assert.False(t, p.Raycast(rl.Vector3{}, rl.Vector3{Z: 500}, Pawn).Blocking)
	assert.True(t, p.Raycast(rl.Vector3{}, rl.Vector3{Z: 500}, WorldStatic|Pawn).Blocking)
}

func TestRaycastSphere(t *testing.T) {
	p := NewPhysicsWorld()
	g := engine.NewGameObject("ball")
	g.AddComponent(&testCollider{shape: Sphere{Center: rl.Vector3{Y: 50}, Radius: 10}, kind: WorldDynamic})
	p.AddObject(g)

	hit := p.Raycast(rl.Vector3{}, rl.Vector3{Y: 100}, AllObjects)
	require.True(t, hit.Blocking)
	assertVec(t, rl.Vector3{Y: 40}, hit.ImpactPoint)
	assertVec(t, rl.Vector3{Y: -1}, hit.ImpactNormal)
}

func TestRemoveObject(t *testing.T) {
	p := NewPhysicsWorld()
	wall := addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 200, Y: 200, Z: 20})
	p.AddObject(engine.NewGameObject("no collider"))
	require.Equal(t, 1, p.ColliderCount())

	p.RemoveObject(wall)
	assert.Zero(t, p.ColliderCount())
	assert.False(t, p.Raycast(rl.Vector3{}, rl.Vector3{Z: 500}, AllObjects).Blocking)
}

func TestSweepCapsuleStopsAtWall(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 400, Y: 400, Z: 20})

	hits := p.SweepCapsule(rl.Vector3{}, rl.Vector3{Z: 200}, 30, 90, AllObjects)

	require.Len(t, hits, 1)
	h := hits[0]
	assert.True(t, h.Blocking)
	assert.False(t, h.StartPenetrating)
	// Front face at z=90, capsule radius 30.
	assert.InDelta(t, 60, h.Location.Z, 0.5)
	assertVec(t, rl.Vector3{Z: -1}, h.ImpactNormal)
	assert.InDelta(t, 90, h.ImpactPoint.Z, 0.5)
	assert.InDelta(t, 0.3, h.Time, 0.005)
}

func TestSweepCapsuleStartPenetrating(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{Z: 100}, rl.Vector3{X: 400, Y: 400, Z: 20})

	start := rl.Vector3{Z: 70}
	hits := p.SweepCapsule(start, rl.Vector3{Z: 71}, 50, 72, AllObjects)

	require.Len(t, hits, 1)
	h := hits[0]
	assert.True(t, h.StartPenetrating)
	assert.Zero(t, h.Time)
	assert.InDelta(t, 30, h.Penetration, 1e-3)
	assertVec(t, rl.Vector3{Z: -1}, h.ImpactNormal)
	assertVec(t, rl.Vector3{Z: 90}, h.ImpactPoint)
}

func TestSweepCapsuleFloorBelowCaps(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "floor", rl.Vector3{Y: -10}, rl.Vector3{X: 1000, Y: 20, Z: 1000})

	// Capsule bottom at y = 100 - 96 = 4, sweeping down by 10.
	hits := p.SweepCapsule(rl.Vector3{Y: 100}, rl.Vector3{Y: 90}, 34, 96, AllObjects)

	require.Len(t, hits, 1)
	assertVec(t, rl.Vector3{Y: 1}, hits[0].ImpactNormal)
	assert.InDelta(t, 96, hits[0].Location.Y, 0.05)
}

func TestSweepCapsuleSortsByTime(t *testing.T) {
	p := NewPhysicsWorld()
	far := addBox(p, "far", rl.Vector3{Z: 300}, rl.Vector3{X: 400, Y: 400, Z: 20})
	near := addBox(p, "near", rl.Vector3{X: 20, Z: 150}, rl.Vector3{X: 40, Y: 400, Z: 20})

	hits := p.SweepCapsule(rl.Vector3{}, rl.Vector3{Z: 400}, 30, 90, AllObjects)

	require.Len(t, hits, 2)
	assert.Same(t, near, hits[0].GameObject)
	assert.Same(t, far, hits[1].GameObject)
	assert.Less(t, hits[0].Time, hits[1].Time)
}

func TestSweepCapsuleMiss(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "wall", rl.Vector3{X: 500}, rl.Vector3{X: 20, Y: 20, Z: 20})

	assert.Empty(t, p.SweepCapsule(rl.Vector3{}, rl.Vector3{Z: 100}, 30, 90, AllObjects))
	assert.Empty(t, p.SweepCapsule(rl.Vector3{}, rl.Vector3{Z: 100}, 0, 90, AllObjects))
}

func TestSweepCapsuleAxisInsideBox(t *testing.T) {
	p := NewPhysicsWorld()
	addBox(p, "block", rl.Vector3{}, rl.Vector3{X: 100, Y: 100, Z: 100})

	hits := p.SweepCapsule(rl.Vector3{X: 45}, rl.Vector3{X: 46}, 10, 30, AllObjects)
	require.Len(t, hits, 1)
	assert.True(t, hits[0].StartPenetrating)
	assertVec(t, rl.Vector3{X: 1}, hits[0].ImpactNormal)
	assert.InDelta(t, 15, hits[0].Penetration, 1e-3)
}
