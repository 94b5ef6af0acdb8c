package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

// Transform is stored as position plus quaternion rotation. Local axes are
// forward = +Z, right = +X, up = +Y.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// Forward returns the rotated local +Z axis.
func (t Transform) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, t.Rotation)
}

// Right returns the rotated local +X axis.
func (t Transform) Right() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, t.Rotation)
}

// Up returns the rotated local +Y axis.
func (t Transform) Up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, t.Rotation)
}

// SetEulerDegrees sets the rotation from pitch (X), yaw (Y) and roll (Z) in degrees,
// applied yaw, then pitch, then roll.
func (t *Transform) SetEulerDegrees(euler rl.Vector3) {
	yaw := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, euler.Y*rl.Deg2rad)
	pitch := rl.QuaternionFromAxisAngle(rl.Vector3{X: 1}, euler.X*rl.Deg2rad)
	roll := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, euler.Z*rl.Deg2rad)
	t.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(yaw, rl.QuaternionMultiply(pitch, roll)))
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.QuaternionIdentity(),
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

// AddComponent attaches c. Components update in the order they were added.
func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
	if g.started {
		c.Start()
	}
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	if g == nil {
		return zero
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// FindComponent returns the first component implementing interface T.
func FindComponent[T any](g *GameObject) (T, bool) {
	var zero T
	if g == nil {
		return zero, false
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	g.started = true
	for _, c := range g.components {
		c.Start()
	}
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// World returns the scene's world access, or nil when the object is not in a
// scene or the scene has no world.
func (g *GameObject) World() WorldAccess {
	if g == nil || g.Scene == nil {
		return nil
	}
	return g.Scene.World
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentScale := g.Parent.WorldScale()
	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}
	rotated := rl.Vector3RotateByQuaternion(scaled, g.Parent.WorldRotation())
	return rl.Vector3Add(g.Parent.WorldPosition(), rotated)
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return rl.QuaternionMultiply(g.Parent.WorldRotation(), g.Transform.Rotation)
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}
