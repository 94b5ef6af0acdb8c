package components

import (
	"testing"

	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnimated() (*engine.GameObject, *Animator) {
	g := engine.NewGameObject("actor")
	a := NewAnimator()
	g.AddComponent(a)
	g.Start()
	return g, a
}

func TestPlayClipGuards(t *testing.T) {
	_, a := newAnimated()

	assert.False(t, a.PlayClip(nil))
	assert.False(t, a.PlayClip(&Clip{}))
	require.True(t, a.PlayClip(&Clip{Name: "a", Duration: 1}))
	assert.False(t, a.PlayClip(&Clip{Name: "b", Duration: 1}), "already playing")
	assert.Equal(t, "a", a.CurrentClip().Name)
}

func TestClipEndsAfterDuration(t *testing.T) {
	_, a := newAnimated()
	var ended []ClipEnded
	a.OnClipEnded.AddListener(func(e ClipEnded) { ended = append(ended, e) })

	clip := &Clip{Name: "a", Duration: 0.5}
	require.True(t, a.PlayClip(clip))
	a.Update(0.25)
	a.Update(0.25)
	assert.True(t, a.IsPlaying(), "the last tick still plays")
	a.Update(0.25)

	assert.False(t, a.IsPlaying())
	require.Len(t, ended, 1)
	assert.Same(t, clip, ended[0].Clip)
	assert.False(t, ended[0].Interrupted)
}

func TestStopClipInterrupts(t *testing.T) {
	_, a := newAnimated()
	var ended []ClipEnded
	a.OnClipEnded.AddListener(func(e ClipEnded) { ended = append(ended, e) })

	a.StopClip()
	assert.Empty(t, ended)

	require.True(t, a.PlayClip(&Clip{Name: "a", Duration: 5}))
	a.StopClip()
	require.Len(t, ended, 1)
	assert.True(t, ended[0].Interrupted)
}

func TestRootMotionSteersThroughTargets(t *testing.T) {
	g, a := newAnimated()
	a.SetWarpTarget("first", rl.Vector3{X: 10})
	a.SetWarpTarget("second", rl.Vector3{X: 10, Z: 10})

	_, ok := a.RootMotionVelocity()
	assert.False(t, ok, "no clip")

	require.True(t, a.PlayClip(&Clip{Name: "move", Duration: 1, WarpTargets: []string{"first", "second"}}))
	a.Update(0.25)
	v, ok := a.RootMotionVelocity()
	require.True(t, ok)
	assertVec(t, rl.Vector3{X: 20}, v, 1e-3)

	g.Transform.Position = rl.Vector3{X: 10}
	a.Update(0.25)
	a.Update(0.25)
	v, ok = a.RootMotionVelocity()
	require.True(t, ok)
	assertVec(t, rl.Vector3{Z: 20}, v, 1e-3)
}

func TestRootMotionNeedsTarget(t *testing.T) {
	_, a := newAnimated()
	require.True(t, a.PlayClip(&Clip{Name: "move", Duration: 1, WarpTargets: []string{"missing"}}))
	a.Update(0.1)
	_, ok := a.RootMotionVelocity()
	assert.False(t, ok)

	a.SetWarpTarget("missing", rl.Vector3{Y: 1})
	_, ok = a.RootMotionVelocity()
	assert.True(t, ok)
	a.RemoveWarpTarget("missing")
	_, ok = a.RootMotionVelocity()
	assert.False(t, ok)
}

func TestMotionWarpTargetsForwardToSink(t *testing.T) {
	g, a := newAnimated()
	m := NewMotionWarpTargets()
	g.AddComponent(m)
	require.Same(t, a, m.Sink)

	m.SetTarget(WarpVaultStart, rl.Vector3{X: 1})
	m.SetTarget(WarpVaultLand, rl.Vector3{X: 2})
	m.SetTarget(WarpVaultStart, rl.Vector3{X: 3})

	assert.Equal(t, []string{WarpVaultStart, WarpVaultLand}, m.Names())
	got, ok := a.WarpTarget(WarpVaultStart)
	require.True(t, ok)
	assert.Equal(t, rl.Vector3{X: 3}, got)

	m.Clear()
	assert.Empty(t, m.Names())
}

func TestMotionWarpTargetsWithoutSink(t *testing.T) {
	g := engine.NewGameObject("actor")
	m := NewMotionWarpTargets()
	g.AddComponent(m)
	g.Start()

	m.SetTarget(WarpHopUp, rl.Vector3{Y: 1})
	_, ok := m.Target(WarpHopUp)
	assert.False(t, ok)
}
