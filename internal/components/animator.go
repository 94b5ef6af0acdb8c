package components

import (
	"traverse3d/internal/engine"

	"github.com/elliotchance/orderedmap/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// Clip is a procedural clip. While it plays, the owner is steered through the
// named warp targets in order, each taking an equal share of Duration.
type Clip struct {
	Name        string
	Duration    float32
	WarpTargets []string
}

type ClipEnded struct {
	Clip        *Clip
	Interrupted bool
}

// WarpTargetSink receives named warp anchors for clip playback.
type WarpTargetSink interface {
	SetWarpTarget(name string, position rl.Vector3)
}

// Animator plays one procedural clip at a time and reports when it ends.
// It implements RootMotionSource and WarpTargetSink.
type Animator struct {
	engine.BaseComponent

	Log         logrus.FieldLogger
	OnClipEnded engine.EventWithArg[ClipEnded]

	warpTargets *orderedmap.OrderedMap[string, rl.Vector3]
	current     *Clip
	elapsed     float32
	lastDelta   float32
}

func NewAnimator() *Animator {
	return &Animator{
		Log:         logrus.StandardLogger().WithField("subsystem", "anim"),
		warpTargets: orderedmap.NewOrderedMap[string, rl.Vector3](),
	}
}

// PlayClip starts clip. It does nothing and returns false when clip is nil,
// unnamed, or another clip is still playing.
func (a *Animator) PlayClip(clip *Clip) bool {
	if clip == nil || clip.Name == "" {
		return false
	}
	if a.current != nil {
		a.Log.WithFields(logrus.Fields{"clip": clip.Name, "playing": a.current.Name}).Debug("clip already playing")
		return false
	}
	a.current = clip
	a.elapsed = 0
	a.lastDelta = 0
	a.Log.WithField("clip", clip.Name).Debug("clip started")
	return true
}

// StopClip ends the current clip early.
func (a *Animator) StopClip() {
	if a.current != nil {
		a.finish(true)
	}
}

func (a *Animator) IsPlaying() bool    { return a.current != nil }
func (a *Animator) CurrentClip() *Clip { return a.current }

// Elapsed returns how long the current clip has played.
func (a *Animator) Elapsed() float32 { return a.elapsed }

// Update ends a clip on the first tick after its duration has fully played,
// so movement during its last tick still sees root motion.
func (a *Animator) Update(deltaTime float32) {
	if a.current == nil {
		return
	}
	if a.elapsed >= a.current.Duration {
		a.finish(false)
		return
	}
	a.elapsed += deltaTime
	a.lastDelta = deltaTime
}

func (a *Animator) finish(interrupted bool) {
	clip := a.current
	a.current = nil
	a.elapsed = 0
	a.lastDelta = 0
	a.Log.WithFields(logrus.Fields{"clip": clip.Name, "interrupted": interrupted}).Debug("clip ended")
	a.OnClipEnded.Invoke(ClipEnded{Clip: clip, Interrupted: interrupted})
}

func (a *Animator) SetWarpTarget(name string, position rl.Vector3) {
	a.warpTargets.Set(name, position)
}

func (a *Animator) WarpTarget(name string) (rl.Vector3, bool) {
	return a.warpTargets.Get(name)
}

func (a *Animator) RemoveWarpTarget(name string) {
	a.warpTargets.Delete(name)
}

// RootMotionVelocity steers toward the warp target of the current segment so
// the owner arrives when the segment ends.
func (a *Animator) RootMotionVelocity() (rl.Vector3, bool) {
	clip := a.current
	g := a.GetGameObject()
	if clip == nil || g == nil || len(clip.WarpTargets) == 0 || clip.Duration <= 0 {
		return rl.Vector3{}, false
	}

	segment := clip.Duration / float32(len(clip.WarpTargets))
	frameStart := max(a.elapsed-a.lastDelta, 0)
	idx := min(int(frameStart/segment), len(clip.WarpTargets)-1)
	target, ok := a.warpTargets.Get(clip.WarpTargets[idx])
	if !ok {
		return rl.Vector3{}, false
	}

	remaining := float32(idx+1)*segment - frameStart
	remaining = max(remaining, a.lastDelta, 1e-3)
	return rl.Vector3Scale(rl.Vector3Subtract(target, g.Transform.Position), 1/remaining), true
}
