package components

import (
	"traverse3d/internal/config"
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// Warp targets used only by climbing clips.
const (
	WarpClimbDownOver = "ClimbDownOverPoint"
	WarpClimbToTopUp  = "ClimbToTopRisePoint"
)

type climbClips struct {
	idleToClimb    *Clip
	climbToTop     *Clip
	climbDownLedge *Clip
	vault          *Clip
	hopUp          *Clip
	hopDown        *Clip
}

// ClimbingMovement adds the climbing mode to a CharacterController: entering
// and leaving walls, the per-tick climb physics, and the vault, hop,
// climb-down and climb-to-top moves.
//
// It needs a CharacterController on the same object. An Animator is optional;
// without one, moves that need a clip are refused and climb-down places the
// character directly.
type ClimbingMovement struct {
	engine.BaseComponent

	Tunables config.ClimbTunables
	Log      logrus.FieldLogger
	Metrics  *metrics.Metrics
	// Debug logs every probe at trace level.
	Debug bool

	OnEnterClimb engine.Event
	OnExitClimb  engine.Event

	controller *CharacterController
	animator   *Animator
	warp       *MotionWarpTargets
	probe      SurfaceProbe
	clips      climbClips

	hits    []engine.Hit
	surface SurfaceSample

	standingHalfHeight float32
	savedOrient        bool
	climbDownNormal    rl.Vector3
}

func NewClimbingMovement() *ClimbingMovement {
	c := &ClimbingMovement{
		Tunables: config.DefaultClimbTunables(),
		Log:      logrus.StandardLogger().WithField("subsystem", "climb"),
	}
	c.buildClips()
	return c
}

// Configure replaces the climb tunables.
func (c *ClimbingMovement) Configure(cfg *config.Config) {
	c.Tunables = cfg.Climb
	c.buildClips()
	c.applyTunables()
}

func (c *ClimbingMovement) SetMetrics(m *metrics.Metrics) { c.Metrics = m }

func newClip(cfg config.ClipConfig, targets ...string) *Clip {
	if cfg.Name == "" {
		return nil
	}
	return &Clip{Name: cfg.Name, Duration: cfg.Duration, WarpTargets: targets}
}

func (c *ClimbingMovement) buildClips() {
	clips := c.Tunables.Clips
	c.clips = climbClips{
		idleToClimb:    newClip(clips.IdleToClimb),
		climbToTop:     newClip(clips.ClimbToTop, WarpClimbToTopUp, WarpClimbToTop),
		climbDownLedge: newClip(clips.ClimbDownLedge, WarpClimbDownOver, WarpClimbDownLedge),
		vault:          newClip(clips.Vault, WarpVaultStart, WarpVaultLand),
		hopUp:          newClip(clips.HopUp, WarpHopUp),
		hopDown:        newClip(clips.HopDown, WarpHopDown),
	}
}

func (c *ClimbingMovement) applyTunables() {
	c.probe.Radius = c.Tunables.TraceRadius
	c.probe.HalfHeight = c.Tunables.TraceHalfHeight
	c.probe.ForwardOffset = c.Tunables.ForwardTraceOffset
	if c.controller != nil {
		c.probe.EyeHeight = c.controller.Tunables.EyeHeight
		c.controller.SetSpeedLimits(ModeClimbing, c.Tunables.MaxClimbSpeed, c.Tunables.MaxClimbAcceleration)
	}
}

func (c *ClimbingMovement) Start() {
	g := c.GetGameObject()
	c.probe = SurfaceProbe{
		Owner:  g,
		Log:    c.Log,
		Filter: engine.WorldStatic | engine.WorldDynamic,
	}

	c.controller = engine.GetComponent[*CharacterController](g)
	if c.controller == nil {
		c.Log.WithField("object", g.Name).Warn("no CharacterController, climbing disabled")
		return
	}
	c.applyTunables()
	c.controller.RegisterCustomPhysics(ModeClimbing, c.StepClimb)
	c.controller.SetRootMotionConstraint(c.constrainRootMotion)
	c.controller.OnModeChanged.AddListener(c.onModeChanged)

	c.animator = engine.GetComponent[*Animator](g)
	if c.animator == nil {
		c.Log.WithField("object", g.Name).Warn("no Animator, clip moves disabled")
	} else {
		c.animator.OnClipEnded.AddListener(c.onClipEnded)
		c.controller.SetRootMotionSource(c.animator)
	}

	c.warp = engine.GetComponent[*MotionWarpTargets](g)
	if c.warp == nil {
		c.warp = NewMotionWarpTargets()
		c.warp.Log = c.Log
		if c.animator != nil {
			c.warp.Sink = c.animator
		}
		g.AddComponent(c.warp)
	}
}

func (c *ClimbingMovement) IsClimbing() bool {
	return c.controller != nil && c.controller.IsClimbing()
}

// Surface returns the surface sample from the latest probe.
func (c *ClimbingMovement) Surface() SurfaceSample { return c.surface }

func (c *ClimbingMovement) SurfaceNormal() rl.Vector3 { return c.surface.Normal }

// UnrotatedClimbVelocity is the velocity in the character's local frame.
func (c *ClimbingMovement) UnrotatedClimbVelocity() rl.Vector3 {
	if c.controller == nil {
		return rl.Vector3{}
	}
	return engine.UnrotateVector(c.controller.Velocity(), c.GetGameObject().Transform.Rotation)
}

func (c *ClimbingMovement) transform() engine.Transform {
	return c.GetGameObject().Transform
}

// refreshSurface probes forward and aggregates the result.
func (c *ClimbingMovement) refreshSurface() bool {
	t := c.transform()
	c.hits = c.probe.ProbeForward(t.Position, t.Forward(), c.Debug)
	c.surface = Aggregate(c.hits)
	return len(c.hits) > 0
}

// CanStartClimbing requires being on the ground, a surface in front and a
// blocking eye-height ray.
func (c *ClimbingMovement) CanStartClimbing() bool {
	if c.controller == nil || c.controller.IsFalling() || c.IsClimbing() {
		return false
	}
	if !c.refreshSurface() {
		return false
	}
	return c.probe.TraceFromEyeHeight(c.Tunables.EyeTraceDistance, 0, c.Debug).Blocking
}

// TryStartClimbing enters climbing when allowed, through the idle-to-climb
// clip when one is configured.
func (c *ClimbingMovement) TryStartClimbing() bool {
	if !c.CanStartClimbing() {
		c.Log.Debug("can not start climbing")
		return false
	}
	if c.animator != nil && c.clips.idleToClimb != nil {
		if !c.animator.PlayClip(c.clips.idleToClimb) {
			return false
		}
		c.Metrics.ClimbTransition("idle_to_climb")
		return true
	}
	c.StartClimbing()
	return true
}

func (c *ClimbingMovement) StartClimbing() {
	if c.controller != nil {
		c.controller.SetMovementMode(ModeClimbing)
	}
}

// StopClimbing drops into falling.
func (c *ClimbingMovement) StopClimbing() {
	if c.IsClimbing() {
		c.controller.SetMovementMode(ModeFalling)
	}
}

func (c *ClimbingMovement) onModeChanged(change ModeChange) {
	capsule := c.controller.Capsule()
	if change.Current == ModeClimbing {
		c.savedOrient = c.controller.OrientRotationToMovement
		c.controller.OrientRotationToMovement = false
		if capsule != nil {
			c.standingHalfHeight = capsule.HalfHeight
			capsule.SetSize(capsule.Radius, capsule.HalfHeight/2)
		}
		c.Metrics.ClimbTransition("enter")
		c.Log.Debug("entered climbing")
		c.OnEnterClimb.Invoke()
	}

	if change.Previous == ModeClimbing {
		c.controller.OrientRotationToMovement = c.savedOrient
		if capsule != nil && c.standingHalfHeight > 0 {
			capsule.SetSize(capsule.Radius, c.standingHalfHeight)
		}
		g := c.GetGameObject()
		g.Transform.Rotation = engine.YawOnly(g.Transform.Rotation)
		c.controller.StopMovementImmediately()
		c.Metrics.ClimbTransition("exit")
		c.Log.WithField("to", change.Current).Debug("exited climbing")
		c.OnExitClimb.Invoke()
	}
}

// ShouldStopClimbing reports whether a surface is too flat to climb: its
// tilt from world-up is at most maxDegree.
func ShouldStopClimbing(normal rl.Vector3, maxDegree float32) bool {
	return engine.AngleDegrees(normal, engine.WorldUp) <= maxDegree
}

func (c *ClimbingMovement) shouldStop() bool {
	return len(c.hits) == 0 || ShouldStopClimbing(c.surface.Normal, c.Tunables.MaxClimbableDegree)
}

func (c *ClimbingMovement) isFloor(normal rl.Vector3) bool {
	tilt := engine.AngleDegrees(normal, engine.WorldUp)
	if c.Tunables.FloorMode == config.FloorFlat {
		return tilt <= c.Tunables.FlatFloorTolerance
	}
	return tilt <= c.Tunables.MaxClimbableDegree
}

// HasReachedFloor sweeps below the character for a floor while it climbs down.
func (c *ClimbingMovement) HasReachedFloor() bool {
	t := c.transform()
	down := rl.Vector3Negate(t.Up())
	start := rl.Vector3Add(t.Position, rl.Vector3Scale(down, c.Tunables.MinimumHeightToClimb))
	end := rl.Vector3Add(start, down)

	w := c.GetGameObject().World()
	if w == nil {
		return false
	}
	hits := w.SweepCapsule(start, end, c.Tunables.TraceRadius, c.Tunables.TraceHalfHeight, c.probe.Filter)
	if c.Debug {
		c.Log.WithFields(logrus.Fields{"start": start, "hits": len(hits)}).Trace("floor probe")
	}
	if c.UnrotatedClimbVelocity().Y >= -c.Tunables.VerticalVelocityThreshold {
		return false
	}
	for _, h := range hits {
		if h.Blocking && c.isFloor(h.ImpactNormal) {
			return true
		}
	}
	return false
}

// ledgeTop finds the top of the wall above the character: a clear ray at
// reach height, then a ray down from its end that must block.
func (c *ClimbingMovement) ledgeTop() (engine.Hit, bool) {
	reach := c.Tunables.MaximumHeightToReach
	eye := c.probe.TraceFromEyeHeight(2*reach, reach, c.Debug)
	if eye.Blocking {
		return engine.Hit{}, false
	}
	down := rl.Vector3Negate(c.transform().Up())
	end := rl.Vector3Add(eye.TraceEnd, rl.Vector3Scale(down, c.Tunables.EyeTraceDistance))
	top := c.probe.Line(eye.TraceEnd, end, c.Debug)
	return top, top.Blocking
}

// HasReachedLedge reports a climbable top while moving up.
func (c *ClimbingMovement) HasReachedLedge() bool {
	if _, ok := c.ledgeTop(); !ok {
		return false
	}
	return c.UnrotatedClimbVelocity().Y > c.Tunables.VerticalVelocityThreshold
}

// StepClimb is the climbing physics for one tick.
func (c *ClimbingMovement) StepClimb(deltaTime float32) {
	if c.controller == nil || deltaTime < c.Tunables.MinTickTime {
		return
	}
	ctrl := c.controller
	g := c.GetGameObject()

	c.refreshSurface()
	if c.shouldStop() || c.HasReachedFloor() {
		c.StopClimbing()
		return
	}

	ctrl.RestorePreAdditiveRootMotionVelocity()
	rootMotion := ctrl.HasRootMotion()
	if !rootMotion {
		ctrl.CalcVelocity(deltaTime, 0, c.Tunables.BrakingDeceleration, c.Tunables.MaxClimbSpeed, c.Tunables.MaxClimbAcceleration)
	}
	ctrl.ApplyRootMotionToVelocity(deltaTime)

	old := g.Transform.Position
	delta := rl.Vector3Scale(ctrl.Velocity(), deltaTime)
	if hit := ctrl.SafeMove(delta, c.ClimbRotation(deltaTime)); hit.Blocking {
		ctrl.HandleImpact(hit)
		ctrl.SlideAlongSurface(delta, 1-hit.Time, hit.ImpactNormal)
	}

	if !rootMotion {
		ctrl.SetVelocity(rl.Vector3Scale(rl.Vector3Subtract(g.Transform.Position, old), 1/deltaTime))
	}

	c.SnapToSurface(deltaTime)

	if c.HasReachedLedge() {
		c.playClimbToTop()
	}
}

// ClimbRotation turns the character to face into the surface. Root motion
// keeps the current rotation.
func (c *ClimbingMovement) ClimbRotation(deltaTime float32) rl.Quaternion {
	current := c.transform().Rotation
	if c.controller.HasRootMotion() || !c.surface.Valid {
		return current
	}
	target := engine.QuatFromForward(rl.Vector3Negate(c.surface.Normal))
	return engine.QuatInterpTo(current, target, deltaTime, c.Tunables.RotationInterpSpeed)
}

// SnapToSurface pulls the character toward the surface in proportion to the
// gap along its forward axis.
func (c *ClimbingMovement) SnapToSurface(deltaTime float32) {
	if !c.surface.Valid {
		return
	}
	t := c.transform()
	gap := engine.ProjectOnto(rl.Vector3Subtract(c.surface.Position, t.Position), t.Forward())
	snap := rl.Vector3Scale(rl.Vector3Negate(c.surface.Normal), rl.Vector3Length(gap))
	c.controller.SafeMove(rl.Vector3Scale(snap, deltaTime*c.Tunables.MaxClimbSpeed), t.Rotation)
}

// standingOffset lifts a ground anchor to where a standing capsule centre sits.
func (c *ClimbingMovement) standingOffset() rl.Vector3 {
	return rl.Vector3Scale(engine.WorldUp, c.controller.Tunables.CapsuleHalfHeight)
}

func (c *ClimbingMovement) playClimbToTop() {
	if c.animator == nil || c.clips.climbToTop == nil || c.animator.IsPlaying() {
		return
	}
	top, ok := c.ledgeTop()
	if !ok {
		return
	}
	pos := c.transform().Position
	land := rl.Vector3Add(top.ImpactPoint, c.standingOffset())
	rise := rl.Vector3{X: pos.X, Y: land.Y, Z: pos.Z}
	c.warp.SetTarget(WarpClimbToTopUp, rise)
	c.warp.SetTarget(WarpClimbToTop, land)
	if c.animator.PlayClip(c.clips.climbToTop) {
		c.Metrics.ClimbTransition("climb_to_top")
	}
}

// CanStartClimbingDown looks for a wall below a drop in front of the
// character, only when it can not climb up instead. The wall ray is cast from
// the lowered point back toward the character. It returns the wall hit.
func (c *ClimbingMovement) CanStartClimbingDown() (engine.Hit, bool) {
	if c.controller == nil || c.controller.IsFalling() || c.IsClimbing() {
		return engine.Hit{}, false
	}
	if c.CanStartClimbing() {
		return engine.Hit{}, false
	}
	t := c.transform()
	fwd := t.Forward()
	down := rl.Vector3Negate(t.Up())

	depth := c.Tunables.MaximumHeightToReach
	if capsule := c.controller.Capsule(); capsule != nil {
		depth += capsule.HalfHeight * 2
	}
	start := rl.Vector3Add(t.Position, rl.Vector3Scale(fwd, c.Tunables.ClimbDownForwardOffset))
	end := rl.Vector3Add(start, rl.Vector3Scale(down, depth))
	if c.probe.Line(start, end, c.Debug).Blocking {
		return engine.Hit{}, false
	}

	// Back toward the character: the face of the ledge it stands on.
	wall := c.probe.ProbeSight(end, rl.Vector3Negate(fwd), c.Tunables.EyeTraceDistance, c.Debug)
	return wall, wall.Blocking
}

// TryStartClimbingDown moves onto the wall below the ledge and starts
// climbing there.
func (c *ClimbingMovement) TryStartClimbingDown() bool {
	wall, ok := c.CanStartClimbingDown()
	if !ok {
		return false
	}
	radius := c.controller.Tunables.CapsuleRadius
	if capsule := c.controller.Capsule(); capsule != nil {
		radius = capsule.Radius
	}
	target := rl.Vector3Add(wall.ImpactPoint, rl.Vector3Scale(wall.ImpactNormal, radius))
	c.climbDownNormal = wall.ImpactNormal

	g := c.GetGameObject()
	if c.animator == nil || c.clips.climbDownLedge == nil {
		g.Transform.Position = target
		c.faceClimbDownWall()
		c.StartClimbing()
		c.Metrics.ClimbTransition("climb_down")
		return true
	}

	over := rl.Vector3{X: target.X, Y: g.Transform.Position.Y, Z: target.Z}
	c.warp.SetTarget(WarpClimbDownOver, over)
	c.warp.SetTarget(WarpClimbDownLedge, target)
	if !c.animator.PlayClip(c.clips.climbDownLedge) {
		return false
	}
	c.Metrics.ClimbTransition("climb_down")
	return true
}

func (c *ClimbingMovement) faceClimbDownWall() {
	if rl.Vector3Length(c.climbDownNormal) == 0 {
		return
	}
	c.GetGameObject().Transform.Rotation = engine.QuatFromForward(rl.Vector3Negate(c.climbDownNormal))
}

// vaultPoints samples downward rays at increasing distances ahead and
// returns the start and land anchors.
func (c *ClimbingMovement) vaultPoints() (start, land rl.Vector3, ok bool) {
	t := c.transform()
	fwd, up := t.Forward(), t.Up()
	down := rl.Vector3Negate(up)
	var haveStart, haveLand bool

	for i := 0; i < c.Tunables.VaultSamples; i++ {
		step := float32(i + 1)
		from := rl.Vector3Add(t.Position, rl.Vector3Scale(up, c.Tunables.VaultTraceHeight))
		from = rl.Vector3Add(from, rl.Vector3Scale(fwd, c.Tunables.VaultTraceStep*step))
		to := rl.Vector3Add(from, rl.Vector3Scale(down, c.Tunables.VaultTraceHeight*step))
		hit := c.probe.Line(from, to, c.Debug)

		if !hit.Blocking {
			continue
		}
		switch i {
		case c.Tunables.VaultStartIndex:
			start, haveStart = hit.ImpactPoint, true
		case c.Tunables.VaultLandIndex:
			land, haveLand = hit.ImpactPoint, true
		}
	}
	return start, land, haveStart && haveLand
}

func (c *ClimbingMovement) CanStartVaulting() bool {
	if c.controller == nil || c.controller.IsFalling() {
		return false
	}
	_, _, ok := c.vaultPoints()
	return ok
}

// TryStartVaulting warps over an obstacle using its top and the ground
// beyond it.
func (c *ClimbingMovement) TryStartVaulting() bool {
	if c.controller == nil || c.controller.IsFalling() {
		return false
	}
	start, land, ok := c.vaultPoints()
	if !ok {
		return false
	}
	if c.animator == nil || c.clips.vault == nil || c.animator.IsPlaying() {
		c.Log.Debug("vault needs an idle animator")
		return false
	}
	c.warp.SetTarget(WarpVaultStart, rl.Vector3Add(start, c.standingOffset()))
	c.warp.SetTarget(WarpVaultLand, rl.Vector3Add(land, c.standingOffset()))
	c.StartClimbing()
	if !c.animator.PlayClip(c.clips.vault) {
		return false
	}
	c.Metrics.ClimbTransition("vault")
	return true
}

// wallLevel returns the point flush with the wall at the character's current
// height, from an eye trace started startOffset above eye height.
func (c *ClimbingMovement) wallLevel(hit engine.Hit, startOffset float32) rl.Vector3 {
	t := c.transform()
	radius := c.controller.Tunables.CapsuleRadius
	if capsule := c.controller.Capsule(); capsule != nil {
		radius = capsule.Radius
	}
	p := rl.Vector3Add(hit.ImpactPoint, rl.Vector3Scale(hit.ImpactNormal, radius))
	return rl.Vector3Subtract(p, rl.Vector3Scale(t.Up(), c.probe.EyeHeight+startOffset))
}

// RequestHopUp hops up the wall when there is wall ahead at the hop height
// and further above it.
func (c *ClimbingMovement) RequestHopUp() bool {
	if !c.IsClimbing() || c.animator == nil || c.clips.hopUp == nil || c.animator.IsPlaying() {
		return false
	}
	tun := c.Tunables
	hop := c.probe.TraceFromEyeHeight(tun.HopTraceDistance, tun.HopUpOffset, c.Debug)
	safety := c.probe.TraceFromEyeHeight(tun.HopTraceDistance, tun.HopUpSafetyOffset, c.Debug)
	if !hop.Blocking || !safety.Blocking {
		c.Log.Debug("can not hop up")
		return false
	}
	target := rl.Vector3Add(c.wallLevel(hop, tun.HopUpOffset), rl.Vector3Scale(c.transform().Up(), tun.HopUpHeight))
	c.warp.SetTarget(WarpHopUp, target)
	if !c.animator.PlayClip(c.clips.hopUp) {
		return false
	}
	c.Metrics.ClimbTransition("hop_up")
	return true
}

// RequestHopDown hops down the wall when there is wall far below.
func (c *ClimbingMovement) RequestHopDown() bool {
	if !c.IsClimbing() || c.animator == nil || c.clips.hopDown == nil || c.animator.IsPlaying() {
		return false
	}
	tun := c.Tunables
	hop := c.probe.TraceFromEyeHeight(tun.HopTraceDistance, tun.HopDownOffset, c.Debug)
	if !hop.Blocking {
		c.Log.Debug("can not hop down")
		return false
	}
	target := rl.Vector3Subtract(c.wallLevel(hop, tun.HopDownOffset), rl.Vector3Scale(c.transform().Up(), tun.HopDownHeight))
	c.warp.SetTarget(WarpHopDown, target)
	if !c.animator.PlayClip(c.clips.hopDown) {
		return false
	}
	c.Metrics.ClimbTransition("hop_down")
	return true
}

// constrainRootMotion lets a clip keep full control after the character
// loses the wall mid-move.
func (c *ClimbingMovement) constrainRootMotion(mode MovementMode, rootMotion, current rl.Vector3) rl.Vector3 {
	if mode == ModeFalling && c.animator != nil && c.animator.IsPlaying() {
		return rootMotion
	}
	return DefaultRootMotionConstraint(mode, rootMotion, current)
}

func (c *ClimbingMovement) onClipEnded(e ClipEnded) {
	if e.Interrupted {
		c.Log.WithField("clip", e.Clip.Name).Debug("clip interrupted")
	}
	switch e.Clip {
	case nil:
	case c.clips.idleToClimb:
		c.StartClimbing()
		c.controller.StopMovementImmediately()
	case c.clips.climbDownLedge:
		c.faceClimbDownWall()
		c.StartClimbing()
		c.controller.StopMovementImmediately()
	case c.clips.climbToTop, c.clips.vault:
		c.controller.SetMovementMode(ModeWalking)
	}
}
