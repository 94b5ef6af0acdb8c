package components

import (
	"traverse3d/internal/config"
	"traverse3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// MovementMode is the locomotion state of a character. Only the
// CharacterController changes it.
type MovementMode uint8

const (
	ModeWalking MovementMode = iota
	ModeFalling
	ModeClimbing
)

func (m MovementMode) String() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeFalling:
		return "falling"
	case ModeClimbing:
		return "climbing"
	}
	return "unknown"
}

type ModeChange struct {
	Previous MovementMode
	Current  MovementMode
}

// RootMotionSource supplies an override velocity while a procedural clip is
// driving the character.
type RootMotionSource interface {
	RootMotionVelocity() (rl.Vector3, bool)
}

// RootMotionConstraint adjusts a root motion velocity before it replaces the
// character's velocity.
type RootMotionConstraint func(mode MovementMode, rootMotion, current rl.Vector3) rl.Vector3

type speedLimits struct {
	maxSpeed, maxAccel float32
}

const (
	minTickTime         = 1e-6
	brakingSubStepTime  = 1.0 / 33
	brakeToStopVelocity = 10
	penetrationPullback = 0.125
)

// CharacterController moves a vertical capsule through the world with
// acceleration-based walking and falling. Other movement modes are handled by
// registered custom physics functions.
type CharacterController struct {
	engine.BaseComponent

	Tunables config.LocomotionTunables
	Log      logrus.FieldLogger

	// OrientRotationToMovement turns the character toward its acceleration.
	OrientRotationToMovement bool
	CollisionFilter          engine.ObjectType

	OnModeChanged engine.EventWithArg[ModeChange]
	OnImpact      engine.EventWithArg[engine.Hit]

	mode         MovementMode
	velocity     rl.Vector3
	pendingInput rl.Vector3
	lastInput    rl.Vector3
	inputDir     rl.Vector3
	acceleration rl.Vector3

	capsule    *CapsuleCollider
	rootMotion RootMotionSource

	customPhysics map[MovementMode]func(deltaTime float32)
	limits        map[MovementMode]speedLimits
	constrainRM   RootMotionConstraint

	preRootMotionVelocity rl.Vector3
	rootMotionApplied     bool
	warnedMissingPhysics  bool
}

func NewCharacterController() *CharacterController {
	return &CharacterController{
		Tunables:                 config.DefaultLocomotionTunables(),
		Log:                      logrus.StandardLogger().WithField("subsystem", "locomotion"),
		OrientRotationToMovement: true,
		CollisionFilter:          engine.WorldStatic | engine.WorldDynamic,
		mode:                     ModeFalling,
		customPhysics:            map[MovementMode]func(float32){},
		limits:                   map[MovementMode]speedLimits{},
	}
}

// Configure replaces the locomotion tunables and resizes the capsule.
func (c *CharacterController) Configure(cfg *config.Config) {
	c.Tunables = cfg.Locomotion
	if c.capsule != nil {
		c.capsule.SetSize(c.Tunables.CapsuleRadius, c.Tunables.CapsuleHalfHeight)
	}
}

func (c *CharacterController) Start() {
	g := c.GetGameObject()
	c.capsule = engine.GetComponent[*CapsuleCollider](g)
	if c.capsule == nil {
		c.capsule = NewCapsuleCollider(c.Tunables.CapsuleRadius, c.Tunables.CapsuleHalfHeight)
		g.AddComponent(c.capsule)
	}
	if c.rootMotion == nil {
		if src, ok := engine.FindComponent[RootMotionSource](g); ok {
			c.rootMotion = src
		}
	}
}

// Capsule returns the capsule being moved. Nil before Start.
func (c *CharacterController) Capsule() *CapsuleCollider {
	return c.capsule
}

func (c *CharacterController) SetRootMotionSource(src RootMotionSource) {
	c.rootMotion = src
}

// RegisterCustomPhysics installs the per-tick physics for mode.
func (c *CharacterController) RegisterCustomPhysics(mode MovementMode, step func(deltaTime float32)) {
	c.customPhysics[mode] = step
}

// SetSpeedLimits overrides MaxSpeed and MaxAcceleration while in mode.
func (c *CharacterController) SetSpeedLimits(mode MovementMode, maxSpeed, maxAccel float32) {
	c.limits[mode] = speedLimits{maxSpeed: maxSpeed, maxAccel: maxAccel}
}

// SetRootMotionConstraint replaces the default root motion constraint. Nil
// restores the default.
func (c *CharacterController) SetRootMotionConstraint(fn RootMotionConstraint) {
	c.constrainRM = fn
}

func (c *CharacterController) Mode() MovementMode { return c.mode }
func (c *CharacterController) IsFalling() bool    { return c.mode == ModeFalling }
func (c *CharacterController) IsClimbing() bool   { return c.mode == ModeClimbing }
func (c *CharacterController) IsMovingOnGround() bool {
	return c.mode == ModeWalking
}

// SetMovementMode switches mode and fires OnModeChanged. Setting the current
// mode does nothing.
func (c *CharacterController) SetMovementMode(mode MovementMode) {
	if mode == c.mode {
		return
	}
	prev := c.mode
	c.mode = mode
	if mode == ModeWalking {
		c.velocity.Y = 0
	}
	c.Log.WithFields(logrus.Fields{"from": prev, "to": mode}).Debug("movement mode changed")
	c.OnModeChanged.Invoke(ModeChange{Previous: prev, Current: mode})
}

func (c *CharacterController) Velocity() rl.Vector3     { return c.velocity }
func (c *CharacterController) SetVelocity(v rl.Vector3) { c.velocity = v }

// CurrentAcceleration is the acceleration requested by this tick's input.
func (c *CharacterController) CurrentAcceleration() rl.Vector3 { return c.acceleration }

func (c *CharacterController) MaxSpeed() float32 {
	if l, ok := c.limits[c.mode]; ok {
		return l.maxSpeed
	}
	return c.Tunables.MaxWalkSpeed
}

func (c *CharacterController) MaxAcceleration() float32 {
	if l, ok := c.limits[c.mode]; ok {
		return l.maxAccel
	}
	return c.Tunables.MaxAcceleration
}

// AddMovementInput accumulates input for the next physics step.
func (c *CharacterController) AddMovementInput(direction rl.Vector3, scale float32) {
	c.pendingInput = rl.Vector3Add(c.pendingInput, rl.Vector3Scale(direction, scale))
}

// ConsumeInputVector returns and clears the pending input. The returned
// value is remembered as LastInputVector.
func (c *CharacterController) ConsumeInputVector() rl.Vector3 {
	in := c.pendingInput
	c.pendingInput = rl.Vector3{}
	c.lastInput = in
	return in
}

func (c *CharacterController) LastInputVector() rl.Vector3 { return c.lastInput }

// Jump launches a walking character upward. It returns false in any other mode.
func (c *CharacterController) Jump() bool {
	if c.mode != ModeWalking {
		return false
	}
	c.SetMovementMode(ModeFalling)
	c.velocity.Y = c.Tunables.JumpVelocity
	return true
}

func (c *CharacterController) StopMovementImmediately() {
	c.velocity = rl.Vector3{}
	c.preRootMotionVelocity = rl.Vector3{}
}

func (c *CharacterController) Update(deltaTime float32) {
	g := c.GetGameObject()
	if g == nil || deltaTime < minTickTime {
		return
	}

	input := c.ConsumeInputVector()
	if c.mode != ModeClimbing {
		input.Y = 0
	}
	if l := rl.Vector3Length(input); l > 1 {
		input = rl.Vector3Scale(input, 1/l)
	}
	c.inputDir = input
	c.acceleration = rl.Vector3Scale(input, c.MaxAcceleration())

	switch c.mode {
	case ModeWalking:
		c.physWalking(deltaTime)
	case ModeFalling:
		c.physFalling(deltaTime)
	default:
		step := c.customPhysics[c.mode]
		if step == nil {
			if !c.warnedMissingPhysics {
				c.Log.WithField("mode", c.mode).Warn("no physics registered for mode, falling instead")
				c.warnedMissingPhysics = true
			}
			c.SetMovementMode(ModeFalling)
			c.physFalling(deltaTime)
			return
		}
		step(deltaTime)
	}

	if c.mode != ModeClimbing {
		c.orientToMovement(deltaTime)
	}
}

// CalcVelocity accelerates toward this tick's input direction with
// friction, or brakes when there is no input. The result never exceeds
// maxSpeed.
func (c *CharacterController) CalcVelocity(deltaTime, friction, brakingDecel, maxSpeed, maxAccel float32) {
	c.calcVelocity(deltaTime, friction, brakingDecel, maxSpeed, rl.Vector3Scale(c.inputDir, maxAccel))
}

func (c *CharacterController) calcVelocity(deltaTime, friction, brakingDecel, maxSpeed float32, accel rl.Vector3) {
	if deltaTime < minTickTime {
		return
	}
	if rl.Vector3Length(accel) < 1e-6 {
		c.ApplyVelocityBraking(deltaTime, friction, brakingDecel)
		return
	}

	// Friction turns existing velocity toward the acceleration direction.
	speed := rl.Vector3Length(c.velocity)
	accelDir := rl.Vector3Normalize(accel)
	turn := min(deltaTime*friction, 1)
	c.velocity = rl.Vector3Subtract(c.velocity,
		rl.Vector3Scale(rl.Vector3Subtract(c.velocity, rl.Vector3Scale(accelDir, speed)), turn))

	c.velocity = rl.Vector3Add(c.velocity, rl.Vector3Scale(accel, deltaTime))
	c.velocity = clampLength(c.velocity, maxSpeed)
}

func clampLength(v rl.Vector3, maxLen float32) rl.Vector3 {
	if l := rl.Vector3Length(v); l > maxLen && l > 0 {
		return rl.Vector3Scale(v, maxLen/l)
	}
	return v
}

// ApplyVelocityBraking slows the character without reversing its direction.
func (c *CharacterController) ApplyVelocityBraking(deltaTime, friction, brakingDecel float32) {
	if rl.Vector3Length(c.velocity) < 1e-6 || deltaTime < minTickTime {
		return
	}
	friction = max(friction, 0)
	brakingDecel = max(brakingDecel, 0)
	if friction == 0 && brakingDecel == 0 {
		return
	}

	old := c.velocity
	revAccel := rl.Vector3Scale(rl.Vector3Normalize(old), -brakingDecel)
	for remaining := deltaTime; remaining >= minTickTime; {
		dt := min(remaining, brakingSubStepTime)
		remaining -= dt
		change := rl.Vector3Add(rl.Vector3Scale(c.velocity, -friction), revAccel)
		c.velocity = rl.Vector3Add(c.velocity, rl.Vector3Scale(change, dt))
		if rl.Vector3DotProduct(c.velocity, old) <= 0 {
			c.velocity = rl.Vector3{}
			return
		}
	}

	if l := rl.Vector3Length(c.velocity); l < 1e-2 || (brakingDecel > 0 && l <= brakeToStopVelocity) {
		c.velocity = rl.Vector3{}
	}
}

// HasRootMotion reports whether a procedural clip is currently driving velocity.
func (c *CharacterController) HasRootMotion() bool {
	if c.rootMotion == nil {
		return false
	}
	_, ok := c.rootMotion.RootMotionVelocity()
	return ok
}

// RestorePreAdditiveRootMotionVelocity undoes last tick's root motion
// override so it does not feed back into integration.
func (c *CharacterController) RestorePreAdditiveRootMotionVelocity() {
	if !c.rootMotionApplied {
		return
	}
	c.velocity = c.preRootMotionVelocity
	c.rootMotionApplied = false
}

// ApplyRootMotionToVelocity replaces velocity with the constrained root
// motion velocity when a clip is driving.
func (c *CharacterController) ApplyRootMotionToVelocity(deltaTime float32) {
	if c.rootMotion == nil || deltaTime < minTickTime {
		return
	}
	rm, ok := c.rootMotion.RootMotionVelocity()
	if !ok {
		return
	}
	c.preRootMotionVelocity = c.velocity
	c.rootMotionApplied = true
	constrain := c.constrainRM
	if constrain == nil {
		constrain = DefaultRootMotionConstraint
	}
	c.velocity = constrain(c.mode, rm, c.velocity)
}

// DefaultRootMotionConstraint keeps gravity's vertical velocity while falling.
func DefaultRootMotionConstraint(mode MovementMode, rootMotion, current rl.Vector3) rl.Vector3 {
	if mode == ModeFalling {
		rootMotion.Y = current.Y
	}
	return rootMotion
}

// SafeMove sweeps the capsule by delta, stopping at the first blocking hit.
// A capsule that starts inside geometry is pushed out and the move retried.
func (c *CharacterController) SafeMove(delta rl.Vector3, rotation rl.Quaternion) engine.Hit {
	g := c.GetGameObject()
	g.Transform.Rotation = rotation

	hit := c.moveCapsule(delta)
	if hit.StartPenetrating {
		adjust := rl.Vector3Scale(hit.ImpactNormal, hit.Penetration+penetrationPullback)
		c.Log.WithFields(logrus.Fields{"object": hitName(hit), "depth": hit.Penetration}).Trace("depenetrating")
		g.Transform.Position = rl.Vector3Add(g.Transform.Position, adjust)
		hit = c.moveCapsule(delta)
		if hit.StartPenetrating {
			// Still stuck: report without moving further.
			return hit
		}
	}
	return hit
}

func (c *CharacterController) moveCapsule(delta rl.Vector3) engine.Hit {
	g := c.GetGameObject()
	start := g.Transform.Position
	end := rl.Vector3Add(start, delta)
	if rl.Vector3Length(delta) < 1e-6 {
		return engine.NoHit(start, end)
	}

	world := g.World()
	if world == nil || c.capsule == nil {
		g.Transform.Position = end
		return engine.NoHit(start, end)
	}

	for _, h := range world.SweepCapsule(start, end, c.capsule.Radius, c.capsule.HalfHeight, c.CollisionFilter) {
		if !h.Blocking {
			continue
		}
		if h.StartPenetrating {
			// Moving out of an overlap is allowed.
			if rl.Vector3DotProduct(delta, h.ImpactNormal) >= 0 {
				continue
			}
			return h
		}
		g.Transform.Position = h.Location
		return h
	}
	g.Transform.Position = end
	return engine.NoHit(start, end)
}

// HandleImpact notifies OnImpact listeners about a blocking hit.
func (c *CharacterController) HandleImpact(hit engine.Hit) {
	c.OnImpact.Invoke(hit)
}

// SlideAlongSurface moves the remaining part of delta along the plane of
// normal. Returns the fraction of delta applied.
func (c *CharacterController) SlideAlongSurface(delta rl.Vector3, remainingTime float32, normal rl.Vector3) float32 {
	g := c.GetGameObject()
	if c.mode == ModeWalking && !c.IsWalkable(normal) {
		// Don't slide up walls while walking.
		normal.Y = 0
		if rl.Vector3Length(normal) < 1e-6 {
			return 0
		}
		normal = rl.Vector3Normalize(normal)
	}

	applied := float32(0)
	for i := 0; i < max(c.Tunables.MaxSlideIteration, 1); i++ {
		slide := rl.Vector3Scale(rl.Vector3Subtract(delta, engine.ProjectOnto(delta, normal)), remainingTime)
		if rl.Vector3DotProduct(slide, delta) <= 0 {
			break
		}
		hit := c.SafeMove(slide, g.Transform.Rotation)
		if !hit.Blocking {
			applied += remainingTime
			break
		}
		c.HandleImpact(hit)
		applied += remainingTime * hit.Time
		remainingTime *= 1 - hit.Time
		delta = slide
		normal = hit.ImpactNormal
	}
	return applied
}

// IsWalkable reports whether a surface normal is flat enough to stand on.
func (c *CharacterController) IsWalkable(normal rl.Vector3) bool {
	return normal.Y > 0 && engine.AngleDegrees(normal, engine.WorldUp) <= c.Tunables.WalkableFloorDeg
}

// FindFloor sweeps the capsule down by the floor probe depth and returns the
// nearest walkable hit.
func (c *CharacterController) FindFloor() (engine.Hit, bool) {
	g := c.GetGameObject()
	world := g.World()
	if world == nil || c.capsule == nil {
		return engine.Hit{}, false
	}
	start := g.Transform.Position
	end := rl.Vector3Add(start, rl.Vector3Scale(engine.WorldUp, -c.Tunables.FloorProbeDepth))
	for _, h := range world.SweepCapsule(start, end, c.capsule.Radius, c.capsule.HalfHeight, c.CollisionFilter) {
		if h.Blocking && c.IsWalkable(h.ImpactNormal) {
			return h, true
		}
	}
	return engine.Hit{}, false
}

func (c *CharacterController) physWalking(deltaTime float32) {
	g := c.GetGameObject()
	c.RestorePreAdditiveRootMotionVelocity()
	if !c.HasRootMotion() {
		c.velocity.Y = 0
		c.CalcVelocity(deltaTime, c.Tunables.GroundFriction, c.Tunables.BrakingDecelWalk, c.MaxSpeed(), c.MaxAcceleration())
	}
	c.ApplyRootMotionToVelocity(deltaTime)

	old := g.Transform.Position
	delta := rl.Vector3Scale(c.velocity, deltaTime)
	if hit := c.SafeMove(delta, g.Transform.Rotation); hit.Blocking {
		c.HandleImpact(hit)
		c.SlideAlongSurface(delta, 1-hit.Time, hit.ImpactNormal)
	}

	floor, ok := c.FindFloor()
	if !ok {
		c.SetMovementMode(ModeFalling)
		return
	}
	if floor.StartPenetrating {
		g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(floor.ImpactNormal, floor.Penetration))
	} else if !c.HasRootMotion() {
		g.Transform.Position = floor.Location
	}

	if !c.HasRootMotion() {
		moved := rl.Vector3Subtract(g.Transform.Position, old)
		c.velocity = rl.Vector3{X: moved.X / deltaTime, Z: moved.Z / deltaTime}
	}
}

func (c *CharacterController) physFalling(deltaTime float32) {
	g := c.GetGameObject()
	c.RestorePreAdditiveRootMotionVelocity()
	if !c.HasRootMotion() {
		vy := c.velocity.Y
		c.velocity.Y = 0
		airAccel := rl.Vector3Scale(c.inputDir, c.MaxAcceleration()*c.Tunables.AirControl)
		c.calcVelocity(deltaTime, 0, c.Tunables.BrakingDecelFall, c.MaxSpeed(), airAccel)
		c.velocity.Y = max(vy-c.Tunables.Gravity*deltaTime, -c.Tunables.TerminalVelocity)
	}
	c.ApplyRootMotionToVelocity(deltaTime)

	delta := rl.Vector3Scale(c.velocity, deltaTime)
	hit := c.SafeMove(delta, g.Transform.Rotation)
	if !hit.Blocking {
		return
	}
	if c.velocity.Y <= 0 && c.IsWalkable(hit.ImpactNormal) {
		c.SetMovementMode(ModeWalking)
		return
	}
	c.HandleImpact(hit)
	if hit.ImpactNormal.Y < 0 && c.velocity.Y > 0 {
		c.velocity.Y = 0
	}
	c.SlideAlongSurface(delta, 1-hit.Time, hit.ImpactNormal)
}

// orientToMovement yaws toward the acceleration direction at RotationRate.
func (c *CharacterController) orientToMovement(deltaTime float32) {
	if !c.OrientRotationToMovement {
		return
	}
	flat := rl.Vector3{X: c.acceleration.X, Z: c.acceleration.Z}
	if rl.Vector3Length(flat) < 1e-4 {
		return
	}
	g := c.GetGameObject()
	current := engine.YawDegrees(g.Transform.Rotation)
	target := math32.Atan2(flat.X, flat.Z) * rl.Rad2deg
	diff := normalizeDegrees(target - current)
	step := c.Tunables.RotationRate * deltaTime
	if c.Tunables.RotationRate <= 0 || math32.Abs(diff) <= step {
		current = target
	} else {
		current += math32.Copysign(step, diff)
	}
	g.Transform.Rotation = rl.QuaternionFromAxisAngle(engine.WorldUp, current*rl.Deg2rad)
}

// normalizeDegrees wraps an angle into (-180, 180].
func normalizeDegrees(deg float32) float32 {
	deg = math32.Mod(deg+180, 360)
	if deg <= 0 {
		deg += 360
	}
	return deg - 180
}

func hitName(h engine.Hit) string {
	if h.GameObject == nil {
		return ""
	}
	return h.GameObject.Name
}
