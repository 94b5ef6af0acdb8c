package components

import (
	"fmt"
	"strings"

	"traverse3d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// InputAction is a semantic input event. Raw device state never reaches
// gameplay code.
type InputAction uint8

const (
	ActionToggleClimb InputAction = iota
	ActionHop
	ActionMove
	ActionLook
	ActionJump
)

var inputActionNames = map[string]InputAction{
	"toggle": ActionToggleClimb,
	"hop":    ActionHop,
	"move":   ActionMove,
	"look":   ActionLook,
	"jump":   ActionJump,
}

func (a InputAction) String() string {
	for name, v := range inputActionNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

func ParseInputAction(s string) (InputAction, error) {
	a, ok := inputActionNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown input action %q", s)
	}
	return a, nil
}

type InputEvent struct {
	Action InputAction
	Value  rl.Vector2
}

type HopDirection uint8

const (
	HopNone HopDirection = iota
	HopUp
	HopDown
)

// ClassifyHop picks a hop direction from the direction of a character-local
// input vector; its length does not matter. Inputs that are not clearly up or
// down, and zero input, give HopNone.
func ClassifyHop(local rl.Vector3, threshold float32) HopDirection {
	if rl.Vector3Length(local) < 1e-6 {
		return HopNone
	}
	d := rl.Vector3DotProduct(rl.Vector3Normalize(local), engine.WorldUp)
	switch {
	case d >= threshold:
		return HopUp
	case d <= -threshold:
		return HopDown
	}
	return HopNone
}

type inputContext uint8

const (
	contextDefault inputContext = iota
	contextClimbing
)

// ClimbInput routes semantic input to the character. Move input is held
// until the next move event, like an analog stick, and is applied every tick
// relative to the camera yaw when walking or to the wall when climbing.
type ClimbInput struct {
	engine.BaseComponent

	Log logrus.FieldLogger

	Yaw          float32
	Pitch        float32
	LookSpeed    float32
	HopThreshold float32

	controller *CharacterController
	climbing   *ClimbingMovement
	context    inputContext
	move       rl.Vector2
}

func NewClimbInput() *ClimbInput {
	return &ClimbInput{
		Log:          logrus.StandardLogger().WithField("subsystem", "input"),
		LookSpeed:    0.1,
		HopThreshold: 0.9,
	}
}

func (c *ClimbInput) Start() {
	g := c.GetGameObject()
	c.Yaw = engine.YawDegrees(g.Transform.Rotation)
	c.controller = engine.GetComponent[*CharacterController](g)
	c.climbing = engine.GetComponent[*ClimbingMovement](g)
	if c.controller == nil {
		c.Log.WithField("object", g.Name).Warn("no CharacterController, input ignored")
	}
	if c.climbing != nil {
		c.HopThreshold = c.climbing.Tunables.HopThreshold
		c.climbing.OnEnterClimb.AddListener(func() { c.context = contextClimbing })
		c.climbing.OnExitClimb.AddListener(func() { c.context = contextDefault })
	}
}

// Climbing reports whether the climbing input context is active.
func (c *ClimbInput) Climbing() bool { return c.context == contextClimbing }

func (c *ClimbInput) HandleInput(e InputEvent) {
	switch e.Action {
	case ActionToggleClimb:
		c.OnToggleClimb()
	case ActionHop:
		if c.context == contextClimbing {
			c.OnHopRequest()
		}
	case ActionMove:
		c.move = e.Value
	case ActionLook:
		c.OnLook(e.Value)
	case ActionJump:
		if c.controller != nil && c.context == contextDefault {
			c.controller.Jump()
		}
	}
}

func (c *ClimbInput) Update(deltaTime float32) {
	if c.move == (rl.Vector2{}) {
		return
	}
	if c.context == contextClimbing {
		c.OnClimbMove(c.move)
	} else {
		c.OnMove(c.move)
	}
}

// OnToggleClimb leaves the wall when climbing, otherwise tries to climb,
// climb down, then vault, stopping at the first that succeeds.
func (c *ClimbInput) OnToggleClimb() {
	if c.climbing == nil {
		c.Log.Debug("no climbing component, toggle ignored")
		return
	}
	if c.climbing.IsClimbing() {
		c.climbing.StopClimbing()
		return
	}
	switch {
	case c.climbing.TryStartClimbing():
	case c.climbing.TryStartClimbingDown():
	case c.climbing.TryStartVaulting():
	default:
		c.Log.Debug("nothing to climb")
	}
}

// OnHopRequest hops up or down along the wall in the direction of the last
// move input.
func (c *ClimbInput) OnHopRequest() HopDirection {
	if c.climbing == nil || c.controller == nil {
		return HopNone
	}
	g := c.GetGameObject()
	local := engine.UnrotateVector(c.controller.LastInputVector(), g.Transform.Rotation)
	dir := ClassifyHop(local, c.HopThreshold)
	switch dir {
	case HopUp:
		c.climbing.RequestHopUp()
	case HopDown:
		c.climbing.RequestHopDown()
	}
	return dir
}

// OnClimbMove maps stick input onto the climbed surface. Y climbs along the
// wall and X moves sideways.
func (c *ClimbInput) OnClimbMove(v rl.Vector2) {
	if c.controller == nil || c.climbing == nil {
		return
	}
	t := c.GetGameObject().Transform
	into := rl.Vector3Negate(c.climbing.SurfaceNormal())
	if rl.Vector3Length(into) < 1e-6 {
		into = t.Forward()
	}
	up := rl.Vector3Normalize(rl.Vector3CrossProduct(into, t.Right()))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(t.Up(), into))
	c.controller.AddMovementInput(up, v.Y)
	c.controller.AddMovementInput(right, v.X)
}

// OnMove moves relative to the view yaw. Y is forward.
func (c *ClimbInput) OnMove(v rl.Vector2) {
	if c.controller == nil {
		return
	}
	forward, right := c.directions()
	c.controller.AddMovementInput(forward, v.Y)
	c.controller.AddMovementInput(right, v.X)
}

func (c *ClimbInput) OnLook(v rl.Vector2) {
	c.Yaw += v.X * c.LookSpeed
	c.Pitch -= v.Y * c.LookSpeed
	c.Pitch = max(min(c.Pitch, 89), -89)
}

func (c *ClimbInput) directions() (forward, right rl.Vector3) {
	yaw := c.Yaw * rl.Deg2rad
	sin, cos := math32.Sincos(yaw)
	forward = rl.Vector3{X: sin, Z: cos}
	right = rl.Vector3{X: cos, Z: -sin}
	return
}

// LookDirection is the view direction from yaw and pitch.
func (c *ClimbInput) LookDirection() rl.Vector3 {
	yaw, pitch := c.Yaw*rl.Deg2rad, c.Pitch*rl.Deg2rad
	return rl.Vector3{
		X: math32.Sin(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Cos(yaw) * math32.Cos(pitch),
	}
}
