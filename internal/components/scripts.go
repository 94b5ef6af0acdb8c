package components

import (
	"traverse3d/internal/config"
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"
)

// Configurable components take their tunables from the loaded config. Scene
// props only carry per-object settings.
type Configurable interface {
	Configure(cfg *config.Config)
}

// Instrumented components report to the session's metrics.
type Instrumented interface {
	SetMetrics(m *metrics.Metrics)
}

func init() {
	engine.RegisterScriptWithApplier("CharacterController", characterControllerFactory, characterControllerSerializer, characterControllerApplier)
	engine.RegisterScriptWithApplier("ClimbingMovement", climbingFactory, climbingSerializer, climbingApplier)
	engine.RegisterScript("Animator", func(map[string]any) engine.Component { return NewAnimator() }, emptySerializer[*Animator])
	engine.RegisterScript("MotionWarpTargets", func(map[string]any) engine.Component { return NewMotionWarpTargets() }, emptySerializer[*MotionWarpTargets])
	engine.RegisterScript("AnimationSync", func(map[string]any) engine.Component { return NewAnimationSync() }, emptySerializer[*AnimationSync])
	engine.RegisterScript("ClimbInput", climbInputFactory, climbInputSerializer)
	engine.RegisterScript("StackStateMachine", stackStateMachineFactory, stackStateMachineSerializer)
}

func emptySerializer[T engine.Component](c engine.Component) map[string]any {
	if _, ok := c.(T); !ok {
		return nil
	}
	return map[string]any{}
}

func characterControllerFactory(props map[string]any) engine.Component {
	c := NewCharacterController()
	c.OrientRotationToMovement = engine.PropBool(props, "orientRotationToMovement", true)
	return c
}

func characterControllerSerializer(c engine.Component) map[string]any {
	cc, ok := c.(*CharacterController)
	if !ok {
		return nil
	}
	return map[string]any{"orientRotationToMovement": cc.OrientRotationToMovement}
}

func characterControllerApplier(c engine.Component, prop string, value any) bool {
	cc, ok := c.(*CharacterController)
	if !ok || prop != "orientRotationToMovement" {
		return false
	}
	v, ok := value.(bool)
	if ok {
		cc.OrientRotationToMovement = v
	}
	return ok
}

func climbingFactory(props map[string]any) engine.Component {
	c := NewClimbingMovement()
	c.Debug = engine.PropBool(props, "debug", false)
	return c
}

func climbingSerializer(c engine.Component) map[string]any {
	cm, ok := c.(*ClimbingMovement)
	if !ok {
		return nil
	}
	return map[string]any{"debug": cm.Debug}
}

func climbingApplier(c engine.Component, prop string, value any) bool {
	cm, ok := c.(*ClimbingMovement)
	if !ok || prop != "debug" {
		return false
	}
	v, ok := value.(bool)
	if ok {
		cm.Debug = v
	}
	return ok
}

func climbInputFactory(props map[string]any) engine.Component {
	c := NewClimbInput()
	c.LookSpeed = engine.PropFloat(props, "lookSpeed", c.LookSpeed)
	c.Pitch = engine.PropFloat(props, "pitch", 0)
	return c
}

func climbInputSerializer(c engine.Component) map[string]any {
	ci, ok := c.(*ClimbInput)
	if !ok {
		return nil
	}
	return map[string]any{"lookSpeed": ci.LookSpeed, "pitch": ci.Pitch}
}

func stackStateMachineFactory(props map[string]any) engine.Component {
	return NewStackStateMachine(engine.PropString(props, "name", "actor"))
}

func stackStateMachineSerializer(c engine.Component) map[string]any {
	m, ok := c.(*StackStateMachine)
	if !ok {
		return nil
	}
	return map[string]any{"name": m.Name}
}
