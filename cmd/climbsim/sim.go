package main

import (
	"context"
	"errors"

	"traverse3d/internal/components"
	"traverse3d/internal/engine"
	"traverse3d/internal/session"
	"traverse3d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// UI and pool names the simulation drives when they are configured.
const (
	hudUI       = "hud"
	climbUI     = "climb_prompt"
	landingPool = "landing_fx"
)

// landingTicks is how long a landing effect handle stays out.
const landingTicks = 30

var errNoPlayer = errors.New("no object tagged " + world.PlayerTag)

// frame is the player state after one tick.
type frame struct {
	Tick     int
	Mode     components.MovementMode
	Position rl.Vector3
	Velocity rl.Vector3
}

type landing struct {
	handle *session.Handle
	until  int
}

type simulation struct {
	Log     logrus.FieldLogger
	Session *session.Session
	World   *world.World

	player     *engine.GameObject
	input      *components.ClimbInput
	controller *components.CharacterController
	climbing   *components.ClimbingMovement

	cmds     []command
	next     int
	tick     int
	landings []landing
}

// newSimulation starts w and hooks the player's events up to the session's
// UI stack and landing pool. cmds must be ordered by tick.
func newSimulation(sess *session.Session, w *world.World, cmds []command) (*simulation, error) {
	player := w.Player()
	if player == nil {
		return nil, errNoPlayer
	}
	s := &simulation{
		Log:     logrus.StandardLogger().WithFields(logrus.Fields{"subsystem": "sim", "session": sess.ID.String()}),
		Session: sess,
		World:   w,
		player:  player,
		cmds:    cmds,
	}
	w.Start()

	s.input = engine.GetComponent[*components.ClimbInput](player)
	s.controller = engine.GetComponent[*components.CharacterController](player)
	s.climbing = engine.GetComponent[*components.ClimbingMovement](player)
	if s.input == nil || s.controller == nil {
		return nil, errors.New("player needs ClimbInput and CharacterController")
	}

	sess.UI.OpenUI(hudUI)
	if s.climbing != nil {
		s.climbing.OnEnterClimb.AddListener(func() { sess.UI.OpenUI(climbUI) })
		s.climbing.OnExitClimb.AddListener(func() { sess.UI.CloseUI(climbUI) })
	}
	s.controller.OnModeChanged.AddListener(s.onModeChanged)
	return s, nil
}

func (s *simulation) onModeChanged(m components.ModeChange) {
	s.Log.WithFields(logrus.Fields{
		"tick": s.tick,
		"from": m.Previous.String(),
		"to":   m.Current.String(),
	}).Info("mode changed")
	if m.Previous != components.ModeFalling || m.Current != components.ModeWalking {
		return
	}
	if _, ok := s.Session.Pools.GetPool(landingPool); !ok {
		return
	}
	h, ok := s.Session.Acquire(landingPool)
	if !ok {
		return
	}
	h.Payload = s.player.Transform.Position
	s.landings = append(s.landings, landing{handle: h, until: s.tick + landingTicks})
}

// Run advances ticks more steps of dt, delivering each command before the
// tick it names. Consecutive calls continue where the last one stopped. It
// stops early when ctx is done.
func (s *simulation) Run(ctx context.Context, ticks int, dt float32) ([]frame, error) {
	frames := make([]frame, 0, ticks)
	for end := s.tick + ticks; s.tick < end; s.tick++ {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		for s.next < len(s.cmds) && s.cmds[s.next].Tick <= s.tick {
			c := s.cmds[s.next]
			s.Log.WithFields(logrus.Fields{
				"tick":   s.tick,
				"action": c.Event.Action.String(),
			}).Debug("input")
			s.input.HandleInput(c.Event)
			s.next++
		}

		s.World.Update(dt)
		s.Session.UI.Update(dt)
		s.expireLandings()

		f := frame{
			Tick:     s.tick,
			Mode:     s.controller.Mode(),
			Position: s.player.Transform.Position,
			Velocity: s.controller.Velocity(),
		}
		frames = append(frames, f)
		s.Log.WithFields(logrus.Fields{
			"tick": f.Tick,
			"mode": f.Mode.String(),
			"pos":  vecString(f.Position),
			"vel":  vecString(f.Velocity),
		}).Info("tick")
	}
	return frames, nil
}

func (s *simulation) expireLandings() {
	kept := s.landings[:0]
	for _, l := range s.landings {
		if s.tick >= l.until {
			s.Session.Release(l.handle)
			continue
		}
		kept = append(kept, l)
	}
	s.landings = kept
}
