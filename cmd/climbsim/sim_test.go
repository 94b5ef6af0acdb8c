package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"traverse3d/internal/components"
	"traverse3d/internal/config"
	"traverse3d/internal/session"
	"traverse3d/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = float32(1.0 / 60)

// wallScene puts the player on the floor 26cm short of a tall wall.
const wallScene = `{"objects": [
  {"name": "floor", "position": [0, -50, 0], "components": [{"type": "BoxCollider", "size": [2000, 100, 2000]}]},
  {"name": "wall", "position": [0, 300, 80], "components": [{"type": "BoxCollider", "size": [400, 600, 40]}]},
  {"name": "player", "tags": ["player"], "position": [0, 96, 0], "components": [
    {"type": "Script", "name": "ClimbInput"},
    {"type": "Script", "name": "CharacterController", "props": {"orientRotationToMovement": false}},
    {"type": "Script", "name": "ClimbingMovement"}
  ]}
]}`

func newTestSim(t *testing.T, scene string, script string) (*simulation, *session.Session) {
	t.Helper()
	cfg, err := config.Load("testdata/climbsim.yaml")
	require.NoError(t, err)
	sess, err := session.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	w := world.New(cfg, sess.Metrics)
	require.NoError(t, w.LoadSceneData([]byte(scene)))
	cmds, err := parseScript(strings.NewReader(script))
	require.NoError(t, err)
	sim, err := newSimulation(sess, w, cmds)
	require.NoError(t, err)
	return sim, sess
}

func TestSampleDataLoads(t *testing.T) {
	data, err := os.ReadFile("testdata/wall.json")
	require.NoError(t, err)
	script, err := os.ReadFile("testdata/wall.script")
	require.NoError(t, err)

	sim, sess := newTestSim(t, string(data), string(script))
	assert.Equal(t, 1, sess.UI.Depth())
	assert.Equal(t, hudUI, sess.UI.Top().Name)
	assert.Len(t, sim.cmds, 4)

	frames, err := sim.Run(context.Background(), 10, tick)
	require.NoError(t, err)
	assert.Len(t, frames, 10)
	assert.Equal(t, 9, frames[9].Tick)
}

func TestLandingHoldsPoolHandle(t *testing.T) {
	sim, sess := newTestSim(t, wallScene, "")
	fx, ok := sess.Pools.GetPool(landingPool)
	require.True(t, ok)

	frames, err := sim.Run(context.Background(), 5, tick)
	require.NoError(t, err)
	assert.Equal(t, components.ModeWalking, frames[4].Mode)
	assert.Equal(t, 1, fx.Active())

	_, err = sim.Run(context.Background(), landingTicks+5, tick)
	require.NoError(t, err)
	assert.Equal(t, 0, fx.Active())
	assert.Equal(t, 4, fx.Available())
}

func TestClimbOpensPrompt(t *testing.T) {
	sim, sess := newTestSim(t, wallScene, "10 toggle\n12 toggle\n")

	_, err := sim.Run(context.Background(), 11, tick)
	require.NoError(t, err)
	assert.Equal(t, components.ModeClimbing, sim.controller.Mode())
	require.NotNil(t, sess.UI.Top())
	assert.Equal(t, climbUI, sess.UI.Top().Name)

	_, err = sim.Run(context.Background(), 2, tick)
	require.NoError(t, err)
	assert.NotEqual(t, components.ModeClimbing, sim.controller.Mode())
	assert.Equal(t, hudUI, sess.UI.Top().Name)
	_, ok := sess.UI.GetUI(climbUI)
	assert.False(t, ok, "destroyed on pop")
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, _ := newTestSim(t, wallScene, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := sim.Run(ctx, 10, tick)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, frames)
}

func TestNeedsPlayer(t *testing.T) {
	sess, err := session.New(nil, nil)
	require.NoError(t, err)
	w := world.New(nil, sess.Metrics)
	_, err = newSimulation(sess, w, nil)
	assert.ErrorIs(t, err, errNoPlayer)
}
