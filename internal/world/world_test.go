package world

import (
	"os"
	"path/filepath"
	"testing"

	"traverse3d/internal/components"
	"traverse3d/internal/config"
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const climbScene = `{
  "objects": [
    {"name": "floor", "position": [0, -50, 0],
     "components": [{"type": "BoxCollider", "size": [2000, 100, 2000]}]},
    {"name": "wall", "position": [0, 300, 80],
     "components": [{"type": "BoxCollider", "size": [400, 600, 40]}]},
    {"name": "ball", "position": [0, 50, -300],
     "components": [{"type": "SphereCollider", "radius": 20, "channel": "pawn"}]},
    {"name": "player", "tags": ["player"], "position": [0, 150, 0], "rotation": [0, 0, 0],
     "components": [
       {"type": "Script", "name": "ClimbInput"},
       {"type": "Script", "name": "CharacterController", "props": {"orientRotationToMovement": false}},
       {"type": "Script", "name": "ClimbingMovement"},
       {"type": "Script", "name": "AnimationSync"},
       {"type": "Script", "name": "NoSuchScript"},
       {"type": "Hologram"}
     ]}
  ]
}`

func loaded(t *testing.T, cfg *config.Config) *World {
	t.Helper()
	w := New(cfg, nil)
	require.NoError(t, w.LoadSceneData([]byte(climbScene)))
	return w
}

func TestLoadSceneSpawnsObjects(t *testing.T) {
	w := loaded(t, nil)

	assert.Len(t, w.Scene.GameObjects, 4)
	assert.Equal(t, 3, w.Physics.ColliderCount())
	player := w.Player()
	require.NotNil(t, player)
	assert.Equal(t, "player", player.Name)
	assert.Len(t, player.Components(), 4, "unknown entries skipped")

	cc := engine.GetComponent[*components.CharacterController](player)
	require.NotNil(t, cc)
	assert.False(t, cc.OrientRotationToMovement)
	assert.Same(t, w, player.World())
}

func TestLoadSceneRaycasts(t *testing.T) {
	w := loaded(t, nil)

	hit := w.Raycast(rl.Vector3{Y: 100}, rl.Vector3{Y: 100, Z: 200}, engine.AllObjects)
	require.True(t, hit.Blocking)
	assert.Equal(t, "wall", hit.GameObject.Name)
	assert.InDelta(t, 60, hit.ImpactPoint.Z, 1e-3)

	hit = w.Raycast(rl.Vector3{Y: 50}, rl.Vector3{Y: 50, Z: -400}, engine.WorldStatic)
	assert.False(t, hit.Blocking, "pawn channel filtered out")
	hit = w.Raycast(rl.Vector3{Y: 50}, rl.Vector3{Y: 50, Z: -400}, engine.Pawn)
	assert.True(t, hit.Blocking)
}

func TestPlayerLandsAfterStart(t *testing.T) {
	w := loaded(t, nil)
	w.Start()
	for i := 0; i < 60; i++ {
		w.Update(1.0 / 60)
	}

	player := w.Player()
	cc := engine.GetComponent[*components.CharacterController](player)
	assert.True(t, cc.IsMovingOnGround())
	assert.InDelta(t, 96, player.Transform.Position.Y, 0.5)
}

func TestSpawnConfiguresComponents(t *testing.T) {
	cfg := config.Default()
	cfg.Locomotion.MaxWalkSpeed = 123
	cfg.Climb.MaxClimbSpeed = 45
	w := loaded(t, cfg)

	player := w.Player()
	assert.Equal(t, float32(123), engine.GetComponent[*components.CharacterController](player).Tunables.MaxWalkSpeed)
	assert.Equal(t, float32(45), engine.GetComponent[*components.ClimbingMovement](player).Tunables.MaxClimbSpeed)
}

func TestDespawnRemovesColliders(t *testing.T) {
	w := loaded(t, nil)
	wall := w.Scene.FindByName("wall")
	w.Despawn(wall)

	assert.Nil(t, w.Scene.FindByName("wall"))
	assert.Equal(t, 2, w.Physics.ColliderCount())
	hit := w.Raycast(rl.Vector3{Y: 100}, rl.Vector3{Y: 100, Z: 200}, engine.AllObjects)
	assert.False(t, hit.Blocking)
}

func TestLoadSceneErrors(t *testing.T) {
	w := New(nil, nil)
	assert.Error(t, w.LoadSceneData([]byte("{")))
	assert.Error(t, w.LoadScene(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, w.LoadSceneData([]byte(`{"objects":[{"name":"x","components":[{"type":"BoxCollider","size":"big"}]}]}`)))
}

func TestSaveSceneRoundTrip(t *testing.T) {
	w := loaded(t, nil)
	w.Scene.FindByName("wall").Transform.SetEulerDegrees(rl.Vector3{Y: 90})
	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, w.SaveScene(path))

	again := New(nil, nil)
	require.NoError(t, again.LoadScene(path))
	assert.Len(t, again.Scene.GameObjects, 4)
	assert.Equal(t, w.Physics.ColliderCount(), again.Physics.ColliderCount())
	assert.InDelta(t, 90, engine.YawDegrees(again.Scene.FindByName("wall").Transform.Rotation), 1e-3)

	ball := engine.GetComponent[*components.SphereCollider](again.Scene.FindByName("ball"))
	require.NotNil(t, ball)
	assert.Equal(t, engine.Pawn, ball.Type)

	player := again.Player()
	require.NotNil(t, player)
	assert.False(t, engine.GetComponent[*components.CharacterController](player).OrientRotationToMovement)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ClimbingMovement"`)
}

func TestSpawnInstrumentsComponents(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	w := New(nil, m)

	g := engine.NewGameObject("actor")
	climbing := components.NewClimbingMovement()
	machine := components.NewStackStateMachine("actor")
	g.AddComponent(climbing)
	g.AddComponent(machine)
	w.Spawn(g)

	assert.Same(t, m, climbing.Metrics)
	assert.Same(t, m, machine.Metrics)
	assert.Same(t, m, w.Physics.Metrics)
}
