package world

import (
	"encoding/json"
	"fmt"
	"os"

	"traverse3d/internal/components"
	"traverse3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

type SceneFile struct {
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	Name     string     `json:"name"`
	Tags     []string   `json:"tags,omitempty"`
	Position [3]float32 `json:"position"`
	Rotation [3]float32 `json:"rotation"` // euler degrees: pitch, yaw, roll
	Scale    [3]float32 `json:"scale"`

	Components []json.RawMessage `json:"components"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type boxColliderDef struct {
	Type    string     `json:"type"`
	Size    [3]float32 `json:"size"`
	Offset  [3]float32 `json:"offset,omitempty"`
	Channel string     `json:"channel,omitempty"`
}

type sphereColliderDef struct {
	Type    string     `json:"type"`
	Radius  float32    `json:"radius"`
	Offset  [3]float32 `json:"offset,omitempty"`
	Channel string     `json:"channel,omitempty"`
}

type capsuleColliderDef struct {
	Type       string  `json:"type"`
	Radius     float32 `json:"radius"`
	HalfHeight float32 `json:"halfHeight"`
}

type scriptDef struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

var channelByName = map[string]engine.ObjectType{
	"static":  engine.WorldStatic,
	"dynamic": engine.WorldDynamic,
	"pawn":    engine.Pawn,
}

func channelName(t engine.ObjectType) string {
	for name, c := range channelByName {
		if c == t {
			return name
		}
	}
	return ""
}

// LoadScene reads a JSON scene file and spawns its objects.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	if err := w.LoadSceneData(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadSceneData spawns the objects of an encoded scene. Unknown component
// types and unknown scripts are logged and skipped.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}

	for _, objDef := range sf.Objects {
		g := engine.NewGameObject(objDef.Name)
		g.Tags = objDef.Tags
		g.Transform.Position = rl.Vector3{X: objDef.Position[0], Y: objDef.Position[1], Z: objDef.Position[2]}
		g.Transform.SetEulerDegrees(rl.Vector3{X: objDef.Rotation[0], Y: objDef.Rotation[1], Z: objDef.Rotation[2]})
		if objDef.Scale != [3]float32{} {
			g.Transform.Scale = rl.Vector3{X: objDef.Scale[0], Y: objDef.Scale[1], Z: objDef.Scale[2]}
		}

		for i, raw := range objDef.Components {
			if err := w.loadComponent(g, raw); err != nil {
				return fmt.Errorf("object %q component %d: %w", objDef.Name, i, err)
			}
		}
		w.Spawn(g)
	}

	w.Log.WithField("objects", len(sf.Objects)).Info("scene loaded")
	return nil
}

func (w *World) loadComponent(g *engine.GameObject, raw json.RawMessage) error {
	var header componentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return err
	}

	switch header.Type {
	case "BoxCollider":
		var def boxColliderDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		col := components.NewBoxCollider(rl.Vector3{X: def.Size[0], Y: def.Size[1], Z: def.Size[2]})
		col.Offset = rl.Vector3{X: def.Offset[0], Y: def.Offset[1], Z: def.Offset[2]}
		if t, ok := w.channel(def.Channel); ok {
			col.Type = t
		}
		g.AddComponent(col)
	case "SphereCollider":
		var def sphereColliderDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		col := components.NewSphereCollider(def.Radius)
		col.Offset = rl.Vector3{X: def.Offset[0], Y: def.Offset[1], Z: def.Offset[2]}
		if t, ok := w.channel(def.Channel); ok {
			col.Type = t
		}
		g.AddComponent(col)
	case "CapsuleCollider":
		var def capsuleColliderDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		g.AddComponent(components.NewCapsuleCollider(def.Radius, max(def.HalfHeight, def.Radius)))
	case "Script":
		var def scriptDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return err
		}
		comp := engine.CreateScript(def.Name, def.Props)
		if comp == nil {
			w.Log.WithFields(logrus.Fields{"object": g.Name, "script": def.Name}).Warn("unknown script")
			return nil
		}
		g.AddComponent(comp)
	default:
		w.Log.WithFields(logrus.Fields{"object": g.Name, "type": header.Type}).Warn("unknown component type")
	}
	return nil
}

func (w *World) channel(name string) (engine.ObjectType, bool) {
	if name == "" {
		return 0, false
	}
	t, ok := channelByName[name]
	if !ok {
		w.Log.WithField("channel", name).Warn("unknown collision channel")
	}
	return t, ok
}

// SaveScene writes every object back in the format LoadScene reads. Only the
// yaw of each rotation is kept.
func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func (w *World) MarshalScene() ([]byte, error) {
	var sf SceneFile
	for _, g := range w.Scene.GameObjects {
		if g.Parent != nil {
			continue
		}
		p, s := g.Transform.Position, g.Transform.Scale
		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{p.X, p.Y, p.Z},
			Rotation: [3]float32{0, engine.YawDegrees(g.Transform.Rotation), 0},
			Scale:    [3]float32{s.X, s.Y, s.Z},
		}
		for _, c := range g.Components() {
			if raw := serializeComponent(c); raw != nil {
				objDef.Components = append(objDef.Components, raw)
			}
		}
		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func serializeComponent(c engine.Component) json.RawMessage {
	var def any

	switch comp := c.(type) {
	case *components.BoxCollider:
		def = boxColliderDef{
			Type:    "BoxCollider",
			Size:    [3]float32{comp.Size.X, comp.Size.Y, comp.Size.Z},
			Offset:  [3]float32{comp.Offset.X, comp.Offset.Y, comp.Offset.Z},
			Channel: channelName(comp.Type),
		}
	case *components.SphereCollider:
		def = sphereColliderDef{
			Type:    "SphereCollider",
			Radius:  comp.Radius,
			Offset:  [3]float32{comp.Offset.X, comp.Offset.Y, comp.Offset.Z},
			Channel: channelName(comp.Type),
		}
	case *components.CapsuleCollider:
		def = capsuleColliderDef{Type: "CapsuleCollider", Radius: comp.Radius, HalfHeight: comp.HalfHeight}
	default:
		name, props, ok := engine.SerializeScript(c)
		if !ok {
			return nil
		}
		def = scriptDef{Type: "Script", Name: name, Props: props}
	}

	data, err := json.Marshal(def)
	if err != nil {
		return nil
	}
	return data
}
