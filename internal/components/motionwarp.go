package components

import (
	"traverse3d/internal/engine"

	"github.com/elliotchance/orderedmap/v2"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// Warp target names shared by the traversal clips.
const (
	WarpVaultStart     = "VaultStartPoint"
	WarpVaultLand      = "VaultLandPoint"
	WarpHopUp          = "HopUpTargetPoint"
	WarpHopDown        = "HopDownTargetPoint"
	WarpClimbDownLedge = "ClimbDownLedgePoint"
	WarpClimbToTop     = "ClimbToTopPoint"
)

// MotionWarpTargets records named anchors and forwards them to the owner's
// WarpTargetSink.
type MotionWarpTargets struct {
	engine.BaseComponent

	Log  logrus.FieldLogger
	Sink WarpTargetSink

	targets *orderedmap.OrderedMap[string, rl.Vector3]
}

func NewMotionWarpTargets() *MotionWarpTargets {
	return &MotionWarpTargets{
		Log:     logrus.StandardLogger().WithField("subsystem", "warp"),
		targets: orderedmap.NewOrderedMap[string, rl.Vector3](),
	}
}

func (m *MotionWarpTargets) Start() {
	if m.Sink != nil {
		return
	}
	if sink, ok := engine.FindComponent[WarpTargetSink](m.GetGameObject()); ok {
		m.Sink = sink
	}
}

// SetTarget upserts a target by name. Without a sink nothing is recorded.
func (m *MotionWarpTargets) SetTarget(name string, position rl.Vector3) {
	if m.Sink == nil {
		m.Log.WithField("target", name).Warn("no warp target sink, ignoring")
		return
	}
	m.targets.Set(name, position)
	m.Sink.SetWarpTarget(name, position)
}

func (m *MotionWarpTargets) Target(name string) (rl.Vector3, bool) {
	return m.targets.Get(name)
}

// Names returns target names in first-set order.
func (m *MotionWarpTargets) Names() []string {
	names := make([]string, 0, m.targets.Len())
	for el := m.targets.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

func (m *MotionWarpTargets) Clear() {
	m.targets = orderedmap.NewOrderedMap[string, rl.Vector3]()
}
