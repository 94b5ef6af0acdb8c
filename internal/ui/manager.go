package ui

import (
	"traverse3d/internal/config"
	"traverse3d/internal/metrics"
	"traverse3d/internal/statestack"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
)

const stackName = "ui"

type Factory func(name string) *StackWidget

// RegisterInfo describes how a named widget is built and kept.
type RegisterInfo struct {
	Factory Factory
	Layer   int
	// InputOnly widgets take input without being shown.
	InputOnly bool
	// PreCreate builds the instance at registration instead of first open.
	PreCreate bool
	// DestroyOnPop drops the instance when closed so the next open rebuilds it.
	DestroyOnPop bool
}

type entry struct {
	info     RegisterInfo
	instance *StackWidget
}

// Manager is the session's UI stack plus its registry of named widgets.
type Manager struct {
	Log     logrus.FieldLogger
	Metrics *metrics.Metrics

	stack    *statestack.Stack
	registry *orderedmap.OrderedMap[string, *entry]
}

func NewManager(m *metrics.Metrics) *Manager {
	mgr := &Manager{
		Log:      logrus.StandardLogger().WithField("subsystem", "ui"),
		Metrics:  m,
		stack:    statestack.New(stackName),
		registry: orderedmap.NewOrderedMap[string, *entry](),
	}
	mgr.stack.Log = mgr.Log
	report := func(c statestack.Change) { mgr.Metrics.SetStackDepth(stackName, c.Depth) }
	mgr.stack.OnPushed.AddListener(report)
	mgr.stack.OnPopped.AddListener(report)
	mgr.stack.OnPopped.AddListener(mgr.onPopped)
	return mgr
}

// NewDefaultFactory builds plain widgets, used for UI entries from config.
func NewDefaultFactory() Factory {
	return NewStackWidget
}

// RegisterFromConfig registers every UI entry from cfg with the default factory.
func (m *Manager) RegisterFromConfig(entries []config.UIEntry) {
	for _, e := range entries {
		m.Register(e.Name, RegisterInfo{
			Factory:      NewDefaultFactory(),
			Layer:        e.Layer,
			InputOnly:    e.InputOnly,
			PreCreate:    e.PreCreate,
			DestroyOnPop: e.DestroyOnPop,
		})
	}
}

// Register adds or replaces a named widget. Re-registering drops any cached
// instance that is not on the stack.
func (m *Manager) Register(name string, info RegisterInfo) {
	if info.Factory == nil {
		m.Log.WithField("ui", name).Warn("register without factory ignored")
		return
	}
	e := &entry{info: info}
	if old, ok := m.registry.Get(name); ok && old.instance != nil && m.stack.Contains(old.instance) {
		e.instance = old.instance
	}
	m.registry.Set(name, e)
	if info.PreCreate && e.instance == nil {
		e.instance = m.build(name, e)
	}
}

func (m *Manager) build(name string, e *entry) *StackWidget {
	w := e.info.Factory(name)
	if w == nil {
		m.Log.WithField("ui", name).Warn("factory returned nil")
		return nil
	}
	w.Name = name
	w.Layer = e.info.Layer
	w.InputOnly = e.info.InputOnly
	return w
}

// OpenUI pushes the named widget, building it if needed. Opening a widget
// that is already on the stack returns it without pushing again.
func (m *Manager) OpenUI(name string) *StackWidget {
	e, ok := m.registry.Get(name)
	if !ok {
		m.Log.WithField("ui", name).Warn("unknown ui")
		return nil
	}
	if e.instance == nil {
		e.instance = m.build(name, e)
		if e.instance == nil {
			return nil
		}
	}
	if m.stack.Contains(e.instance) {
		return e.instance
	}
	m.stack.Push(e.instance)
	m.Log.WithFields(logrus.Fields{"ui": name, "depth": m.stack.Count()}).Debug("ui opened")
	return e.instance
}

// CloseUI pops until the named widget is gone. It returns false when the
// widget is not open.
func (m *Manager) CloseUI(name string) bool {
	e, ok := m.registry.Get(name)
	if !ok || e.instance == nil || !m.stack.Contains(e.instance) {
		m.Log.WithField("ui", name).Debug("ui not open")
		return false
	}
	// Popping a DestroyOnPop widget clears e.instance, so compare against a copy.
	target := e.instance
	for m.stack.Count() > 0 {
		if m.stack.Pop() == target {
			break
		}
	}
	return true
}

func (m *Manager) onPopped(c statestack.Change) {
	w, ok := c.State.(*StackWidget)
	if !ok {
		return
	}
	if e, ok := m.registry.Get(w.Name); ok && e.instance == w && e.info.DestroyOnPop {
		e.instance = nil
	}
}

// GetUI returns the cached instance of a registered widget.
func (m *Manager) GetUI(name string) (*StackWidget, bool) {
	e, ok := m.registry.Get(name)
	if !ok || e.instance == nil {
		return nil, false
	}
	return e.instance, true
}

// Top returns the widget on top, or nil.
func (m *Manager) Top() *StackWidget {
	w, _ := m.stack.Top().(*StackWidget)
	return w
}

func (m *Manager) Depth() int { return m.stack.Count() }

// Pop closes the top widget. Popping an empty stack is logged and ignored.
func (m *Manager) Pop() { m.stack.Pop() }

func (m *Manager) PopN(n int) int { return m.stack.PopN(n) }

func (m *Manager) Update(deltaTime float32) { m.stack.Update(deltaTime) }

// ReleaseAll closes every widget and drops all cached instances.
func (m *Manager) ReleaseAll() {
	m.stack.PopAll()
	for el := m.registry.Front(); el != nil; el = el.Next() {
		el.Value.instance = nil
	}
}

// Registered returns widget names in registration order.
func (m *Manager) Registered() []string {
	names := make([]string, 0, m.registry.Len())
	for el := m.registry.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}
