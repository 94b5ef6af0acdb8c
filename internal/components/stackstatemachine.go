package components

import (
	"traverse3d/internal/engine"
	"traverse3d/internal/metrics"
	"traverse3d/internal/statestack"
)

// StackStateMachine gives a game object its own state stack, ticked with the
// object and reported as a depth gauge.
type StackStateMachine struct {
	engine.BaseComponent

	Name    string
	Metrics *metrics.Metrics
	Stack   *statestack.Stack
}

func NewStackStateMachine(name string) *StackStateMachine {
	return &StackStateMachine{Name: name, Stack: statestack.New(name)}
}

func (m *StackStateMachine) SetMetrics(mtr *metrics.Metrics) { m.Metrics = mtr }

func (m *StackStateMachine) Start() {
	report := func(c statestack.Change) { m.Metrics.SetStackDepth(m.Name, c.Depth) }
	m.Stack.OnPushed.AddListener(report)
	m.Stack.OnPopped.AddListener(report)
}

func (m *StackStateMachine) Push(s statestack.State) { m.Stack.Push(s) }
func (m *StackStateMachine) Pop() statestack.State   { return m.Stack.Pop() }

func (m *StackStateMachine) Update(deltaTime float32) {
	m.Stack.Update(deltaTime)
}
