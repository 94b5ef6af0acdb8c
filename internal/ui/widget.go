// Package ui keeps the session's screens on a state stack. Only the top
// screen is visible and ticked; screens below it stay in the viewport but
// collapsed until it is popped.
package ui

import "traverse3d/internal/statestack"

// StackWidget is one screen on the UI stack.
type StackWidget struct {
	Name      string
	Layer     int
	InputOnly bool

	InViewport bool
	Visible    bool
	// OnUpdate runs while the widget is on top.
	OnUpdate func(w *StackWidget, deltaTime float32)

	openTime float32
}

func NewStackWidget(name string) *StackWidget {
	return &StackWidget{Name: name}
}

func (w *StackWidget) EnterState(action statestack.Action) {
	switch action {
	case statestack.ActionPush:
		w.InViewport = true
		w.Visible = !w.InputOnly
		w.openTime = 0
	case statestack.ActionPop:
		w.Visible = !w.InputOnly
	}
}

func (w *StackWidget) ExitState(action statestack.Action) {
	switch action {
	case statestack.ActionPush:
		w.Visible = false
	case statestack.ActionPop:
		w.Visible = false
		w.InViewport = false
	}
}

func (w *StackWidget) UpdateState(deltaTime float32) {
	w.openTime += deltaTime
	if w.OnUpdate != nil {
		w.OnUpdate(w, deltaTime)
	}
}

// OpenTime is how long the widget has been ticked since it was pushed.
func (w *StackWidget) OpenTime() float32 { return w.openTime }
