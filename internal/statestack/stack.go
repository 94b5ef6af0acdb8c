// Package statestack is a last-in-first-out stack of states where only the
// top state is updated.
package statestack

import (
	"traverse3d/internal/engine"

	"github.com/sirupsen/logrus"
)

// Action tells a state why it is entered or exited.
type Action uint8

const (
	ActionPush Action = iota
	ActionPop
)

func (a Action) String() string {
	if a == ActionPop {
		return "pop"
	}
	return "push"
}

type State interface {
	EnterState(action Action)
	ExitState(action Action)
	UpdateState(deltaTime float32)
}

// Change is passed to OnPushed and OnPopped.
type Change struct {
	State State
	Depth int
}

type Stack struct {
	Name string
	Log  logrus.FieldLogger

	OnPushed engine.EventWithArg[Change]
	OnPopped engine.EventWithArg[Change]

	states      []State
	timeInState float32
}

func New(name string) *Stack {
	return &Stack{
		Name: name,
		Log:  logrus.StandardLogger().WithField("stack", name),
	}
}

// Push exits the current top with ActionPush and enters s.
func (s *Stack) Push(state State) {
	if state == nil {
		return
	}
	if top := s.Top(); top != nil {
		top.ExitState(ActionPush)
	}
	s.states = append(s.states, state)
	s.timeInState = 0
	state.EnterState(ActionPush)
	s.OnPushed.Invoke(Change{State: state, Depth: len(s.states)})
}

// Pop removes the top state and re-enters the one below it with ActionPop.
// Popping an empty stack is logged and ignored.
func (s *Stack) Pop() State {
	if len(s.states) == 0 {
		s.Log.Warn("pop on empty stack")
		return nil
	}
	top := s.states[len(s.states)-1]
	top.ExitState(ActionPop)
	s.states[len(s.states)-1] = nil
	s.states = s.states[:len(s.states)-1]
	s.timeInState = 0
	if next := s.Top(); next != nil {
		next.EnterState(ActionPop)
	}
	s.OnPopped.Invoke(Change{State: top, Depth: len(s.states)})
	return top
}

// PopN pops up to count states. It returns how many were popped.
func (s *Stack) PopN(count int) int {
	count = min(count, len(s.states))
	for i := 0; i < count; i++ {
		s.Pop()
	}
	return max(count, 0)
}

func (s *Stack) PopAll() int {
	return s.PopN(len(s.states))
}

func (s *Stack) Count() int { return len(s.states) }

func (s *Stack) Top() State {
	if len(s.states) == 0 {
		return nil
	}
	return s.states[len(s.states)-1]
}

// At returns the state at index i counted from the bottom, or nil.
func (s *Stack) At(i int) State {
	if i < 0 || i >= len(s.states) {
		return nil
	}
	return s.states[i]
}

// Contains reports whether state is anywhere on the stack.
func (s *Stack) Contains(state State) bool {
	for _, st := range s.states {
		if st == state {
			return true
		}
	}
	return false
}

// TimeInState is how long the current top has been on top.
func (s *Stack) TimeInState() float32 { return s.timeInState }

// Update ticks the top state only.
func (s *Stack) Update(deltaTime float32) {
	top := s.Top()
	if top == nil {
		return
	}
	s.timeInState += deltaTime
	top.UpdateState(deltaTime)
}
