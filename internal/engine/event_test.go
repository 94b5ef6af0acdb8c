package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventInvokeOrder(t *testing.T) {
	var e Event
	var order []int
	e.AddListener(func() { order = append(order, 1) })
	e.AddListener(func() { order = append(order, 2) })
	assert.Zero(t, e.AddListener(nil))

	e.Invoke()
	assert.Equal(t, []int{1, 2}, order)
	assert.Equal(t, 2, e.GetListenerCount())
}

func TestEventRemoveListener(t *testing.T) {
	var e Event
	calls := 0
	id := e.AddListener(func() { calls++ })

	assert.True(t, e.RemoveListener(id))
	assert.False(t, e.RemoveListener(id))
	e.Invoke()
	assert.Zero(t, calls)
}

func TestEventListenerRemovesItselfDuringInvoke(t *testing.T) {
	var e EventWithArg[int]
	var got []int
	var id ListenerID
	id = e.AddListener(func(v int) {
		got = append(got, v)
		e.RemoveListener(id)
	})
	e.AddListener(func(v int) { got = append(got, v*10) })

	e.Invoke(1)
	e.Invoke(2)
	assert.Equal(t, []int{1, 10, 20}, got)
}

func TestEventRemoveAll(t *testing.T) {
	var e EventWithArg[string]
	e.AddListener(func(string) {})
	e.RemoveAllListeners()
	assert.Zero(t, e.GetListenerCount())
}
