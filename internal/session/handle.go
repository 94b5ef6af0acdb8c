package session

import "traverse3d/internal/pool"

// Handle is the object kept by pools declared in config. It only tracks its
// own lifecycle; callers attach meaning through Payload.
type Handle struct {
	Pool    string
	Serial  int
	Payload any

	Alive bool
	InUse bool
	Uses  int
}

func (h *Handle) OnCreate() { h.Alive = true }

func (h *Handle) OnGet() {
	h.InUse = true
	h.Uses++
}

func (h *Handle) OnRelease() {
	h.InUse = false
	h.Payload = nil
}

func (h *Handle) OnDestroy() {
	h.Alive = false
	h.InUse = false
}

func handleFactory(poolName string) pool.Factory {
	serial := 0
	return func() pool.Item {
		serial++
		return &Handle{Pool: poolName, Serial: serial}
	}
}
