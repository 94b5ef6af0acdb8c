// Package session owns the per-run singletons: the UI stack and the object
// pools, plus the metrics they report to.
package session

import (
	"fmt"

	"traverse3d/internal/config"
	"traverse3d/internal/metrics"
	"traverse3d/internal/pool"
	"traverse3d/internal/ui"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Session struct {
	ID      uuid.UUID
	Log     logrus.FieldLogger
	Config  *config.Config
	Metrics *metrics.Metrics
	UI      *ui.Manager
	Pools   *pool.Registry

	closed bool
}

// New builds a session from cfg. Pools listed in cfg are created and filled
// up front and the UI table is registered. A nil cfg uses config.Default.
func New(cfg *config.Config, reg prometheus.Registerer) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	m, err := metrics.New(reg)
	if err != nil {
		return nil, fmt.Errorf("session metrics: %w", err)
	}

	id := uuid.New()
	log := logrus.StandardLogger().WithFields(logrus.Fields{"subsystem": "session", "session": id.String()})
	s := &Session{
		ID:      id,
		Log:     log,
		Config:  cfg,
		Metrics: m,
		UI:      ui.NewManager(m),
		Pools:   pool.NewRegistry(m),
	}
	s.UI.Log = s.UI.Log.WithField("session", id.String())
	s.Pools.Log = s.Pools.Log.WithField("session", id.String())

	s.UI.RegisterFromConfig(cfg.UI)
	for _, pc := range cfg.Pools {
		p := s.Pools.CreatePool(pc.Name)
		p.Initialize(handleFactory(pc.Name), pc.Capacity)
	}

	log.WithFields(logrus.Fields{
		"pools": len(cfg.Pools),
		"ui":    len(cfg.UI),
	}).Info("session started")
	return s, nil
}

// Acquire takes a handle from the named config pool.
func (s *Session) Acquire(poolName string) (*Handle, bool) {
	p, ok := s.Pools.GetPool(poolName)
	if !ok {
		s.Log.WithField("pool", poolName).Warn("unknown pool")
		return nil, false
	}
	item, ok := p.Acquire()
	if !ok {
		return nil, false
	}
	h, ok := item.(*Handle)
	return h, ok
}

// Release hands h back to the pool it came from.
func (s *Session) Release(h *Handle) {
	if h == nil {
		return
	}
	p, ok := s.Pools.GetPool(h.Pool)
	if !ok {
		s.Log.WithField("pool", h.Pool).Warn("release into unknown pool")
		return
	}
	p.Release(h)
}

// Close pops every widget and destroys every pool. Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.UI.ReleaseAll()
	s.Pools.DestroyAll()
	s.Log.Info("session closed")
}
