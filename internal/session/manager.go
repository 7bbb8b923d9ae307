package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/reportgen/internal/config"
	"github.com/dgallion1/reportgen/internal/phrase"
	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/stats"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// Manager hosts report sessions and evicts idle ones.
type Manager struct {
	store   *Store
	catalog *phrase.Catalog
	latency *stats.Latency
	log     *slog.Logger
	cfg     config.Config

	// Cleanup interval; defaults to a fraction of the TTL.
	sweep time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(cfg config.Config, catalog *phrase.Catalog, latency *stats.Latency, log *slog.Logger) *Manager {
	sweep := cfg.SessionTTL / 4
	if sweep <= 0 || sweep > 5*time.Minute {
		sweep = 5 * time.Minute
	}
	return &Manager{
		store:   NewStore(cfg.SessionTTL),
		catalog: catalog,
		latency: latency,
		log:     log,
		cfg:     cfg,
		sweep:   sweep,
	}
}

// Start launches the idle-session sweeper.
func (m *Manager) Start(ctx context.Context) {
	sweepCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.sweep)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				m.evictIdle()
			}
		}
	}()
}

// Stop halts the sweeper and closes every remaining session.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	for _, sess := range m.store.All() {
		sess.Close()
	}
}

func (m *Manager) evictIdle() int {
	expired := m.store.Cleanup()
	for _, sess := range expired {
		sess.Close()
	}
	if len(expired) > 0 {
		m.log.Info("evicted idle sessions", "count", len(expired), "remaining", m.store.Len())
	}
	return len(expired)
}

// Create validates the report type, assembles the initial shorthand and
// registers a new session.
func (m *Manager) Create(reportType, shorthand string) (*Session, error) {
	rt, asm, err := report.AssemblerFor(m.catalog, reportType)
	if err != nil {
		return nil, err
	}
	if m.cfg.MaxSessions > 0 && m.store.Len() >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrTooManySessions, m.cfg.MaxSessions)
	}

	sess := newSession(uuid.NewString(), asm, rt, shorthand, options{
		debounce: m.cfg.RegenDebounce,
		latency:  m.latency,
		log:      m.log,
	})
	m.store.Put(sess)
	m.log.Info("session created", "session_id", sess.ID, "report_type", rt)
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	sess := m.store.Get(id)
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (m *Manager) Delete(id string) error {
	sess := m.store.Delete(id)
	if sess == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Close()
	m.log.Info("session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.store.Len()
}

func (m *Manager) Latency() *stats.Latency {
	return m.latency
}

func (m *Manager) Catalog() *phrase.Catalog {
	return m.catalog
}
