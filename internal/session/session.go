// Package session hosts one lab per client session for the HTTP server.
// Every lab sits behind its session's mutex so intents apply one at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"buildlab/internal/domain"
	"buildlab/internal/service"
)

// ErrNotFound is returned for an unknown or reaped session id
var ErrNotFound = errors.New("session not found")

// Metrics receives session lifecycle counts
type Metrics interface {
	service.Recorder
	SessionOpened()
	SessionClosed(reaped bool)
	ScenarioStepFailed()
}

// Session owns one lab
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	lab      *service.Lab
	lastSeen time.Time
}

// With runs fn with exclusive access to the lab
func (s *Session) With(fn func(*service.Lab) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.lab)
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Options configures a Manager
type Options struct {
	TTL        time.Duration
	LabOptions []service.Option
	Scenario   *domain.Scenario
	Events     *service.EventBus
	Metrics    Metrics
	Logger     *slog.Logger
	Now        func() time.Time
}

// Manager creates, finds and reaps sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	scenario *domain.Scenario
	opts     Options
}

// NewManager creates a manager. A zero TTL disables reaping.
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		scenario: opts.Scenario,
		opts:     opts,
	}
}

// SetScenario replaces the scenario replayed into sessions created from now
// on. Existing sessions are untouched. A nil scenario starts labs empty.
func (m *Manager) SetScenario(sc *domain.Scenario) {
	m.mu.Lock()
	m.scenario = sc
	m.mu.Unlock()
}

// Create opens a session with a fresh lab. When a scenario is configured it
// is replayed into the lab first; failed entries are logged, not fatal.
func (m *Manager) Create() (*Session, error) {
	id := uuid.NewString()
	now := m.opts.Now()

	labOpts := append([]service.Option{}, m.opts.LabOptions...)
	labOpts = append(labOpts, service.WithEventBus(m.opts.Events, id))
	if m.opts.Metrics != nil {
		labOpts = append(labOpts, service.WithRecorder(m.opts.Metrics))
	}
	lab := service.NewLab(labOpts...)

	m.mu.RLock()
	sc := m.scenario
	m.mu.RUnlock()

	if sc != nil {
		report := service.ReplayScenario(lab, sc)
		for _, o := range report.Failed() {
			m.opts.Logger.Warn("scenario step failed", "session", id, "scenario", sc.Name, "error", o.Error())
			if m.opts.Metrics != nil {
				m.opts.Metrics.ScenarioStepFailed()
			}
		}
	}

	s := &Session{ID: id, CreatedAt: now, lab: lab, lastSeen: now}

	m.mu.Lock()
	if _, exists := m.sessions[id]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("session id collision: %s", id)
	}
	m.sessions[id] = s
	m.mu.Unlock()

	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionOpened()
	}
	m.opts.Logger.Info("session created", "session", id)
	return s, nil
}

// Get returns a session and marks it as used
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.opts.Now())
	return s, nil
}

// Do runs fn against the lab of session id under its lock
func (m *Manager) Do(id string, fn func(*service.Lab) error) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	return s.With(fn)
}

// Delete closes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if m.opts.Metrics != nil {
		m.opts.Metrics.SessionClosed(false)
	}
	m.opts.Logger.Info("session deleted", "session", id)
	return nil
}

// Reap removes sessions idle for longer than the TTL as of now and returns
// their ids
func (m *Manager) Reap(now time.Time) []string {
	if m.opts.TTL <= 0 {
		return nil
	}

	m.mu.Lock()
	var reaped []string
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.opts.TTL {
			delete(m.sessions, id)
			reaped = append(reaped, id)
		}
	}
	m.mu.Unlock()

	sort.Strings(reaped)
	for _, id := range reaped {
		if m.opts.Metrics != nil {
			m.opts.Metrics.SessionClosed(true)
		}
		m.opts.Logger.Info("session reaped", "session", id)
	}
	return reaped
}

// RunReaper calls Reap every interval until ctx is done
func (m *Manager) RunReaper(ctx context.Context, interval time.Duration) {
	if m.opts.TTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Reap(m.opts.Now())
		}
	}
}

// IDs lists open session ids in sorted order
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
