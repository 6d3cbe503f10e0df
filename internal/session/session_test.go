package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlab/internal/domain"
	"buildlab/internal/service"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingMetrics struct {
	mu                        sync.Mutex
	opened, closed, reaped    int
	stepsFailed, applied, bad int
}

func (m *countingMetrics) AggregateComputed(bool) {}

func (m *countingMetrics) IntentApplied(string) {
	m.mu.Lock()
	m.applied++
	m.mu.Unlock()
}

func (m *countingMetrics) IntentRejected(string, error) {
	m.mu.Lock()
	m.bad++
	m.mu.Unlock()
}

func (m *countingMetrics) TransitionRefused(domain.Phase) {}

func (m *countingMetrics) SessionOpened() {
	m.mu.Lock()
	m.opened++
	m.mu.Unlock()
}

func (m *countingMetrics) SessionClosed(reaped bool) {
	m.mu.Lock()
	m.closed++
	if reaped {
		m.reaped++
	}
	m.mu.Unlock()
}

func (m *countingMetrics) ScenarioStepFailed() {
	m.mu.Lock()
	m.stepsFailed++
	m.mu.Unlock()
}

func TestCreateGetDelete(t *testing.T) {
	m := NewManager(Options{})

	s, err := m.Create()
	require.NoError(t, err)
	assert.Len(t, s.ID, 36)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(s.ID), ErrNotFound)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager(Options{})
	a, err := m.Create()
	require.NoError(t, err)
	b, err := m.Create()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	err = m.Do(a.ID, func(lab *service.Lab) error {
		_, err := lab.AddNode(domain.KindComputer, domain.NewPosition(0, 0))
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, m.Do(b.ID, func(lab *service.Lab) error {
		count = len(lab.Nodes())
		return nil
	}))
	assert.Zero(t, count)
}

func TestDoReturnsLabError(t *testing.T) {
	m := NewManager(Options{})
	s, err := m.Create()
	require.NoError(t, err)

	err = m.Do(s.ID, func(lab *service.Lab) error {
		return lab.DeleteNode("PC-1")
	})
	assert.True(t, errors.Is(err, domain.ErrUnknownNode))

	assert.ErrorIs(t, m.Do("missing", func(*service.Lab) error { return nil }), ErrNotFound)
}

func TestConcurrentIntentsSerialize(t *testing.T) {
	m := NewManager(Options{})
	s, err := m.Create()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(s.ID, func(lab *service.Lab) error {
				_, err := lab.AddNode(domain.KindComputer, domain.NewPosition(0, 0))
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, s.With(func(lab *service.Lab) error {
		nodes := lab.Nodes()
		assert.Len(t, nodes, 20)
		seen := make(map[string]bool)
		for _, n := range nodes {
			assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
			seen[n.ID] = true
		}
		return nil
	}))
}

func TestReap(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	metrics := &countingMetrics{}
	m := NewManager(Options{TTL: time.Hour, Now: clock.Now, Metrics: metrics})

	idle, err := m.Create()
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)
	active, err := m.Create()
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	_, err = m.Get(active.ID)
	require.NoError(t, err)

	reaped := m.Reap(clock.Now())
	assert.Equal(t, []string{idle.ID}, reaped)
	assert.Equal(t, []string{active.ID}, m.IDs())

	assert.Equal(t, 2, metrics.opened)
	assert.Equal(t, 1, metrics.closed)
	assert.Equal(t, 1, metrics.reaped)
}

func TestReapDisabledWithoutTTL(t *testing.T) {
	m := NewManager(Options{})
	_, err := m.Create()
	require.NoError(t, err)

	assert.Empty(t, m.Reap(time.Now().Add(24*time.Hour)))
	assert.Equal(t, 1, m.Len())
}

func TestCreateReplaysScenario(t *testing.T) {
	sc := domain.NewScenario("workstation")
	sc.AddNode(domain.ScenarioNode{Kind: domain.KindComputer})
	sc.AddNode(domain.ScenarioNode{Kind: domain.KindDisplay, X: 200})
	sc.AddCable(domain.ScenarioCable{From: "PC-1", To: "MON-1"})
	sc.AddStep(domain.ScenarioStep{
		Action: domain.StepHardware,
		Node:   "PC-1",
		Hardware: &domain.HardwareSpec{
			CPU:     "Intel Core i9-13900K...253W",
			RAM:     "32GB DDR4...20W",
			Storage: "1TB NVMe SSD...7000MB/s...10W",
			GPU:     "NVIDIA RTX 4070...200W",
			PSU:     "750W 80+ Gold",
		},
	})
	sc.AddStep(domain.ScenarioStep{Action: domain.StepNetwork, Node: "RTR-1", Auto: true})

	metrics := &countingMetrics{}
	events := service.NewEventBus()
	ch := make(chan service.Event, 64)
	events.Subscribe(ch)

	m := NewManager(Options{Scenario: sc, Metrics: metrics, Events: events})
	s, err := m.Create()
	require.NoError(t, err)

	require.NoError(t, s.With(func(lab *service.Lab) error {
		assert.Len(t, lab.Nodes(), 2)
		assert.Equal(t, 1, lab.Aggregate().PCCount)
		return nil
	}))
	assert.Equal(t, 1, metrics.stepsFailed)
	assert.Positive(t, metrics.applied)

	require.NotEmpty(t, ch)
	ev := <-ch
	assert.Equal(t, service.EventNodeAdded, ev.Type)
	assert.Equal(t, s.ID, ev.Scope)
}

func TestSetScenarioAffectsNewSessionsOnly(t *testing.T) {
	m := NewManager(Options{})
	before, err := m.Create()
	require.NoError(t, err)

	sc := domain.NewScenario("single")
	sc.AddNode(domain.ScenarioNode{Kind: domain.KindRouter})
	m.SetScenario(sc)

	after, err := m.Create()
	require.NoError(t, err)

	count := func(s *Session) (n int) {
		_ = s.With(func(lab *service.Lab) error {
			n = len(lab.Nodes())
			return nil
		})
		return n
	}
	assert.Equal(t, 0, count(before))
	assert.Equal(t, 1, count(after))

	m.SetScenario(nil)
	cleared, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, 0, count(cleared))
}
