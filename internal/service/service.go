package service

import (
	"fmt"
	"log/slog"

	"buildlab/internal/activity"
	"buildlab/internal/aggregate"
	"buildlab/internal/domain"
	"buildlab/internal/scoring"
	"buildlab/internal/topology"
)

// Recorder receives intent outcomes and aggregate cache use for metrics.
// All methods must be cheap.
type Recorder interface {
	IntentApplied(intent string)
	IntentRejected(intent string, err error)
	TransitionRefused(phase domain.Phase)
	AggregateComputed(cached bool)
}

type nopRecorder struct{}

func (nopRecorder) IntentApplied(string) {}
func (nopRecorder) IntentRejected(string, error) {}
func (nopRecorder) TransitionRefused(domain.Phase) {}
func (nopRecorder) AggregateComputed(bool) {}

// AutoNetwork holds the defaults used by automatic network mode
type AutoNetwork struct {
	Defaults  domain.NetworkConfig
	FirstHost int
}

// DefaultAutoNetwork is a 192.168.1.0/24 network with a public resolver
var DefaultAutoNetwork = AutoNetwork{
	Defaults: domain.NetworkConfig{
		SubnetMask: "255.255.255.0",
		Gateway:    "192.168.1.1",
		DNS:        "8.8.8.8",
	},
	FirstHost: 100,
}

// Option configures a Lab
type Option func(*Lab)

// WithLogger sets the structured logger. A nil logger discards records.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lab) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEventBus publishes lab events on bus, tagged with scope
func WithEventBus(bus *EventBus, scope string) Option {
	return func(l *Lab) {
		if bus != nil {
			l.events = bus
		}
		l.scope = scope
	}
}

// WithRecorder reports intent outcomes to r
func WithRecorder(r Recorder) Option {
	return func(l *Lab) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithAllowDuplicateCables controls whether a pair can be wired twice
func WithAllowDuplicateCables(allow bool) Option {
	return func(l *Lab) {
		l.allowDuplicates = allow
	}
}

// WithAutoNetwork overrides the automatic network defaults
func WithAutoNetwork(auto AutoNetwork) Option {
	return func(l *Lab) {
		l.auto = auto
	}
}

// WithLogTail sets how many activity lines a Snapshot carries
func WithLogTail(n int) Option {
	return func(l *Lab) {
		l.logTail = n
	}
}

// Lab is one topology together with the configuration of its computers
type Lab struct {
	store    *topology.Store
	configs  map[string]*domain.ComputerConfig
	activity *activity.Log
	cache    *aggregate.Cache

	logger   *slog.Logger
	events   *EventBus
	scope    string
	recorder Recorder

	allowDuplicates bool
	auto            AutoNetwork
	logTail         int
}

// NewLab creates an empty lab
func NewLab(opts ...Option) *Lab {
	l := &Lab{
		configs:         make(map[string]*domain.ComputerConfig),
		activity:        activity.NewLog(),
		cache:           aggregate.NewCache(),
		logger:          slog.New(slog.DiscardHandler),
		events:          NewEventBus(),
		recorder:        nopRecorder{},
		allowDuplicates: true,
		auto:            DefaultAutoNetwork,
		logTail:         50,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.store = topology.NewStore(topology.AllowDuplicateCables(l.allowDuplicates))
	return l
}

// AddNode places a node with a generated id
func (l *Lab) AddNode(kind domain.NodeKind, pos domain.Position) (domain.Node, error) {
	return l.AddNodeWithID("", kind, pos)
}

// AddNodeWithID places a node under a caller-chosen id
func (l *Lab) AddNodeWithID(id string, kind domain.NodeKind, pos domain.Position) (domain.Node, error) {
	n, err := l.store.AddNodeWithID(id, kind, pos)
	if err != nil {
		return domain.Node{}, l.reject("add node", fmt.Sprintf("Cannot add %s", kind), err)
	}
	if n.IsComputer() {
		l.configs[n.ID] = &domain.ComputerConfig{}
	}

	l.activity.Appendf("Added %s (%s) at (%.0f, %.0f)", n.ID, n.Kind, pos.X, pos.Y)
	l.publish(EventNodeAdded, map[string]string{"node_id": n.ID, "kind": string(n.Kind)})
	l.recorder.IntentApplied("add node")
	return *n, nil
}

// MoveNode repositions a node
func (l *Lab) MoveNode(id string, pos domain.Position) error {
	if err := l.store.MoveNode(id, pos); err != nil {
		return l.reject("move node", fmt.Sprintf("Cannot move %s", id), err)
	}
	l.activity.Appendf("Moved %s to (%.0f, %.0f)", id, pos.X, pos.Y)
	l.publish(EventNodeMoved, map[string]string{"node_id": id})
	l.recorder.IntentApplied("move node")
	return nil
}

// Connect wires two nodes. With duplicates disabled, wiring an already
// connected pair returns the existing cable.
func (l *Lab) Connect(fromID, toID string) (domain.Cable, error) {
	c, created, err := l.store.Connect(fromID, toID)
	if err != nil {
		return domain.Cable{}, l.reject("connect", fmt.Sprintf("Cannot connect %s to %s", fromID, toID), err)
	}
	if !created {
		l.activity.Appendf("%s and %s are already connected by %s", fromID, toID, c.ID)
		l.recorder.IntentApplied("connect")
		return c, nil
	}

	l.activity.Appendf("Connected %s to %s with a %s cable", c.FromID, c.ToID, c.Kind)
	l.publish(EventCableAdded, map[string]string{"cable_id": c.ID, "from": c.FromID, "to": c.ToID, "kind": string(c.Kind)})
	l.recorder.IntentApplied("connect")
	return c, nil
}

// RemoveCable deletes a single cable
func (l *Lab) RemoveCable(id string) (domain.Cable, error) {
	c, err := l.store.RemoveCable(id)
	if err != nil {
		return domain.Cable{}, l.reject("remove cable", fmt.Sprintf("Cannot remove %s", id), err)
	}
	l.cableRemoved(c)
	l.recorder.IntentApplied("remove cable")
	return c, nil
}

// DisconnectAll removes every cable touching nodeID
func (l *Lab) DisconnectAll(nodeID string) ([]domain.Cable, error) {
	removed, err := l.store.DisconnectAll(nodeID)
	if err != nil {
		return nil, l.reject("disconnect", fmt.Sprintf("Cannot disconnect %s", nodeID), err)
	}
	for _, c := range removed {
		l.cableRemoved(c)
	}
	l.recorder.IntentApplied("disconnect")
	return removed, nil
}

// DeleteNode removes a node, its cables and, for computers, its
// configuration. Displays and routers configured against a deleted
// computer return to unconfigured.
func (l *Lab) DeleteNode(id string) error {
	n, removed, err := l.store.DeleteNode(id)
	if err != nil {
		return l.reject("delete node", fmt.Sprintf("Cannot delete %s", id), err)
	}

	for _, c := range removed {
		l.cableRemoved(c)
	}
	if n.IsComputer() {
		delete(l.configs, id)
		l.releaseLinks(id)
	}

	l.activity.Appendf("Deleted %s (%s)", n.ID, n.Kind)
	l.publish(EventNodeDeleted, map[string]string{"node_id": n.ID, "kind": string(n.Kind)})
	l.recorder.IntentApplied("delete node")
	return nil
}

func (l *Lab) releaseLinks(computerID string) {
	for _, other := range l.store.Nodes() {
		if other.LinkedComputer != computerID {
			continue
		}
		if n, ok := l.store.Node(other.ID); ok {
			n.Reset()
			l.activity.Appendf("%s no longer reflects a computer", n.ID)
		}
	}
}

func (l *Lab) cableRemoved(c domain.Cable) {
	l.activity.Appendf("Removed %s cable %s between %s and %s", c.Kind, c.ID, c.FromID, c.ToID)
	l.publish(EventCableRemoved, map[string]string{"cable_id": c.ID, "from": c.FromID, "to": c.ToID})
}

// Node returns a copy of the node
func (l *Lab) Node(id string) (domain.Node, error) {
	n, err := l.store.MustNode(id)
	if err != nil {
		return domain.Node{}, err
	}
	return *n, nil
}

// Nodes returns copies of all nodes in insertion order
func (l *Lab) Nodes() []domain.Node {
	return l.store.Nodes()
}

// Cables returns copies of all cables in creation order
func (l *Lab) Cables() []domain.Cable {
	return l.store.Cables()
}

// Neighbors returns the ids cabled to id
func (l *Lab) Neighbors(id string) ([]string, error) {
	return l.store.NeighborsOf(id)
}

// Config returns a copy of a computer's configuration
func (l *Lab) Config(computerID string) (*domain.ComputerConfig, error) {
	if _, err := l.computer(computerID); err != nil {
		return nil, err
	}
	return l.configs[computerID].Clone(), nil
}

// Metrics returns a computer's performance metrics, or nil before
// hardware is installed
func (l *Lab) Metrics(computerID string) (*domain.PerformanceMetrics, error) {
	if _, err := l.computer(computerID); err != nil {
		return nil, err
	}
	m := l.configs[computerID].Metrics
	if m == nil {
		return nil, nil
	}
	out := *m
	return &out, nil
}

// PowerBudget compares a computer's estimated draw with its PSU, or
// returns nil before hardware is installed
func (l *Lab) PowerBudget(computerID string) (*scoring.Budget, error) {
	if _, err := l.computer(computerID); err != nil {
		return nil, err
	}
	cfg := l.configs[computerID]
	if !cfg.HasHardware() {
		return nil, nil
	}
	b := scoring.PowerBudget(*cfg.Hardware)
	return &b, nil
}

// Aggregate summarises every computer's hardware. Repeated calls without
// an intent in between return the memoized result.
func (l *Lab) Aggregate() aggregate.Specs {
	computers := l.store.NodesOfKind(domain.KindComputer)
	entries := make([]aggregate.Entry, 0, len(computers))
	for _, n := range computers {
		entries = append(entries, aggregate.Entry{ID: n.ID, Hardware: l.configs[n.ID].Hardware})
	}
	specs, cached := l.cache.Get(entries)
	l.recorder.AggregateComputed(cached)
	return specs
}

// Log returns every activity line, oldest first
func (l *Lab) Log() []string {
	return l.activity.Entries()
}

// LogTail returns the last n activity lines
func (l *Lab) LogTail(n int) []string {
	return l.activity.Tail(n)
}

// computer returns the node if it exists and is a computer
func (l *Lab) computer(id string) (*domain.Node, error) {
	n, err := l.store.MustNode(id)
	if err != nil {
		return nil, err
	}
	if !n.IsComputer() {
		return nil, &domain.WrongKindError{NodeID: id, Got: n.Kind, Want: domain.KindComputer}
	}
	return n, nil
}

func (l *Lab) hasHardware(id string) bool {
	return l.configs[id].HasHardware()
}

func (l *Lab) hasOS(id string) bool {
	return l.configs[id].HasOS()
}

// rescore recomputes a computer's metrics from its hardware and network
func (l *Lab) rescore(id string) {
	cfg := l.configs[id]
	if !cfg.HasHardware() {
		cfg.Metrics = nil
		return
	}
	m := scoring.Score(*cfg.Hardware, cfg.Network)
	cfg.Metrics = &m
}

// reject records a failed intent in the activity log and the process log
func (l *Lab) reject(intent, summary string, err error) error {
	l.activity.Appendf("%s: %v", summary, err)
	l.logger.Warn("intent rejected", "intent", intent, "error", err)
	l.recorder.IntentRejected(intent, err)
	return err
}

func (l *Lab) publish(t EventType, payload interface{}) {
	l.events.Publish(Event{Type: t, Scope: l.scope, Payload: payload})
}
