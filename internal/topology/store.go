// Package topology holds the nodes and cables placed on the canvas and
// enforces the structural rules of the graph: unique ids, existing
// endpoints and no self-loops. Cycles and parallel cables are allowed.
package topology

import (
	"fmt"

	"buildlab/internal/domain"
)

// Option configures a Store
type Option func(*Store)

// AllowDuplicateCables controls whether Connect adds a second cable between
// a pair that is already wired. When disabled Connect returns the existing
// cable instead.
func AllowDuplicateCables(allow bool) Option {
	return func(s *Store) {
		s.allowDuplicates = allow
	}
}

// Store is an in-memory topology graph. It is not safe for concurrent use;
// callers apply one intent at a time.
type Store struct {
	nodes    map[string]*domain.Node
	order    []string
	cables   []*domain.Cable
	counters map[domain.NodeKind]int
	cableSeq int

	allowDuplicates bool
}

// NewStore creates an empty store. Duplicate cables are allowed by default.
func NewStore(opts ...Option) *Store {
	s := &Store{
		nodes:           make(map[string]*domain.Node),
		order:           make([]string, 0),
		cables:          make([]*domain.Cable, 0),
		counters:        make(map[domain.NodeKind]int),
		allowDuplicates: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNode places a node with a generated id of the form KIND-N
func (s *Store) AddNode(kind domain.NodeKind, pos domain.Position) (*domain.Node, error) {
	return s.AddNodeWithID("", kind, pos)
}

// AddNodeWithID places a node under a caller-chosen id. An empty id
// requests a generated one.
func (s *Store) AddNodeWithID(id string, kind domain.NodeKind, pos domain.Position) (*domain.Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
	if id == "" {
		id = s.nextID(kind)
	} else if _, exists := s.nodes[id]; exists {
		return nil, &domain.DuplicateIDError{ID: id}
	}

	node := domain.NewNode(id, kind, pos)
	s.nodes[id] = node
	s.order = append(s.order, id)
	return node, nil
}

// nextID advances the per-kind counter past any explicitly supplied ids
func (s *Store) nextID(kind domain.NodeKind) string {
	for {
		s.counters[kind]++
		id := fmt.Sprintf("%s-%d", kind.LabelPrefix(), s.counters[kind])
		if _, taken := s.nodes[id]; !taken {
			return id
		}
	}
}

// Node returns the stored node. The pointer is owned by the store.
func (s *Store) Node(id string) (*domain.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// MustNode returns the node or an UnknownNodeError
func (s *Store) MustNode(id string) (*domain.Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, &domain.UnknownNodeError{ID: id}
	}
	return n, nil
}

// MoveNode repositions a node
func (s *Store) MoveNode(id string, pos domain.Position) error {
	n, err := s.MustNode(id)
	if err != nil {
		return err
	}
	n.Position = pos
	return nil
}

// Connect wires two nodes and infers the cable kind from their kinds.
// created is false when duplicates are disabled and an existing cable
// between the pair was returned.
func (s *Store) Connect(fromID, toID string) (cable domain.Cable, created bool, err error) {
	from, err := s.MustNode(fromID)
	if err != nil {
		return domain.Cable{}, false, err
	}
	to, err := s.MustNode(toID)
	if err != nil {
		return domain.Cable{}, false, err
	}
	if fromID == toID {
		return domain.Cable{}, false, &domain.SelfLoopError{ID: fromID}
	}

	if !s.allowDuplicates {
		for _, c := range s.cables {
			if c.Joins(fromID, toID) {
				return *c, false, nil
			}
		}
	}

	s.cableSeq++
	c := domain.NewCable(fmt.Sprintf("CABLE-%d", s.cableSeq), from, to)
	s.cables = append(s.cables, c)
	return *c, true, nil
}

// RemoveCable deletes a single cable
func (s *Store) RemoveCable(id string) (domain.Cable, error) {
	for i, c := range s.cables {
		if c.ID == id {
			s.cables = append(s.cables[:i], s.cables[i+1:]...)
			return *c, nil
		}
	}
	return domain.Cable{}, &domain.UnknownCableError{ID: id}
}

// DisconnectAll removes every cable touching nodeID and returns them in
// creation order
func (s *Store) DisconnectAll(nodeID string) ([]domain.Cable, error) {
	if _, err := s.MustNode(nodeID); err != nil {
		return nil, err
	}
	return s.detach(nodeID), nil
}

func (s *Store) detach(nodeID string) []domain.Cable {
	removed := make([]domain.Cable, 0)
	kept := s.cables[:0]
	for _, c := range s.cables {
		if c.Touches(nodeID) {
			removed = append(removed, *c)
			continue
		}
		kept = append(kept, c)
	}
	// clear the tail so dropped cables can be collected
	for i := len(kept); i < len(s.cables); i++ {
		s.cables[i] = nil
	}
	s.cables = kept
	return removed
}

// DeleteNode removes a node together with its incident cables
func (s *Store) DeleteNode(id string) (domain.Node, []domain.Cable, error) {
	n, err := s.MustNode(id)
	if err != nil {
		return domain.Node{}, nil, err
	}

	removed := s.detach(id)
	delete(s.nodes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return *n, removed, nil
}

// NeighborsOf returns the distinct nodes cabled to id, in cable order
func (s *Store) NeighborsOf(id string) ([]string, error) {
	if _, err := s.MustNode(id); err != nil {
		return nil, err
	}
	return s.neighbors(id), nil
}

func (s *Store) neighbors(id string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, c := range s.cables {
		other := c.Other(id)
		if other == "" || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// NodesOfKind returns copies of the nodes of kind in insertion order
func (s *Store) NodesOfKind(kind domain.NodeKind) []domain.Node {
	out := make([]domain.Node, 0)
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == kind {
			out = append(out, *n)
		}
	}
	return out
}

// Nodes returns copies of all nodes in insertion order
func (s *Store) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Cables returns copies of all cables in creation order
func (s *Store) Cables() []domain.Cable {
	out := make([]domain.Cable, 0, len(s.cables))
	for _, c := range s.cables {
		out = append(out, *c)
	}
	return out
}

// CablesOf returns copies of the cables touching id
func (s *Store) CablesOf(id string) []domain.Cable {
	out := make([]domain.Cable, 0)
	for _, c := range s.cables {
		if c.Touches(id) {
			out = append(out, *c)
		}
	}
	return out
}

// Len returns the number of nodes
func (s *Store) Len() int {
	return len(s.order)
}
