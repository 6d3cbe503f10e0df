package service

import (
	"buildlab/internal/aggregate"
	"buildlab/internal/domain"
)

// Snapshot is an immutable copy of a lab's state for rendering and export
type Snapshot struct {
	Nodes     []domain.Node                     `json:"nodes" yaml:"nodes"`
	Cables    []domain.Cable                    `json:"cables" yaml:"cables"`
	Configs   map[string]*domain.ComputerConfig `json:"configs" yaml:"configs"`
	Aggregate aggregate.Specs                   `json:"aggregate" yaml:"aggregate"`
	Summary   string                            `json:"summary" yaml:"summary"`
	Log       []string                          `json:"log" yaml:"log"`
	Graph     *domain.Graph                     `json:"graph" yaml:"-"`
}

// Snapshot copies the current state. The log is limited to the configured
// tail length.
func (l *Lab) Snapshot() Snapshot {
	nodes := l.store.Nodes()
	cables := l.store.Cables()

	configs := make(map[string]*domain.ComputerConfig, len(l.configs))
	for id, cfg := range l.configs {
		configs[id] = cfg.Clone()
	}

	agg := l.Aggregate()
	return Snapshot{
		Nodes:     nodes,
		Cables:    cables,
		Configs:   configs,
		Aggregate: agg,
		Summary:   agg.Summary(),
		Log:       l.activity.Tail(l.logTail),
		Graph:     domain.DeriveGraph(nodes, cables, configs),
	}
}
