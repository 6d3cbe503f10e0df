package service

import (
	"fmt"

	"buildlab/internal/domain"
	"buildlab/internal/topology"
)

// Scenario describes the lab as a replayable scenario: every node and
// cable, then one hardware, OS and network step per configured computer.
//
// Replay applies all hardware before any OS and all OS before any network,
// so the resolution predicates during replay match the current lab. Each
// OS or network step goes through a display or router that resolves to
// the computer in the current topology, preferring one currently linked
// to it. When none does, a display or router cabled only to that
// computer is added to the scenario. Such a leaf cannot change how any
// existing display or router resolves.
func (l *Lab) Scenario(name string) *domain.Scenario {
	sc := domain.NewScenario(name)
	nodes := l.store.Nodes()

	for _, n := range nodes {
		sc.AddNode(domain.ScenarioNode{ID: n.ID, Kind: n.Kind, X: n.Position.X, Y: n.Position.Y})
	}
	for _, c := range l.store.Cables() {
		sc.AddCable(domain.ScenarioCable{From: c.FromID, To: c.ToID})
	}

	e := &exporter{lab: l, sc: sc, nodes: nodes, taken: make(map[string]bool, len(nodes))}
	for _, n := range nodes {
		e.taken[n.ID] = true
	}

	for _, n := range nodes {
		if cfg := l.configs[n.ID]; n.IsComputer() && cfg.HasHardware() {
			hw := *cfg.Hardware
			sc.AddStep(domain.ScenarioStep{Action: domain.StepHardware, Node: n.ID, Hardware: &hw})
		}
	}

	e.steps(domain.KindDisplay, domain.StepOS,
		func(cfg *domain.ComputerConfig) bool { return cfg.HasOS() },
		func(id string) string { return topology.ResolveComputerFor(id, l.store, l.hasHardware) },
		func(step *domain.ScenarioStep, cfg *domain.ComputerConfig) {
			os := *cfg.OS
			step.OS = &os
		})
	e.steps(domain.KindRouter, domain.StepNetwork,
		func(cfg *domain.ComputerConfig) bool { return cfg.Network != nil },
		func(id string) string { return topology.ResolveComputerForRouter(id, l.store, l.hasOS) },
		func(step *domain.ScenarioStep, cfg *domain.ComputerConfig) {
			network := *cfg.Network
			step.Network = &network
		})

	return sc
}

type exporter struct {
	lab   *Lab
	sc    *domain.Scenario
	nodes []domain.Node
	taken map[string]bool
}

// steps emits one step per computer holding the configuration selected by
// has. A display or router resolves to a single computer, so each carries
// at most one step.
func (e *exporter) steps(kind domain.NodeKind, action domain.StepAction, has func(*domain.ComputerConfig) bool,
	resolve func(nodeID string) string, fill func(*domain.ScenarioStep, *domain.ComputerConfig)) {

	resolved := make(map[string][]domain.Node)
	for _, n := range e.nodes {
		if n.Kind == kind {
			target := resolve(n.ID)
			resolved[target] = append(resolved[target], n)
		}
	}

	for _, pc := range e.nodes {
		cfg := e.lab.configs[pc.ID]
		if !pc.IsComputer() || cfg == nil || !has(cfg) {
			continue
		}

		step := domain.ScenarioStep{Action: action}
		fill(&step, cfg)

		candidates := resolved[pc.ID]
		if len(candidates) == 0 {
			step.Node = e.leaf(kind, pc)
			e.sc.AddStep(step)
			continue
		}

		step.Node = candidates[0].ID
		for _, c := range candidates {
			if c.Configured && c.LinkedComputer == pc.ID {
				step.Node = c.ID
				break
			}
		}
		e.sc.AddStep(step)
	}
}

// leaf adds a node of kind cabled only to pc and returns its id
func (e *exporter) leaf(kind domain.NodeKind, pc domain.Node) string {
	var id string
	for i := 1; ; i++ {
		id = fmt.Sprintf("%s-%d", kind.LabelPrefix(), i)
		if !e.taken[id] {
			break
		}
	}
	e.taken[id] = true

	e.sc.AddNode(domain.ScenarioNode{ID: id, Kind: kind, X: pc.Position.X, Y: pc.Position.Y + 80})
	e.sc.AddCable(domain.ScenarioCable{From: pc.ID, To: id})
	e.lab.logger.Info("export added a node to reproduce configuration", "node_id", id, "kind", kind, "computer", pc.ID)
	return id
}
