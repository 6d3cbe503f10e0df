package service

import (
	"errors"
	"fmt"

	"buildlab/internal/catalog"
	"buildlab/internal/domain"
	"buildlab/internal/netcfg"
	"buildlab/internal/topology"
)

// ApplyHardware installs hardware on a computer, replacing any previous
// hardware, and rescores it. An undersized PSU only produces a warning.
func (l *Lab) ApplyHardware(computerID string, hw domain.HardwareSpec) (domain.Node, error) {
	n, err := l.computer(computerID)
	if err != nil {
		return domain.Node{}, l.reject("apply hardware", fmt.Sprintf("Cannot install hardware on %s", computerID), err)
	}

	cfg := l.configs[computerID]
	installed := hw
	cfg.Hardware = &installed
	l.rescore(computerID)
	n.Advance(domain.PhaseHardwareSet)

	l.activity.Appendf("Installed hardware on %s: %s, %s, %s, %s, %s (overall score %d)",
		n.ID, hw.CPU, hw.RAM, hw.Storage, hw.GPU, hw.PSU, cfg.Metrics.Overall)
	if budget, _ := l.PowerBudget(computerID); budget != nil && !budget.Sufficient {
		l.activity.Appendf("Warning: %s draws about %dW but its PSU is rated %dW", n.ID, budget.DrawWatts, budget.CapacityWatts)
		l.logger.Warn("power supply undersized", "node_id", n.ID, "draw_watts", budget.DrawWatts, "capacity_watts", budget.CapacityWatts)
	}

	l.configured(n, computerID)
	l.recorder.IntentApplied("apply hardware")
	return *n, nil
}

// ApplyOS installs an operating system through a display onto the computer
// the display resolves to. The computer must have hardware installed.
func (l *Lab) ApplyOS(displayID string, os domain.OSConfig) (domain.Node, error) {
	const intent = "apply os"
	summary := fmt.Sprintf("Cannot install an operating system via %s", displayID)

	n, err := l.store.MustNode(displayID)
	if err != nil {
		return domain.Node{}, l.reject(intent, summary, err)
	}
	if n.Kind != domain.KindDisplay {
		return domain.Node{}, l.reject(intent, summary, &domain.WrongKindError{NodeID: displayID, Got: n.Kind, Want: domain.KindDisplay})
	}
	kind, err := domain.ParseOSKind(string(os.Kind))
	if err != nil {
		return domain.Node{}, l.reject(intent, summary, err)
	}
	os.Kind = kind
	if os.Edition == "" {
		os.Edition = catalog.DefaultEdition(kind)
	}

	target := topology.ResolveComputerFor(displayID, l.store, l.hasHardware)
	switch {
	case target == "":
		return domain.Node{}, l.refuse(n, domain.PhaseOSSet, summary, "there is no computer to install onto")
	case !l.hasHardware(target):
		return domain.Node{}, l.refuse(n, domain.PhaseOSSet, summary, target+" has no hardware installed")
	}

	cfg := l.configs[target]
	installed := os
	cfg.OS = &installed
	l.rescore(target)
	n.LinkedComputer = target
	n.Advance(domain.PhaseOSSet)

	edition := os.Edition
	if !catalog.KnownOSEdition(kind, edition) {
		edition += " (custom)"
	}
	l.activity.Appendf("Installed %s %s on %s via %s", kind, edition, target, n.ID)

	l.configured(n, target)
	l.recorder.IntentApplied(intent)
	return *n, nil
}

// ApplyNetwork validates cfg and attaches it through a router to the
// computer the router resolves to
func (l *Lab) ApplyNetwork(routerID string, cfg domain.NetworkConfig) (domain.Node, error) {
	n, _, err := l.applyNetwork(routerID, &cfg)
	return n, err
}

// ApplyAutoNetwork synthesizes a valid address inside the target
// computer's existing subnet, or the configured default subnet, and
// attaches it. It returns the config that was applied.
func (l *Lab) ApplyAutoNetwork(routerID string) (domain.Node, domain.NetworkConfig, error) {
	return l.applyNetwork(routerID, nil)
}

func (l *Lab) applyNetwork(routerID string, requested *domain.NetworkConfig) (domain.Node, domain.NetworkConfig, error) {
	const intent = "apply network"
	summary := fmt.Sprintf("Cannot configure the network via %s", routerID)

	n, err := l.store.MustNode(routerID)
	if err != nil {
		return domain.Node{}, domain.NetworkConfig{}, l.reject(intent, summary, err)
	}
	if n.Kind != domain.KindRouter {
		return domain.Node{}, domain.NetworkConfig{}, l.reject(intent, summary, &domain.WrongKindError{NodeID: routerID, Got: n.Kind, Want: domain.KindRouter})
	}
	if !topology.AnyComputer(l.store, l.hasOS) {
		return domain.Node{}, domain.NetworkConfig{}, l.refuse(n, domain.PhaseNetworkSet, summary, "no computer has an operating system installed")
	}
	target := topology.ResolveComputerForRouter(routerID, l.store, l.hasOS)

	var cfg domain.NetworkConfig
	if requested == nil {
		cfg = l.autoAssign(target)
	} else {
		cfg = *requested
	}
	if err := netcfg.Validate(cfg); err != nil {
		return domain.Node{}, domain.NetworkConfig{}, l.refuseInvalid(n, summary, err)
	}

	owner := l.configs[target]
	attached := cfg
	owner.Network = &attached
	l.rescore(target)
	n.LinkedComputer = target
	n.Advance(domain.PhaseNetworkSet)

	mode := "manual"
	if requested == nil {
		mode = "automatic"
	}
	l.activity.Appendf("Configured %s network on %s via %s: %s mask %s gateway %s dns %s",
		mode, target, n.ID, cfg.IP, cfg.SubnetMask, cfg.Gateway, cfg.DNS)

	l.configured(n, target)
	l.recorder.IntentApplied(intent)
	return *n, cfg, nil
}

// autoAssign builds a config in the target's subnet that avoids every
// address already held by another computer
func (l *Lab) autoAssign(target string) domain.NetworkConfig {
	var base domain.NetworkConfig
	if existing := l.configs[target].Network; existing != nil {
		base = *existing
	}

	used := make([]string, 0)
	for id, cfg := range l.configs {
		if id != target && cfg.Network != nil {
			used = append(used, cfg.Network.IP)
		}
	}
	return netcfg.AutoAssign(base, l.auto.Defaults, used, l.auto.FirstHost)
}

// refuse reports a failed gate. Nothing has been written.
func (l *Lab) refuse(n *domain.Node, phase domain.Phase, summary, reason string) error {
	err := &domain.PrerequisiteNotMetError{NodeID: n.ID, Phase: phase, Reason: reason}
	l.activity.Appendf("%s: %s", summary, reason)
	l.logger.Warn("transition refused", "node_id", n.ID, "kind", n.Kind, "phase", phase, "reason", reason)
	l.publish(EventTransitionRefused, map[string]string{"node_id": n.ID, "phase": string(phase), "reason": reason})
	l.recorder.IntentRejected(phaseIntent(phase), err)
	l.recorder.TransitionRefused(phase)
	return err
}

func (l *Lab) refuseInvalid(n *domain.Node, summary string, err error) error {
	var invalid *domain.InvalidNetworkConfigError
	reason := err.Error()
	if errors.As(err, &invalid) && invalid.Reason == domain.ReasonSubnetMismatch {
		reason = "IP not in gateway's subnet"
	}
	l.activity.Appendf("%s: %v", summary, err)
	l.logger.Warn("transition refused", "node_id", n.ID, "kind", n.Kind, "phase", domain.PhaseNetworkSet, "error", err)
	l.publish(EventTransitionRefused, map[string]string{"node_id": n.ID, "phase": string(domain.PhaseNetworkSet), "reason": reason})
	l.recorder.IntentRejected("apply network", err)
	l.recorder.TransitionRefused(domain.PhaseNetworkSet)
	return err
}

func phaseIntent(phase domain.Phase) string {
	switch phase {
	case domain.PhaseOSSet:
		return "apply os"
	case domain.PhaseNetworkSet:
		return "apply network"
	}
	return "apply hardware"
}

// configured finishes a successful transition
func (l *Lab) configured(n *domain.Node, computerID string) {
	l.logger.Debug("transition applied", "node_id", n.ID, "kind", n.Kind, "phase", n.Phase, "computer", computerID)
	l.publish(EventNodeConfigured, map[string]string{"node_id": n.ID, "phase": string(n.Phase), "computer": computerID})
}
