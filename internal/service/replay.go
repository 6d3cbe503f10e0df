package service

import (
	"fmt"

	"buildlab/internal/domain"
)

// Outcome is the result of one scenario entry
type Outcome struct {
	Step string `json:"step"`
	Err  error  `json:"-"`
}

// Error returns the failure message, or ""
func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Report collects the outcome of every scenario entry in order
type Report struct {
	Scenario string    `json:"scenario"`
	Outcomes []Outcome `json:"outcomes"`
}

// Failed returns the outcomes that ended in an error
func (r *Report) Failed() []Outcome {
	failed := make([]Outcome, 0)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// OK reports whether every entry succeeded
func (r *Report) OK() bool {
	return len(r.Failed()) == 0
}

// ReplayScenario applies a scenario's nodes, cables and steps to lab in
// order. A failing entry is recorded and the replay continues.
func ReplayScenario(lab *Lab, sc *domain.Scenario) *Report {
	report := &Report{Scenario: sc.Name, Outcomes: make([]Outcome, 0)}
	record := func(step string, err error) {
		report.Outcomes = append(report.Outcomes, Outcome{Step: step, Err: err})
	}

	for _, n := range sc.Nodes {
		node, err := lab.AddNodeWithID(n.ID, n.Kind, domain.NewPosition(n.X, n.Y))
		name := n.ID
		if err == nil {
			name = node.ID
		}
		record(fmt.Sprintf("add %s %s", n.Kind, name), err)
	}

	for _, c := range sc.Cables {
		_, err := lab.Connect(c.From, c.To)
		record(fmt.Sprintf("connect %s %s", c.From, c.To), err)
	}

	for i, step := range sc.Steps {
		record(fmt.Sprintf("%s %s", step.Action, step.Node), applyStep(lab, step, i))
	}

	return report
}

func applyStep(lab *Lab, step domain.ScenarioStep, index int) error {
	switch step.Action {
	case domain.StepHardware:
		if step.Hardware == nil {
			return fmt.Errorf("step %d: hardware step without hardware", index+1)
		}
		_, err := lab.ApplyHardware(step.Node, *step.Hardware)
		return err
	case domain.StepOS:
		if step.OS == nil {
			return fmt.Errorf("step %d: os step without os", index+1)
		}
		_, err := lab.ApplyOS(step.Node, *step.OS)
		return err
	case domain.StepNetwork:
		if step.Auto {
			_, _, err := lab.ApplyAutoNetwork(step.Node)
			return err
		}
		if step.Network == nil {
			return fmt.Errorf("step %d: network step without network or auto", index+1)
		}
		_, err := lab.ApplyNetwork(step.Node, *step.Network)
		return err
	}
	return fmt.Errorf("step %d: unknown action %q", index+1, step.Action)
}
