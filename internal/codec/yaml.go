package codec

import (
	"fmt"
	"io"

	"buildlab/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlScenario represents the YAML structure of a scenario
type yamlScenario struct {
	Name   string      `yaml:"name,omitempty"`
	Nodes  []yamlNode  `yaml:"nodes"`
	Cables []yamlCable `yaml:"cables"`
	Steps  []yamlStep  `yaml:"steps"`
}

type yamlNode struct {
	ID   string  `yaml:"id,omitempty"`
	Kind string  `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type yamlCable struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// yamlStep accepts `network: auto` as shorthand for automatic mode
type yamlStep struct {
	Action   string               `yaml:"action"`
	Node     string               `yaml:"node"`
	Hardware *domain.HardwareSpec `yaml:"hardware,omitempty"`
	OS       *domain.OSConfig     `yaml:"os,omitempty"`
	Network  yaml.Node            `yaml:"network,omitempty"`
}

// Parse reads a scenario from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Scenario, error) {
	var ys yamlScenario
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ys); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	sc := domain.NewScenario(ys.Name)

	for _, yn := range ys.Nodes {
		kind, err := domain.ParseNodeKind(yn.Kind)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		sc.AddNode(domain.ScenarioNode{ID: yn.ID, Kind: kind, X: yn.X, Y: yn.Y})
	}

	for _, yc := range ys.Cables {
		sc.AddCable(domain.ScenarioCable{From: yc.From, To: yc.To})
	}

	for i, ystep := range ys.Steps {
		step := domain.ScenarioStep{
			Action:   domain.StepAction(ystep.Action),
			Node:     ystep.Node,
			Hardware: ystep.Hardware,
			OS:       ystep.OS,
		}
		switch {
		case ystep.Network.Kind == 0:
		case ystep.Network.Kind == yaml.ScalarNode && ystep.Network.Value == "auto":
			step.Auto = true
		default:
			var nc domain.NetworkConfig
			if err := ystep.Network.Decode(&nc); err != nil {
				return nil, fmt.Errorf("step %d: failed to parse network: %w", i+1, err)
			}
			step.Network = &nc
		}
		sc.AddStep(step)
	}

	if err := validate(sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return sc, nil
}

// Export writes a scenario as YAML
func (c *YAMLCodec) Export(sc *domain.Scenario, w io.Writer) error {
	ys := yamlScenario{
		Name:   sc.Name,
		Nodes:  make([]yamlNode, 0, len(sc.Nodes)),
		Cables: make([]yamlCable, 0, len(sc.Cables)),
		Steps:  make([]yamlStep, 0, len(sc.Steps)),
	}

	for _, n := range sc.Nodes {
		ys.Nodes = append(ys.Nodes, yamlNode{ID: n.ID, Kind: string(n.Kind), X: n.X, Y: n.Y})
	}

	for _, cable := range sc.Cables {
		ys.Cables = append(ys.Cables, yamlCable{From: cable.From, To: cable.To})
	}

	for _, s := range sc.Steps {
		ystep := yamlStep{
			Action:   string(s.Action),
			Node:     s.Node,
			Hardware: s.Hardware,
			OS:       s.OS,
		}
		switch {
		case s.Auto:
			ystep.Network = yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "auto"}
		case s.Network != nil:
			if err := ystep.Network.Encode(s.Network); err != nil {
				return fmt.Errorf("failed to encode network: %w", err)
			}
		}
		ys.Steps = append(ys.Steps, ystep)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&ys); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
