package domain

// StepAction names the configuration intent a scenario step performs
type StepAction string

const (
	StepHardware StepAction = "hardware"
	StepOS       StepAction = "os"
	StepNetwork  StepAction = "network"
)

// Scenario is a replayable list of intents used to seed a lab
type Scenario struct {
	Name   string          `json:"name"`
	Nodes  []ScenarioNode  `json:"nodes"`
	Cables []ScenarioCable `json:"cables"`
	Steps  []ScenarioStep  `json:"steps"`
}

// ScenarioNode places a node. An empty ID requests a generated one.
type ScenarioNode struct {
	ID   string   `json:"id,omitempty"`
	Kind NodeKind `json:"kind"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
}

// ScenarioCable wires two nodes by id
type ScenarioCable struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ScenarioStep applies one configuration intent. Exactly one payload
// matching Action is expected; a network step with Auto set ignores Network.
type ScenarioStep struct {
	Action   StepAction     `json:"action"`
	Node     string         `json:"node"`
	Hardware *HardwareSpec  `json:"hardware,omitempty"`
	OS       *OSConfig      `json:"os,omitempty"`
	Network  *NetworkConfig `json:"network,omitempty"`
	Auto     bool           `json:"auto,omitempty"`
}

// NewScenario creates an empty scenario
func NewScenario(name string) *Scenario {
	return &Scenario{
		Name:   name,
		Nodes:  make([]ScenarioNode, 0),
		Cables: make([]ScenarioCable, 0),
		Steps:  make([]ScenarioStep, 0),
	}
}

// AddNode appends a node placement
func (s *Scenario) AddNode(node ScenarioNode) {
	s.Nodes = append(s.Nodes, node)
}

// AddCable appends a cable
func (s *Scenario) AddCable(cable ScenarioCable) {
	s.Cables = append(s.Cables, cable)
}

// AddStep appends a configuration step
func (s *Scenario) AddStep(step ScenarioStep) {
	s.Steps = append(s.Steps, step)
}
