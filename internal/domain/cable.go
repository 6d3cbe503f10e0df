package domain

// CableKind represents the type of cable between two modules
type CableKind string

const (
	CablePower    CableKind = "power"
	CableEthernet CableKind = "ethernet"
)

// Cable connects two nodes. It is undirected in meaning but keeps the
// direction it was drawn in for rendering.
type Cable struct {
	ID     string    `json:"id"`
	FromID string    `json:"from_id"`
	ToID   string    `json:"to_id"`
	Kind   CableKind `json:"kind"`
}

// NewCable creates a cable, inferring its kind from the endpoint kinds
func NewCable(id string, from, to *Node) *Cable {
	return &Cable{
		ID:     id,
		FromID: from.ID,
		ToID:   to.ID,
		Kind:   InferCableKind(from.Kind, to.Kind),
	}
}

// InferCableKind returns Ethernet for display<->router links and Power otherwise
func InferCableKind(a, b NodeKind) CableKind {
	if (a == KindDisplay && b == KindRouter) || (a == KindRouter && b == KindDisplay) {
		return CableEthernet
	}
	return CablePower
}

// Touches reports whether either endpoint is nodeID
func (c *Cable) Touches(nodeID string) bool {
	return c.FromID == nodeID || c.ToID == nodeID
}

// Other returns the endpoint opposite nodeID, or "" if the cable does not touch it
func (c *Cable) Other(nodeID string) string {
	switch nodeID {
	case c.FromID:
		return c.ToID
	case c.ToID:
		return c.FromID
	}
	return ""
}

// Joins reports whether the cable links a and b in either direction
func (c *Cable) Joins(a, b string) bool {
	return (c.FromID == a && c.ToID == b) || (c.FromID == b && c.ToID == a)
}
