package domain

import (
	"fmt"
	"strings"
)

// Graph is the derived view handed to the canvas renderer
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode represents a node in the visualization
type GraphNode struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Group      string   `json:"group"` // node kind
	Title      string   `json:"title"` // Tooltip content
	Position   Position `json:"position"`
	Configured bool     `json:"configured"`
}

// GraphEdge represents a cable in the visualization
type GraphEdge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"` // "power" or "ethernet"
}

// DeriveGraph converts nodes, cables and computer configs into a renderable Graph.
// Input order is preserved.
func DeriveGraph(nodes []Node, cables []Cable, configs map[string]*ComputerConfig) *Graph {
	graph := &Graph{
		Nodes: make([]GraphNode, 0, len(nodes)),
		Edges: make([]GraphEdge, 0, len(cables)),
	}

	for _, n := range nodes {
		graph.Nodes = append(graph.Nodes, GraphNode{
			ID:         n.ID,
			Label:      n.ID,
			Group:      string(n.Kind),
			Title:      buildTooltip(n, configs[n.ID]),
			Position:   n.Position,
			Configured: n.Configured,
		})
	}

	for _, c := range cables {
		graph.Edges = append(graph.Edges, GraphEdge{
			ID:    c.ID,
			From:  c.FromID,
			To:    c.ToID,
			Label: string(c.Kind),
		})
	}

	return graph
}

func buildTooltip(n Node, cfg *ComputerConfig) string {
	lines := []string{n.ID, string(n.Kind), string(n.Phase)}
	if n.LinkedComputer != "" {
		lines = append(lines, "linked to "+n.LinkedComputer)
	}
	if cfg != nil {
		if cfg.Hardware != nil {
			lines = append(lines, cfg.Hardware.CPU)
		}
		if cfg.OS != nil {
			lines = append(lines, fmt.Sprintf("%s %s", cfg.OS.Kind, cfg.OS.Edition))
		}
		if cfg.Network != nil {
			lines = append(lines, cfg.Network.IP)
		}
		if cfg.Metrics != nil {
			lines = append(lines, fmt.Sprintf("score %d", cfg.Metrics.Overall))
		}
	}
	return strings.Join(lines, "\n")
}
