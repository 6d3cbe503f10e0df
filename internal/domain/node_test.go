package domain

import (
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("creates unconfigured node", func(t *testing.T) {
		node := NewNode("PC-1", KindComputer, NewPosition(10, 20))

		if node.ID != "PC-1" {
			t.Errorf("expected ID 'PC-1', got %s", node.ID)
		}
		if node.Kind != KindComputer {
			t.Errorf("expected kind %s, got %s", KindComputer, node.Kind)
		}
		if node.Phase != PhaseUnconfigured {
			t.Errorf("expected phase %s, got %s", PhaseUnconfigured, node.Phase)
		}
		if node.Configured {
			t.Error("expected new node to be unconfigured")
		}
		if node.Position.X != 10 || node.Position.Y != 20 {
			t.Errorf("expected position (10, 20), got (%f, %f)", node.Position.X, node.Position.Y)
		}
	})
}

func TestNodeAdvance(t *testing.T) {
	tests := []struct {
		kind       NodeKind
		phase      Phase
		configured bool
	}{
		{KindComputer, PhaseHardwareSet, true},
		{KindDisplay, PhaseOSSet, true},
		{KindRouter, PhaseNetworkSet, true},
		{KindDisplay, PhaseHardwareSet, false},
		{KindRouter, PhaseOSSet, false},
	}

	for _, tt := range tests {
		node := NewNode("n", tt.kind, Position{})
		node.Advance(tt.phase)
		if node.Phase != tt.phase {
			t.Errorf("%s: expected phase %s, got %s", tt.kind, tt.phase, node.Phase)
		}
		if node.Configured != tt.configured {
			t.Errorf("%s in %s: Configured = %v, want %v", tt.kind, tt.phase, node.Configured, tt.configured)
		}
	}
}

func TestNodeReset(t *testing.T) {
	node := NewNode("MON-1", KindDisplay, Position{})
	node.LinkedComputer = "PC-1"
	node.Advance(PhaseOSSet)

	node.Reset()

	if node.Phase != PhaseUnconfigured || node.Configured || node.LinkedComputer != "" {
		t.Errorf("expected reset node, got %+v", node)
	}
}

func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeKind
		wantErr bool
	}{
		{"computer", KindComputer, false},
		{"PC", KindComputer, false},
		{"Display", KindDisplay, false},
		{"monitor", KindDisplay, false},
		{" router ", KindRouter, false},
		{"switch", "", true},
	}

	for _, tt := range tests {
		got, err := ParseNodeKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNodeKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNodeKind(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestNodeKindLabelPrefix(t *testing.T) {
	if got := KindComputer.LabelPrefix(); got != "PC" {
		t.Errorf("expected PC, got %s", got)
	}
	if got := KindDisplay.LabelPrefix(); got != "MON" {
		t.Errorf("expected MON, got %s", got)
	}
	if got := KindRouter.LabelPrefix(); got != "RTR" {
		t.Errorf("expected RTR, got %s", got)
	}
	if NodeKind("switch").Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}
