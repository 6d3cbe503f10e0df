package domain

import (
	"testing"
)

func TestInferCableKind(t *testing.T) {
	tests := []struct {
		a, b NodeKind
		want CableKind
	}{
		{KindDisplay, KindRouter, CableEthernet},
		{KindRouter, KindDisplay, CableEthernet},
		{KindComputer, KindDisplay, CablePower},
		{KindDisplay, KindComputer, CablePower},
		{KindComputer, KindRouter, CablePower},
		{KindComputer, KindComputer, CablePower},
		{KindRouter, KindRouter, CablePower},
	}

	for _, tt := range tests {
		if got := InferCableKind(tt.a, tt.b); got != tt.want {
			t.Errorf("InferCableKind(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewCable(t *testing.T) {
	pc := NewNode("PC-1", KindComputer, Position{})
	mon := NewNode("MON-1", KindDisplay, Position{})

	cable := NewCable("CBL-1", pc, mon)

	if cable.FromID != "PC-1" || cable.ToID != "MON-1" {
		t.Errorf("expected PC-1 -> MON-1, got %s -> %s", cable.FromID, cable.ToID)
	}
	if cable.Kind != CablePower {
		t.Errorf("expected power cable, got %s", cable.Kind)
	}
}

func TestCableEndpoints(t *testing.T) {
	cable := &Cable{ID: "c", FromID: "a", ToID: "b"}

	t.Run("touches both endpoints", func(t *testing.T) {
		if !cable.Touches("a") || !cable.Touches("b") {
			t.Error("expected cable to touch a and b")
		}
		if cable.Touches("c") {
			t.Error("expected cable not to touch c")
		}
	})

	t.Run("other endpoint", func(t *testing.T) {
		if got := cable.Other("a"); got != "b" {
			t.Errorf("expected b, got %s", got)
		}
		if got := cable.Other("b"); got != "a" {
			t.Errorf("expected a, got %s", got)
		}
		if got := cable.Other("z"); got != "" {
			t.Errorf("expected empty, got %s", got)
		}
	})

	t.Run("joins is direction independent", func(t *testing.T) {
		if !cable.Joins("a", "b") || !cable.Joins("b", "a") {
			t.Error("expected cable to join a and b in both directions")
		}
		if cable.Joins("a", "c") {
			t.Error("expected cable not to join a and c")
		}
	})
}
