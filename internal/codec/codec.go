// Package codec reads and writes scenario documents: the nodes, cables and
// configuration steps that rebuild a lab when replayed.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"buildlab/internal/domain"
)

// Importer interface for reading scenarios from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Scenario, error)
	Format() string
}

// Exporter interface for writing scenarios to various formats
type Exporter interface {
	Export(sc *domain.Scenario, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for "json" or "yaml"/"yml"
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ParseFile reads a scenario, picking the codec from the file extension
func ParseFile(path string) (*domain.Scenario, error) {
	c, err := ForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	return c.Parse(f)
}

// validate checks the parts of a scenario that replay cannot recover from
func validate(sc *domain.Scenario) error {
	for i, n := range sc.Nodes {
		if !n.Kind.Valid() {
			return fmt.Errorf("node %d: unknown kind %q", i+1, n.Kind)
		}
	}
	for i, c := range sc.Cables {
		if c.From == "" || c.To == "" {
			return fmt.Errorf("cable %d: from and to are required", i+1)
		}
	}
	for i, s := range sc.Steps {
		switch s.Action {
		case domain.StepHardware, domain.StepOS, domain.StepNetwork:
		default:
			return fmt.Errorf("step %d: unknown action %q", i+1, s.Action)
		}
		if s.Node == "" {
			return fmt.Errorf("step %d: node is required", i+1)
		}
	}
	return nil
}
