package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"buildlab/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a scenario from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Scenario, error) {
	var sc domain.Scenario
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &sc, nil
}

// Export writes a scenario as JSON
func (c *JSONCodec) Export(sc *domain.Scenario, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(sc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
