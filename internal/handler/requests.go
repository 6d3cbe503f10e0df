package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds every request body
const maxBodyBytes = 1 << 20

// AddNodeRequest places a node. An empty ID requests a generated one.
type AddNodeRequest struct {
	ID   string  `json:"id" validate:"omitempty,max=64,printascii"`
	Kind string  `json:"kind" validate:"required,max=16"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// PositionRequest moves a node
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConnectRequest wires two nodes
type ConnectRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// OSRequest installs an operating system through a display
type OSRequest struct {
	Kind    string `json:"os_kind" validate:"required,max=16"`
	Edition string `json:"edition" validate:"max=64"`
}

// NetworkRequest configures a network through a router. With Auto set the
// address fields are ignored. Address formats are checked by the lab so a
// malformed field is refused and logged like any other transition.
type NetworkRequest struct {
	Auto       bool   `json:"auto"`
	IP         string `json:"ip" validate:"required_unless=Auto true,max=15"`
	SubnetMask string `json:"subnet_mask" validate:"required_unless=Auto true,max=15"`
	Gateway    string `json:"gateway" validate:"required_unless=Auto true,max=15"`
	DNS        string `json:"dns" validate:"required_unless=Auto true,max=15"`
}

// decode reads a JSON body into dst and checks its struct tags
func (h *LabHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failed tag in a user-friendly form
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required", "required_unless":
			return fmt.Errorf("%s: field is required", field)
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
