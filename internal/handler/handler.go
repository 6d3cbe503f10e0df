package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"buildlab/internal/aggregate"
	"buildlab/internal/catalog"
	"buildlab/internal/codec"
	"buildlab/internal/domain"
	"buildlab/internal/scoring"
	"buildlab/internal/service"
	"buildlab/internal/session"
)

// LabHandler handles lab session API requests
type LabHandler struct {
	sessions *session.Manager
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLabHandler creates a new lab handler. A nil logger discards records.
func NewLabHandler(sessions *session.Manager, logger *slog.Logger) *LabHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &LabHandler{sessions: sessions, validate: v, logger: logger}
}

// Register adds every lab route to mux
func (h *LabHandler) Register(mux *http.ServeMux) {
	// Sessions
	mux.HandleFunc("POST /api/sessions", h.CreateSession)
	mux.HandleFunc("GET /api/sessions/{sid}", h.GetSnapshot)
	mux.HandleFunc("DELETE /api/sessions/{sid}", h.DeleteSession)

	// Topology
	mux.HandleFunc("POST /api/sessions/{sid}/nodes", h.AddNode)
	mux.HandleFunc("GET /api/sessions/{sid}/nodes/{id}", h.GetNode)
	mux.HandleFunc("PUT /api/sessions/{sid}/nodes/{id}/position", h.MoveNode)
	mux.HandleFunc("DELETE /api/sessions/{sid}/nodes/{id}", h.DeleteNode)
	mux.HandleFunc("GET /api/sessions/{sid}/nodes/{id}/neighbors", h.GetNeighbors)
	mux.HandleFunc("POST /api/sessions/{sid}/cables", h.Connect)
	mux.HandleFunc("DELETE /api/sessions/{sid}/cables/{id}", h.RemoveCable)
	mux.HandleFunc("DELETE /api/sessions/{sid}/nodes/{id}/cables", h.DisconnectAll)

	// Provisioning
	mux.HandleFunc("PUT /api/sessions/{sid}/nodes/{id}/hardware", h.ApplyHardware)
	mux.HandleFunc("PUT /api/sessions/{sid}/nodes/{id}/os", h.ApplyOS)
	mux.HandleFunc("PUT /api/sessions/{sid}/nodes/{id}/network", h.ApplyNetwork)

	// Reads
	mux.HandleFunc("GET /api/sessions/{sid}/computers/{id}/metrics", h.GetMetrics)
	mux.HandleFunc("GET /api/sessions/{sid}/computers/{id}/config", h.GetConfig)
	mux.HandleFunc("GET /api/sessions/{sid}/aggregate", h.GetAggregate)
	mux.HandleFunc("GET /api/sessions/{sid}/log", h.GetLog)

	// Scenarios
	mux.HandleFunc("GET /api/sessions/{sid}/export", h.Export)
	mux.HandleFunc("POST /api/sessions/{sid}/import", h.Import)

	mux.HandleFunc("GET /api/catalog", h.GetCatalog)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Snapshot  service.Snapshot `json:"snapshot"`
}

// NetworkResponse reports the router and the config that was attached
type NetworkResponse struct {
	Node    domain.Node          `json:"node"`
	Network domain.NetworkConfig `json:"network"`
}

// MetricsResponse is null-valued before hardware is installed
type MetricsResponse struct {
	ComputerID string                     `json:"computer_id"`
	Metrics    *domain.PerformanceMetrics `json:"metrics"`
	Power      *scoring.Budget            `json:"power"`
}

// AggregateResponse carries the fleet totals and their summary line
type AggregateResponse struct {
	aggregate.Specs
	Summary string `json:"summary"`
}

// ImportResponse lists the outcome of every replayed scenario entry
type ImportResponse struct {
	Scenario string           `json:"scenario"`
	OK       bool             `json:"ok"`
	Outcomes []StepOutcome    `json:"outcomes"`
	Snapshot service.Snapshot `json:"snapshot"`
}

// StepOutcome is one replayed entry
type StepOutcome struct {
	Step  string `json:"step"`
	Error string `json:"error,omitempty"`
}

// CreateSession opens a new session
func (h *LabHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		h.writeError(w, "Failed to create session", err.Error(), http.StatusInternalServerError)
		return
	}

	resp := SessionResponse{ID: s.ID, CreatedAt: s.CreatedAt}
	_ = s.With(func(lab *service.Lab) error {
		resp.Snapshot = lab.Snapshot()
		return nil
	})
	h.writeJSON(w, resp, http.StatusCreated)
}

// GetSnapshot returns the session's full state
func (h *LabHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.withLab(w, r, "Failed to get session", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.Snapshot(), nil
	})
}

// DeleteSession closes a session
func (h *LabHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("sid")); err != nil {
		h.writeLabError(w, "Failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNode places a node
func (h *LabHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req AddNodeRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	kind, err := domain.ParseNodeKind(req.Kind)
	if err != nil {
		h.writeError(w, "Invalid node kind", err.Error(), http.StatusBadRequest)
		return
	}

	h.withLab(w, r, "Failed to add node", http.StatusCreated, func(lab *service.Lab) (interface{}, error) {
		return lab.AddNodeWithID(req.ID, kind, domain.NewPosition(req.X, req.Y))
	})
}

// GetNode returns a single node
func (h *LabHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to get node", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.Node(id)
	})
}

// MoveNode repositions a node
func (h *LabHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	h.withLab(w, r, "Failed to move node", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		if err := lab.MoveNode(id, domain.NewPosition(req.X, req.Y)); err != nil {
			return nil, err
		}
		return lab.Node(id)
	})
}

// DeleteNode removes a node and everything attached to it
func (h *LabHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to delete node", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		if err := lab.DeleteNode(id); err != nil {
			return nil, err
		}
		return lab.Snapshot(), nil
	})
}

// GetNeighbors lists the ids cabled to a node
func (h *LabHandler) GetNeighbors(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to get neighbors", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.Neighbors(id)
	})
}

// Connect wires two nodes
func (h *LabHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	h.withLab(w, r, "Failed to connect", http.StatusCreated, func(lab *service.Lab) (interface{}, error) {
		return lab.Connect(req.From, req.To)
	})
}

// RemoveCable deletes one cable
func (h *LabHandler) RemoveCable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to remove cable", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.RemoveCable(id)
	})
}

// DisconnectAll removes every cable touching a node
func (h *LabHandler) DisconnectAll(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to disconnect", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.DisconnectAll(id)
	})
}

// ApplyHardware installs hardware on a computer
func (h *LabHandler) ApplyHardware(w http.ResponseWriter, r *http.Request) {
	var req domain.HardwareSpec
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	h.withLab(w, r, "Failed to install hardware", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.ApplyHardware(id, req)
	})
}

// ApplyOS installs an operating system through a display
func (h *LabHandler) ApplyOS(w http.ResponseWriter, r *http.Request) {
	var req OSRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	h.withLab(w, r, "Failed to install operating system", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.ApplyOS(id, domain.OSConfig{Kind: domain.OSKind(req.Kind), Edition: req.Edition})
	})
}

// ApplyNetwork configures a network through a router
func (h *LabHandler) ApplyNetwork(w http.ResponseWriter, r *http.Request) {
	var req NetworkRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	h.withLab(w, r, "Failed to configure network", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		if req.Auto {
			n, cfg, err := lab.ApplyAutoNetwork(id)
			if err != nil {
				return nil, err
			}
			return NetworkResponse{Node: n, Network: cfg}, nil
		}

		cfg := domain.NetworkConfig{IP: req.IP, SubnetMask: req.SubnetMask, Gateway: req.Gateway, DNS: req.DNS}
		n, err := lab.ApplyNetwork(id, cfg)
		if err != nil {
			return nil, err
		}
		return NetworkResponse{Node: n, Network: cfg}, nil
	})
}

// GetMetrics returns a computer's metrics and power budget
func (h *LabHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to get metrics", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		m, err := lab.Metrics(id)
		if err != nil {
			return nil, err
		}
		budget, err := lab.PowerBudget(id)
		if err != nil {
			return nil, err
		}
		return MetricsResponse{ComputerID: id, Metrics: m, Power: budget}, nil
	})
}

// GetConfig returns a computer's configuration
func (h *LabHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.withLab(w, r, "Failed to get config", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		return lab.Config(id)
	})
}

// GetAggregate returns fleet totals
func (h *LabHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	h.withLab(w, r, "Failed to get aggregate", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		specs := lab.Aggregate()
		return AggregateResponse{Specs: specs, Summary: specs.Summary()}, nil
	})
}

// GetLog returns the activity log, or its last ?tail=N lines
func (h *LabHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	tail := 0
	if s := r.URL.Query().Get("tail"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			h.writeError(w, "Invalid tail", "tail must be a non-negative integer", http.StatusBadRequest)
			return
		}
		tail = n
	}

	h.withLab(w, r, "Failed to get log", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		if tail > 0 {
			return lab.LogTail(tail), nil
		}
		return lab.Log(), nil
	})
}

// Export writes the session as a replayable scenario in ?format=json|yaml
func (h *LabHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = r.PathValue("sid")
	}

	var buf bytes.Buffer
	err = h.sessions.Do(r.PathValue("sid"), func(lab *service.Lab) error {
		return c.Export(lab.Scenario(name), &buf)
	})
	if err != nil {
		h.writeLabError(w, "Failed to export", err)
		return
	}

	contentType := "application/json"
	if c.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=scenario."+c.Format())
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export", "error", err)
	}
}

// Import replays a scenario document (?format=json|yaml) into the session
func (h *LabHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "yaml"
	}
	c, err := codec.ForFormat(format)
	if err != nil {
		h.writeError(w, "Invalid format", err.Error(), http.StatusBadRequest)
		return
	}

	sc, err := c.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Invalid scenario", err.Error(), http.StatusBadRequest)
		return
	}

	h.withLab(w, r, "Failed to import", http.StatusOK, func(lab *service.Lab) (interface{}, error) {
		report := service.ReplayScenario(lab, sc)
		resp := ImportResponse{
			Scenario: report.Scenario,
			OK:       report.OK(),
			Outcomes: make([]StepOutcome, 0, len(report.Outcomes)),
			Snapshot: lab.Snapshot(),
		}
		for _, o := range report.Outcomes {
			resp.Outcomes = append(resp.Outcomes, StepOutcome{Step: o.Step, Error: o.Error()})
		}
		return resp, nil
	})
}

// GetCatalog lists every selectable component
func (h *LabHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, catalog.List(), http.StatusOK)
}

// withLab runs fn under the session lock and writes its result. The
// result is encoded after the lock is released, so fn must return copies.
func (h *LabHandler) withLab(w http.ResponseWriter, r *http.Request, action string, status int, fn func(*service.Lab) (interface{}, error)) {
	var out interface{}
	err := h.sessions.Do(r.PathValue("sid"), func(lab *service.Lab) error {
		var err error
		out, err = fn(lab)
		return err
	})
	if err != nil {
		h.writeLabError(w, action, err)
		return
	}
	h.writeJSON(w, out, status)
}

// statusFor maps session and lab errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, domain.ErrUnknownNode),
		errors.Is(err, domain.ErrUnknownCable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPrerequisiteNotMet),
		errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func (h *LabHandler) writeLabError(w http.ResponseWriter, action string, err error) {
	status := statusFor(err)
	h.logger.Debug("request failed", "action", action, "status", status, "error", err)
	h.writeError(w, action, err.Error(), status)
}

// Helper methods

func (h *LabHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to encode JSON", "error", err)
	}
}

func (h *LabHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Warn("failed to encode error response", "error", err)
	}
}
