package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"occupancy-modeler/config"
	"occupancy-modeler/formatter"
	"occupancy-modeler/logger"
	"occupancy-modeler/models"
	"occupancy-modeler/simulation"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxBodyBytes bounds a request body; twelve weeks of dense volume and AHT
// matrices fit comfortably.
const maxBodyBytes = 8 << 20

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	// Defaults fill any field a request leaves out.
	Defaults *config.Config
	// Timeout bounds one simulation; zero means no limit beyond the request.
	Timeout time.Duration
}

// NewHandler creates a handler that applies defaults to every request.
func NewHandler(defaults *config.Config) *Handler {
	if defaults == nil {
		defaults = config.Default()
	}
	return &Handler{Defaults: defaults, Timeout: 30 * time.Second}
}

// Simulate runs one simulation for the ConfigurationData in the request body.
// The format query parameter selects json (default), text or csv output.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if !slices.Contains(formatter.Formats, format) {
		writeError(w, http.StatusBadRequest, "unsupported format", fmt.Errorf("format %q", format))
		return
	}

	data := h.defaultData()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := validate(data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid configuration", err)
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	summary, err := simulation.Simulate(ctx, data)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, "simulation cancelled", err)
		return
	}

	runID := uuid.NewString()
	w.Header().Set("X-Run-ID", runID)
	logger.Info("simulation served",
		"run_id", runID,
		"request_id", middleware.GetReqID(r.Context()),
		"weeks", data.Weeks,
		"reported_intervals", len(summary.IntervalResults),
		"final_sla", summary.FinalSLA,
	)

	switch format {
	case "text":
		writeText(w, "text/plain; charset=utf-8", formatter.FormatText(summary))
	case "csv":
		writeText(w, "text/csv", formatter.FormatCSV(summary))
	default:
		writeJSON(w, http.StatusOK, SimulateResponse{RunID: runID, Summary: summary})
	}
}

// Healthz reports that the server is up.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) defaultData() models.ConfigurationData {
	d := h.Defaults
	return models.ConfigurationData{
		Weeks:       d.Weeks,
		FromDate:    d.FromDate,
		Service:     d.Service,
		Shrinkage:   d.Shrinkage,
		DemandBasis: d.DemandBasis,
	}
}

// validate applies the scenario rules to a request. The roster grid is not
// checked; negative cells are clamped by the engine.
func validate(data models.ConfigurationData) error {
	cfg := &config.Config{
		Weeks:       data.Weeks,
		FromDate:    data.FromDate,
		DemandBasis: data.DemandBasis,
		Service:     data.Service,
		Shrinkage:   data.Shrinkage,
		Anchors:     data.Anchors,
	}
	return cfg.Validate()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
