package api

import "occupancy-modeler/models"

// SimulateResponse is returned by POST /api/simulate. The run ID is kept out
// of the summary so identical requests produce identical summaries.
type SimulateResponse struct {
	RunID   string                    `json:"run_id"`
	Summary *models.SimulationSummary `json:"summary"`
}

// HealthResponse is returned by GET /api/healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
