// Package metrics provides Prometheus observability metrics for the occupancy modeler.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
//
// The gauges below describe the most recently completed run. They are set
// together when a run finishes, so concurrent runs overwrite each other.
// =============================================================================

// FinalSLA is the volume-weighted service level of the most recently completed run.
var FinalSLA = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulation",
	Name:      "final_sla_pct",
	Help:      "Volume-weighted service level percentage of the most recently completed simulation run",
})

// FinalOccupancy is the agent-weighted occupancy of the most recently completed run.
var FinalOccupancy = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulation",
	Name:      "final_occupancy_pct",
	Help:      "Agent-weighted occupancy percentage of the most recently completed simulation run",
})

// UnderstaffedIntervals counts reported intervals with fewer rostered than required agents.
// High values indicate roster planning issues.
var UnderstaffedIntervals = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulation",
	Name:      "understaffed_intervals",
	Help:      "Number of reported intervals where rostered agents fall short of required agents",
})

// AgentShortfall is the summed negative variance across reported intervals.
var AgentShortfall = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulation",
	Name:      "agent_shortfall_total",
	Help:      "Total agents missing across understaffed intervals",
})

// IntervalsReported is the number of intervals with volume or staffing.
var IntervalsReported = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "simulation",
	Name:      "intervals_reported",
	Help:      "Number of intervals included in the most recently completed run's results",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// InputsClampedTotal counts invalid inputs replaced by their nearest valid value.
var InputsClampedTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "engine",
	Name:      "inputs_clamped_total",
	Help:      "Invalid input values clamped to the nearest valid value, by field",
}, []string{"field"})

// OverloadedIntervalsTotal counts intervals whose offered traffic meets or exceeds rostered agents.
var OverloadedIntervalsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "engine",
	Name:      "overloaded_intervals_total",
	Help:      "Intervals evaluated with the overload utilisation clamp",
})

// SearchExhaustedTotal counts required-agents searches that hit the iteration cap.
var SearchExhaustedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "engine",
	Name:      "search_exhausted_total",
	Help:      "Required-agents searches that returned their last candidate at the cap",
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV records successfully parsed, by input kind",
}, []string{"kind"})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse a CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// SimulationDurationSeconds tracks time to run a simulation.
var SimulationDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "simulation",
	Name:      "duration_seconds",
	Help:      "Time taken to run one simulation",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// SimulationRunsTotal counts simulation runs by outcome.
var SimulationRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "simulation",
	Name:      "runs_total",
	Help:      "Simulation runs by outcome (completed, cancelled)",
}, []string{"outcome"})

// APIRequestsTotal counts HTTP API requests by route and status code.
var APIRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "api",
	Name:      "requests_total",
	Help:      "HTTP API requests by route and status code",
}, []string{"route", "code"})
