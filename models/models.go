package models

import "fmt"

// DateLayout is the layout of FromDate and DailyResult.Date.
const DateLayout = "2006-01-02"

const (
	// IntervalsPerDay is the number of 30-minute buckets in a calendar day.
	IntervalsPerDay = 48
	// IntervalMinutes is the width of one bucket.
	IntervalMinutes = 30
	// DefaultShiftLength is 8.5 hours expressed in intervals.
	DefaultShiftLength = 17
	// DaysPerWeek converts the planning horizon from weeks to days.
	DaysPerWeek = 7
)

// IntervalLabel returns the "HH:MM" start time of the given interval.
func IntervalLabel(interval int) string {
	minutes := interval * IntervalMinutes
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// DayVolumes holds one value per interval of a single day. Unset cells are zero.
type DayVolumes [IntervalsPerDay]float64

// VolumeMatrix is the dense [day][interval] grid of forecast contact counts.
type VolumeMatrix []DayVolumes

// NewVolumeMatrix allocates a zeroed matrix covering the given number of days.
func NewVolumeMatrix(days int) VolumeMatrix {
	if days < 0 {
		days = 0
	}
	return make(VolumeMatrix, days)
}

// At returns the cell value, or 0 when day or interval is out of range.
func (m VolumeMatrix) At(day, interval int) float64 {
	if day < 0 || day >= len(m) || interval < 0 || interval >= IntervalsPerDay {
		return 0
	}
	return m[day][interval]
}

// Days returns the number of day rows in the matrix.
func (m VolumeMatrix) Days() int {
	return len(m)
}

// AHTMatrix is the dense [day][interval] grid of average handle times in seconds.
// A zero cell means "fall back to the planned AHT".
type AHTMatrix = VolumeMatrix

// NewAHTMatrix allocates a zeroed AHT matrix covering the given number of days.
func NewAHTMatrix(days int) AHTMatrix {
	return NewVolumeMatrix(days)
}

// ShiftAnchor is a sparse roster entry: Headcount agents start at AnchorInterval
// and work ShiftLength consecutive intervals, wrapping past midnight.
type ShiftAnchor struct {
	AnchorInterval int `json:"anchor_interval" yaml:"anchor"`
	Headcount      int `json:"headcount" yaml:"headcount"`
	ShiftLength    int `json:"shift_length,omitempty" yaml:"shift_length,omitempty"`
}

// RosterGrid is the dense [interval][anchor] staffing grid.
type RosterGrid [IntervalsPerDay][IntervalsPerDay]int

// ShrinkageConfig holds the three shrinkage percentages, each in [0,100).
type ShrinkageConfig struct {
	InOfficePct      float64 `json:"in_office_shrinkage_pct" yaml:"in_office_shrinkage_pct"`
	OutOfOfficePct   float64 `json:"out_of_office_shrinkage_pct" yaml:"out_of_office_shrinkage_pct"`
	BillableBreakPct float64 `json:"billable_break_pct" yaml:"billable_break_pct"`
}

// ServiceConfig holds the service targets used by the Erlang solver.
type ServiceConfig struct {
	PlannedAHTSeconds  float64 `json:"planned_aht_seconds" yaml:"planned_aht_seconds"`
	SLATargetPct       float64 `json:"sla_target_pct" yaml:"sla_target_pct"`
	ServiceTimeSeconds float64 `json:"service_time_seconds" yaml:"service_time_seconds"`
}

// DemandBasis selects which per-interval load is fed to the required-agents search.
type DemandBasis string

const (
	// DemandTotal feeds the volume summed across every contributing day.
	DemandTotal DemandBasis = "total"
	// DemandAverage feeds the call trend, the average per contributing day.
	DemandAverage DemandBasis = "average"
)

// ConfigurationData is the complete input of one simulation run.
// Grid, when set, takes precedence over Anchors. FromDate is an optional
// YYYY-MM-DD date used to label daily results.
type ConfigurationData struct {
	Weeks       int             `json:"weeks"`
	FromDate    string          `json:"from_date,omitempty"`
	Volume      VolumeMatrix    `json:"volume_matrix"`
	AHT         AHTMatrix       `json:"aht_matrix,omitempty"`
	Anchors     []ShiftAnchor   `json:"roster_anchors,omitempty"`
	Grid        *RosterGrid     `json:"roster_grid,omitempty"`
	Service     ServiceConfig   `json:"service"`
	Shrinkage   ShrinkageConfig `json:"shrinkage"`
	DemandBasis DemandBasis     `json:"demand_basis,omitempty"`
}

// IntervalResult is the computed outcome for one 30-minute interval.
type IntervalResult struct {
	Interval             int     `json:"interval"`
	Label                string  `json:"label"`
	TotalVolume          float64 `json:"total_volume"`
	ValidDays            int     `json:"valid_days"`
	CallTrend            float64 `json:"call_trend"`
	EffectiveVolume      float64 `json:"effective_volume"`
	AvgAHT               float64 `json:"avg_aht"`
	TrafficIntensity     float64 `json:"traffic_intensity_erlangs"`
	RawRosteredAgents    int     `json:"raw_rostered_agents"`
	RosteredAgents       float64 `json:"rostered_agents"`
	RequiredAgents       int     `json:"required_agents"`
	SLAPct               float64 `json:"sla_pct"`
	OccupancyPct         float64 `json:"occupancy_pct"`
	Variance             float64 `json:"variance"`
	StaffHours           float64 `json:"staff_hours"`
	WorkloadAgents       float64 `json:"workload_agents"`
	Influx               float64 `json:"influx"`
	AgentDistributionPct float64 `json:"agent_distribution_pct"`
}

// DailyResult is the per-day rollup.
type DailyResult struct {
	Day         int     `json:"day"`
	Date        string  `json:"date,omitempty"`
	TotalVolume float64 `json:"total_volume"`
	AvgSLA      float64 `json:"avg_sla"`
	Occupancy   float64 `json:"occupancy"`
	AvgStaffing float64 `json:"avg_staffing"`
}

// SimulationSummary is the full output of one simulation run.
type SimulationSummary struct {
	FinalSLA              float64          `json:"final_sla"`
	FinalOccupancy        float64          `json:"final_occupancy"`
	TotalVolume           float64          `json:"total_volume"`
	EffectiveVolume       float64          `json:"effective_volume"`
	AverageDailyVolume    float64          `json:"average_daily_volume"`
	AverageStaffing       float64          `json:"average_staffing"`
	UnderstaffedIntervals int              `json:"understaffed_intervals"`
	Days                  int              `json:"days"`
	IntervalResults       []IntervalResult `json:"interval_results"`
	DailyResults          []DailyResult    `json:"daily_results"`
}
