package simulation

import (
	"math"
	"time"

	"occupancy-modeler/logger"
	"occupancy-modeler/metrics"
	"occupancy-modeler/models"
	"occupancy-modeler/roster"
	"occupancy-modeler/shrinkage"
)

// ValidWeeks are the supported planning horizons.
var ValidWeeks = []int{4, 8, 12}

// input is a ConfigurationData with every value clamped into its valid range.
type input struct {
	days       int
	volume     models.VolumeMatrix
	aht        models.AHTMatrix
	plannedAHT float64
	target     float64 // fraction, 0..1
	threshold  float64 // seconds
	shrink     models.ShrinkageConfig
	basis      models.DemandBasis
	grid       *roster.Grid
	fromDate   time.Time
	hasDate    bool
}

// NearestWeeks maps any horizon onto the closest supported one, preferring
// the shorter horizon on a tie.
func NearestWeeks(weeks int) int {
	best := ValidWeeks[0]
	for _, w := range ValidWeeks[1:] {
		if abs(weeks-w) < abs(weeks-best) {
			best = w
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamped(field string, value any) {
	metrics.InputsClampedTotal.WithLabelValues(field).Inc()
	logger.Debug("clamped invalid input", "field", field, "value", value)
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func sanitize(cfg models.ConfigurationData) input {
	in := input{basis: cfg.DemandBasis}

	weeks := NearestWeeks(cfg.Weeks)
	if weeks != cfg.Weeks {
		clamped("weeks", cfg.Weeks)
	}
	in.days = weeks * models.DaysPerWeek

	in.volume = models.NewVolumeMatrix(in.days)
	in.aht = models.NewAHTMatrix(in.days)
	for day := range in.days {
		for i := range models.IntervalsPerDay {
			v := cfg.Volume.At(day, i)
			if !finiteNonNegative(v) {
				clamped("volume", v)
				v = 0
			}
			in.volume[day][i] = v

			h := cfg.AHT.At(day, i)
			if !finiteNonNegative(h) {
				clamped("aht", h)
				h = 0
			}
			in.aht[day][i] = h
		}
	}

	in.plannedAHT = cfg.Service.PlannedAHTSeconds
	if !finiteNonNegative(in.plannedAHT) {
		clamped("planned_aht", in.plannedAHT)
		in.plannedAHT = 0
	}

	target := cfg.Service.SLATargetPct
	switch {
	case math.IsNaN(target) || target < 0:
		clamped("sla_target", target)
		target = 0
	case target > 100:
		clamped("sla_target", target)
		target = 100
	}
	in.target = target / 100

	in.threshold = cfg.Service.ServiceTimeSeconds
	if !finiteNonNegative(in.threshold) {
		clamped("service_time", in.threshold)
		in.threshold = 0
	}

	var changed []string
	in.shrink, changed = shrinkage.Sanitize(cfg.Shrinkage)
	for _, field := range changed {
		clamped(field, cfg.Shrinkage)
	}

	switch in.basis {
	case models.DemandTotal, models.DemandAverage:
	case "":
		in.basis = models.DemandTotal
	default:
		clamped("demand_basis", in.basis)
		in.basis = models.DemandTotal
	}

	if cfg.Grid != nil {
		in.grid = roster.FromCells(*cfg.Grid)
	} else {
		in.grid = roster.Expand(cfg.Anchors)
	}

	if cfg.FromDate != "" {
		d, err := time.Parse(models.DateLayout, cfg.FromDate)
		if err != nil {
			clamped("from_date", cfg.FromDate)
		} else {
			in.fromDate, in.hasDate = d, true
		}
	}

	return in
}
