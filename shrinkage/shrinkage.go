// Package shrinkage converts raw volume, headcount and interval hours into
// their effective values after in-office, out-of-office and billable-break
// shrinkage.
package shrinkage

import (
	"math"

	"occupancy-modeler/models"
)

const (
	// MaxPct is the largest shrinkage percentage accepted; values at or above
	// 100 are clamped to it.
	MaxPct = 99.9

	// MinWorkHours floors AgentWorkHours so downstream divisions stay bounded.
	MinWorkHours = 0.1

	// IntervalHours is the duration of one interval.
	IntervalHours = float64(models.IntervalMinutes) / 60
)

// ClampPct returns pct clamped into [0, MaxPct]. The second result reports
// whether the value had to be changed.
func ClampPct(pct float64) (float64, bool) {
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0, true
	case pct >= 100 || math.IsInf(pct, 1):
		return MaxPct, true
	default:
		return pct, false
	}
}

// Sanitize returns cfg with every percentage clamped, and the names of the
// fields that changed.
func Sanitize(cfg models.ShrinkageConfig) (models.ShrinkageConfig, []string) {
	var changed []string
	var ok bool
	if cfg.InOfficePct, ok = ClampPct(cfg.InOfficePct); ok {
		changed = append(changed, "in_office_shrinkage")
	}
	if cfg.OutOfOfficePct, ok = ClampPct(cfg.OutOfOfficePct); ok {
		changed = append(changed, "out_of_office_shrinkage")
	}
	if cfg.BillableBreakPct, ok = ClampPct(cfg.BillableBreakPct); ok {
		changed = append(changed, "billable_break")
	}
	return cfg, changed
}

// Factor is the fraction of raw capacity that remains after all three
// shrinkage discounts.
func Factor(cfg models.ShrinkageConfig) float64 {
	cfg, _ = Sanitize(cfg)
	return (1 - cfg.OutOfOfficePct/100) * (1 - cfg.InOfficePct/100) * (1 - cfg.BillableBreakPct/100)
}

// EffectiveVolume discounts a raw contact volume by the shrinkage factor.
func EffectiveVolume(raw float64, cfg models.ShrinkageConfig) float64 {
	if raw <= 0 {
		return 0
	}
	return raw * Factor(cfg)
}

// EffectiveAgents discounts a raw headcount by the shrinkage factor.
func EffectiveAgents(raw int, cfg models.ShrinkageConfig) float64 {
	if raw <= 0 {
		return 0
	}
	return float64(raw) * Factor(cfg)
}

// AgentWorkHours is the productive time one agent contributes to an interval
// of the given length, never less than MinWorkHours.
func AgentWorkHours(intervalHours float64, cfg models.ShrinkageConfig) float64 {
	return math.Max(MinWorkHours, intervalHours*Factor(cfg))
}

// StaffHours is the handling workload of volume contacts at ahtSeconds each.
func StaffHours(volume, ahtSeconds float64) float64 {
	if volume <= 0 || ahtSeconds <= 0 {
		return 0
	}
	return volume * ahtSeconds / 3600
}

// WorkloadAgents is the simple workload staffing figure: the staff hours of
// the effective volume spread over one agent's productive interval hours.
func WorkloadAgents(rawVolume, ahtSeconds float64, cfg models.ShrinkageConfig) float64 {
	return StaffHours(EffectiveVolume(rawVolume, cfg), ahtSeconds) / AgentWorkHours(IntervalHours, cfg)
}
