package shrinkage_test

import (
	"math"
	"testing"

	"occupancy-modeler/models"
	"occupancy-modeler/shrinkage"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveVolume(t *testing.T) {
	tests := map[string]struct {
		raw      float64
		cfg      models.ShrinkageConfig
		expected float64
	}{
		"NoShrinkage": {
			raw:      100,
			expected: 100,
		},
		"AllThreeFactors": {
			raw: 100,
			cfg: models.ShrinkageConfig{OutOfOfficePct: 10, InOfficePct: 20, BillableBreakPct: 50},
			// 100 * 0.9 * 0.8 * 0.5
			expected: 36,
		},
		"ZeroVolume": {
			raw:      0,
			cfg:      models.ShrinkageConfig{OutOfOfficePct: 10},
			expected: 0,
		},
		"NegativeVolumeClamped": {
			raw:      -5,
			expected: 0,
		},
		"NegativePctTreatedAsZero": {
			raw:      50,
			cfg:      models.ShrinkageConfig{InOfficePct: -30},
			expected: 50,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, shrinkage.EffectiveVolume(tt.raw, tt.cfg), 1e-9)
		})
	}
}

func TestEffectiveAgents_SameFormulaAsVolume(t *testing.T) {
	cfg := models.ShrinkageConfig{OutOfOfficePct: 12, InOfficePct: 8, BillableBreakPct: 5}
	assert.InDelta(t, shrinkage.EffectiveVolume(40, cfg), shrinkage.EffectiveAgents(40, cfg), 1e-12)
	assert.Equal(t, 0.0, shrinkage.EffectiveAgents(-3, cfg))
}

func TestClampPct(t *testing.T) {
	tests := map[string]struct {
		in       float64
		expected float64
		changed  bool
	}{
		"InRange":  {in: 35, expected: 35},
		"Zero":     {in: 0, expected: 0},
		"Negative": {in: -1, expected: 0, changed: true},
		"Hundred":  {in: 100, expected: shrinkage.MaxPct, changed: true},
		"Above":    {in: 250, expected: shrinkage.MaxPct, changed: true},
		"NaN":      {in: math.NaN(), expected: 0, changed: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, changed := shrinkage.ClampPct(tt.in)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func TestSanitize_ReportsChangedFields(t *testing.T) {
	cfg, changed := shrinkage.Sanitize(models.ShrinkageConfig{InOfficePct: 120, OutOfOfficePct: 10, BillableBreakPct: -2})
	assert.Equal(t, shrinkage.MaxPct, cfg.InOfficePct)
	assert.Equal(t, 10.0, cfg.OutOfOfficePct)
	assert.Equal(t, 0.0, cfg.BillableBreakPct)
	assert.Equal(t, []string{"in_office_shrinkage", "billable_break"}, changed)
	assert.Less(t, shrinkage.Factor(models.ShrinkageConfig{InOfficePct: 100}), 0.01)
	assert.Greater(t, shrinkage.Factor(models.ShrinkageConfig{InOfficePct: 100}), 0.0)
}

func TestAgentWorkHours(t *testing.T) {
	assert.InDelta(t, 0.5, shrinkage.AgentWorkHours(0.5, models.ShrinkageConfig{}), 1e-12)
	assert.InDelta(t, 0.36, shrinkage.AgentWorkHours(1, models.ShrinkageConfig{OutOfOfficePct: 10, InOfficePct: 20, BillableBreakPct: 50}), 1e-12)
	// Heavy shrinkage hits the floor.
	assert.Equal(t, shrinkage.MinWorkHours, shrinkage.AgentWorkHours(0.5, models.ShrinkageConfig{OutOfOfficePct: 90, InOfficePct: 90}))
}

func TestWorkloadAgents(t *testing.T) {
	// 100 contacts at 300s is 8.33 staff hours over a 0.5h interval.
	assert.InDelta(t, 16.6667, shrinkage.WorkloadAgents(100, 300, models.ShrinkageConfig{}), 1e-4)
	assert.Equal(t, 0.0, shrinkage.WorkloadAgents(0, 300, models.ShrinkageConfig{}))
	assert.InDelta(t, 8.3333, shrinkage.StaffHours(100, 300), 1e-4)
}
