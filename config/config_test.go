package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"occupancy-modeler/config"
	customerrors "occupancy-modeler/errors"
	"occupancy-modeler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 4, cfg.Weeks)
	assert.Equal(t, 300.0, cfg.Service.PlannedAHTSeconds)
	assert.Equal(t, 80.0, cfg.Service.SLATargetPct)
	assert.Equal(t, 20.0, cfg.Service.ServiceTimeSeconds)
	assert.Equal(t, 28, cfg.Days())
}

func TestLoad_Scenario(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := writeFile(t, dir, "scenario.yaml", `
weeks: 8
from_date: 2025-03-03
demand_basis: average
service:
  planned_aht_seconds: 240
  sla_target_pct: 90
  service_time_seconds: 15
shrinkage:
  in_office_shrinkage_pct: 10
  out_of_office_shrinkage_pct: 5
  billable_break_pct: 2.5
roster:
  - anchor: 18
    headcount: 40
  - anchor: 30
    headcount: 12
    shift_length: 8
volume_file: volume.csv
roster_file: /abs/roster.csv
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Weeks)
	assert.Equal(t, 56, cfg.Days())
	assert.Equal(t, "2025-03-03", cfg.FromDate)
	assert.Equal(t, models.DemandAverage, cfg.DemandBasis)
	assert.Equal(t, models.ServiceConfig{PlannedAHTSeconds: 240, SLATargetPct: 90, ServiceTimeSeconds: 15}, cfg.Service)
	assert.Equal(t, models.ShrinkageConfig{InOfficePct: 10, OutOfOfficePct: 5, BillableBreakPct: 2.5}, cfg.Shrinkage)
	assert.Equal(t, []models.ShiftAnchor{
		{AnchorInterval: 18, Headcount: 40},
		{AnchorInterval: 30, Headcount: 12, ShiftLength: 8},
	}, cfg.Anchors)
	assert.Equal(t, filepath.Join(dir, "volume.csv"), cfg.VolumeFile)
	assert.Equal(t, "/abs/roster.csv", cfg.RosterFile)
	assert.Empty(t, cfg.AHTFile)
}

func TestLoad_PartialScenarioKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := writeFile(t, dir, "scenario.yaml", "weeks: 12\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Weeks)
	assert.Equal(t, 300.0, cfg.Service.PlannedAHTSeconds)
	assert.Equal(t, 80.0, cfg.Service.SLATargetPct)
}

func TestLoad_EmptyScenario(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := writeFile(t, dir, "scenario.yaml", "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Service, cfg.Service)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := writeFile(t, dir, "scenario.yaml", "wekes: 8\n")

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingScenario(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(t.TempDir())
	path := writeFile(t, dir, "scenario.yaml", "weeks: 4\nservice:\n  sla_target_pct: 70\n")

	t.Setenv("OCC_WEEKS", "12")
	t.Setenv("OCC_SLA_TARGET", "95")
	t.Setenv("OCC_PLANNED_AHT", "180")
	t.Setenv("OCC_IN_OFFICE_SHRINKAGE", "7")
	t.Setenv("OCC_OUT_OF_OFFICE_SHRINKAGE", "11")
	t.Setenv("OCC_BILLABLE_BREAK", "3")
	t.Setenv("OCC_SERVICE_TIME", "not-a-number")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Weeks)
	assert.Equal(t, 95.0, cfg.Service.SLATargetPct)
	assert.Equal(t, 180.0, cfg.Service.PlannedAHTSeconds)
	assert.Equal(t, 20.0, cfg.Service.ServiceTimeSeconds, "invalid values are ignored")
	assert.Equal(t, models.ShrinkageConfig{InOfficePct: 7, OutOfOfficePct: 11, BillableBreakPct: 3}, cfg.Shrinkage)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("OCC_WEEKS") })
	writeFile(t, dir, ".env", "OCC_WEEKS=8\nOCC_SLA_TARGET=85\n")
	t.Setenv("OCC_SLA_TARGET", "90")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Weeks)
	assert.Equal(t, 90.0, cfg.Service.SLATargetPct, "the environment wins over .env")
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate        func(*config.Config)
		expectedField string
		expectedError error
	}{
		"Valid": {
			mutate: func(*config.Config) {},
		},
		"InvalidWeeks": {
			mutate:        func(c *config.Config) { c.Weeks = 6 },
			expectedField: "weeks",
			expectedError: customerrors.ErrInvalidWeeks,
		},
		"InvalidDate": {
			mutate:        func(c *config.Config) { c.FromDate = "03/03/2025" },
			expectedField: "from_date",
			expectedError: customerrors.ErrInvalidDate,
		},
		"InvalidDemandBasis": {
			mutate:        func(c *config.Config) { c.DemandBasis = "peak" },
			expectedField: "demand_basis",
			expectedError: customerrors.ErrInvalidDemandBasis,
		},
		"ZeroPlannedAHT": {
			mutate:        func(c *config.Config) { c.Service.PlannedAHTSeconds = 0 },
			expectedField: "planned_aht_seconds",
			expectedError: customerrors.ErrInvalidDuration,
		},
		"NegativeServiceTime": {
			mutate:        func(c *config.Config) { c.Service.ServiceTimeSeconds = -1 },
			expectedField: "service_time_seconds",
			expectedError: customerrors.ErrInvalidDuration,
		},
		"SLATargetAbove100": {
			mutate:        func(c *config.Config) { c.Service.SLATargetPct = 101 },
			expectedField: "sla_target_pct",
			expectedError: customerrors.ErrInvalidPercentage,
		},
		"ShrinkageAt100": {
			mutate:        func(c *config.Config) { c.Shrinkage.OutOfOfficePct = 100 },
			expectedField: "out_of_office_shrinkage_pct",
			expectedError: customerrors.ErrInvalidPercentage,
		},
		"ShrinkageNaN": {
			mutate:        func(c *config.Config) { c.Shrinkage.BillableBreakPct = math.NaN() },
			expectedField: "billable_break_pct",
			expectedError: customerrors.ErrInvalidPercentage,
		},
		"AnchorOutOfRange": {
			mutate: func(c *config.Config) {
				c.Anchors = []models.ShiftAnchor{{AnchorInterval: 18, Headcount: 1}, {AnchorInterval: 48, Headcount: 1}}
			},
			expectedField: "roster[1]",
			expectedError: customerrors.ErrInvalidInterval,
		},
		"AnchorNegativeHeadcount": {
			mutate:        func(c *config.Config) { c.Anchors = []models.ShiftAnchor{{AnchorInterval: 18, Headcount: -1}} },
			expectedField: "roster[0]",
			expectedError: customerrors.ErrInvalidHeadcount,
		},
		"AnchorShiftTooLong": {
			mutate:        func(c *config.Config) { c.Anchors = []models.ShiftAnchor{{AnchorInterval: 18, Headcount: 1, ShiftLength: 49}} },
			expectedField: "roster[0]",
			expectedError: customerrors.ErrInvalidShiftLength,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectedError)
			var cfgErr *customerrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.expectedField, cfgErr.Field)
		})
	}
}

func TestConfigurationData(t *testing.T) {
	cfg := config.Default()
	cfg.FromDate = "2025-01-06"
	cfg.Anchors = []models.ShiftAnchor{{AnchorInterval: 18, Headcount: 40}}
	volume := models.NewVolumeMatrix(cfg.Days())

	data := cfg.ConfigurationData(volume, nil, []models.ShiftAnchor{{AnchorInterval: 30, Headcount: 5}})

	assert.Equal(t, 4, data.Weeks)
	assert.Equal(t, "2025-01-06", data.FromDate)
	assert.Equal(t, volume, data.Volume)
	assert.Nil(t, data.AHT)
	assert.Nil(t, data.Grid)
	assert.Equal(t, []models.ShiftAnchor{
		{AnchorInterval: 18, Headcount: 40},
		{AnchorInterval: 30, Headcount: 5},
	}, data.Anchors)
	assert.Len(t, cfg.Anchors, 1, "the scenario's anchors are not modified")
	assert.Equal(t, cfg.Service, data.Service)
}
