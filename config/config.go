// Package config loads the run configuration: a YAML scenario file, a .env
// file and OCC_* environment overrides, in increasing order of precedence.
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"occupancy-modeler/errors"
	"occupancy-modeler/logger"
	"occupancy-modeler/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ValidWeeks are the planning horizons a scenario may ask for.
var ValidWeeks = []int{4, 8, 12}

// Default values
const (
	DefaultPlannedAHT  = 300.0
	DefaultSLATarget   = 80.0
	DefaultServiceTime = 20.0
	DefaultWeeks       = 4
)

// Config is one simulation scenario.
type Config struct {
	Weeks       int                    `yaml:"weeks"`
	FromDate    string                 `yaml:"from_date"`
	DemandBasis models.DemandBasis     `yaml:"demand_basis"`
	Service     models.ServiceConfig   `yaml:"service"`
	Shrinkage   models.ShrinkageConfig `yaml:"shrinkage"`
	Anchors     []models.ShiftAnchor   `yaml:"roster"`

	// Input files. Relative paths are resolved against the scenario file.
	VolumeFile string `yaml:"volume_file"`
	AHTFile    string `yaml:"aht_file"`
	RosterFile string `yaml:"roster_file"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Weeks: DefaultWeeks,
		Service: models.ServiceConfig{
			PlannedAHTSeconds:  DefaultPlannedAHT,
			SLATargetPct:       DefaultSLATarget,
			ServiceTimeSeconds: DefaultServiceTime,
		},
		DemandBasis: models.DemandTotal,
		LogLevel:    "info",
	}
}

// Load builds a Config from defaults, the scenario at path (skipped when
// path is empty), a .env file in the working directory and the environment.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading scenario: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("error parsing scenario %s: %w", path, err)
		}
		cfg.resolvePaths(filepath.Dir(path))
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.VolumeFile, &c.AHTFile, &c.RosterFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

func (c *Config) applyEnv() {
	c.Weeks = getEnvInt("OCC_WEEKS", c.Weeks)
	c.FromDate = getEnvString("OCC_FROM_DATE", c.FromDate)
	c.DemandBasis = models.DemandBasis(getEnvString("OCC_DEMAND_BASIS", string(c.DemandBasis)))
	c.Service.PlannedAHTSeconds = getEnvFloat("OCC_PLANNED_AHT", c.Service.PlannedAHTSeconds)
	c.Service.SLATargetPct = getEnvFloat("OCC_SLA_TARGET", c.Service.SLATargetPct)
	c.Service.ServiceTimeSeconds = getEnvFloat("OCC_SERVICE_TIME", c.Service.ServiceTimeSeconds)
	c.Shrinkage.InOfficePct = getEnvFloat("OCC_IN_OFFICE_SHRINKAGE", c.Shrinkage.InOfficePct)
	c.Shrinkage.OutOfOfficePct = getEnvFloat("OCC_OUT_OF_OFFICE_SHRINKAGE", c.Shrinkage.OutOfOfficePct)
	c.Shrinkage.BillableBreakPct = getEnvFloat("OCC_BILLABLE_BREAK", c.Shrinkage.BillableBreakPct)
	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
}

// Validate rejects values the engine would otherwise have to clamp.
func (c *Config) Validate() error {
	if !slices.Contains(ValidWeeks, c.Weeks) {
		return &errors.ConfigError{Field: "weeks", Value: c.Weeks, Err: errors.ErrInvalidWeeks}
	}

	if c.FromDate != "" {
		if _, err := time.Parse(models.DateLayout, c.FromDate); err != nil {
			return &errors.ConfigError{Field: "from_date", Value: c.FromDate, Err: errors.ErrInvalidDate}
		}
	}

	switch c.DemandBasis {
	case "", models.DemandTotal, models.DemandAverage:
	default:
		return &errors.ConfigError{Field: "demand_basis", Value: c.DemandBasis, Err: errors.ErrInvalidDemandBasis}
	}

	if !positive(c.Service.PlannedAHTSeconds) {
		return &errors.ConfigError{Field: "planned_aht_seconds", Value: c.Service.PlannedAHTSeconds, Err: errors.ErrInvalidDuration}
	}
	if !nonNegative(c.Service.ServiceTimeSeconds) {
		return &errors.ConfigError{Field: "service_time_seconds", Value: c.Service.ServiceTimeSeconds, Err: errors.ErrInvalidDuration}
	}
	if !nonNegative(c.Service.SLATargetPct) || c.Service.SLATargetPct > 100 {
		return &errors.ConfigError{Field: "sla_target_pct", Value: c.Service.SLATargetPct, Err: errors.ErrInvalidPercentage}
	}

	for _, pct := range []struct {
		field string
		value float64
	}{
		{"in_office_shrinkage_pct", c.Shrinkage.InOfficePct},
		{"out_of_office_shrinkage_pct", c.Shrinkage.OutOfOfficePct},
		{"billable_break_pct", c.Shrinkage.BillableBreakPct},
	} {
		if !nonNegative(pct.value) || pct.value >= 100 {
			return &errors.ConfigError{Field: pct.field, Value: pct.value, Err: errors.ErrInvalidPercentage}
		}
	}

	for i, a := range c.Anchors {
		field := fmt.Sprintf("roster[%d]", i)
		switch {
		case a.AnchorInterval < 0 || a.AnchorInterval >= models.IntervalsPerDay:
			return &errors.ConfigError{Field: field, Value: a.AnchorInterval, Err: errors.ErrInvalidInterval}
		case a.Headcount < 0:
			return &errors.ConfigError{Field: field, Value: a.Headcount, Err: errors.ErrInvalidHeadcount}
		case a.ShiftLength < 0 || a.ShiftLength > models.IntervalsPerDay:
			return &errors.ConfigError{Field: field, Value: a.ShiftLength, Err: errors.ErrInvalidShiftLength}
		}
	}

	return nil
}

// Days is the number of days in the planning horizon.
func (c *Config) Days() int {
	return c.Weeks * models.DaysPerWeek
}

// ConfigurationData combines the scenario with loaded matrices into an engine
// input. Anchors from a roster file are appended to the scenario's own.
func (c *Config) ConfigurationData(volume models.VolumeMatrix, aht models.AHTMatrix, anchors []models.ShiftAnchor) models.ConfigurationData {
	return models.ConfigurationData{
		Weeks:       c.Weeks,
		FromDate:    c.FromDate,
		Volume:      volume,
		AHT:         aht,
		Anchors:     append(slices.Clone(c.Anchors), anchors...),
		Service:     c.Service,
		Shrinkage:   c.Shrinkage,
		DemandBasis: c.DemandBasis,
	}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logger.Warn("ignoring invalid environment value", "key", key, "value", value)
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logger.Warn("ignoring invalid environment value", "key", key, "value", value)
	}
	return defaultValue
}
