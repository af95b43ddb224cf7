package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field string
	Value any
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s=%v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Parse errors
var (
	ErrInvalidFieldCount  = fmt.Errorf("invalid field count")
	ErrInvalidDay         = fmt.Errorf("invalid day")
	ErrInvalidInterval    = fmt.Errorf("invalid interval")
	ErrInvalidValue       = fmt.Errorf("invalid value")
	ErrInvalidHeadcount   = fmt.Errorf("invalid headcount")
	ErrInvalidShiftLength = fmt.Errorf("invalid shift length")
)

// Config errors
var (
	ErrInvalidWeeks       = fmt.Errorf("weeks must be one of 4, 8, 12")
	ErrInvalidPercentage  = fmt.Errorf("percentage out of range")
	ErrInvalidDuration    = fmt.Errorf("invalid duration")
	ErrInvalidDate        = fmt.Errorf("invalid date")
	ErrInvalidDemandBasis = fmt.Errorf("invalid demand basis")
	ErrInvalidFormat      = fmt.Errorf("invalid output format")
)
