// Package parser reads forecast and roster CSV files into engine inputs.
//
// Lines whose first field starts with '#' are headers/comments and are skipped.
// Intervals may be given as an index (0-47) or as the clock time that starts
// the 30-minute bucket, in "15:04", "3:04PM" or "3PM" form.
package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"occupancy-modeler/errors"
	"occupancy-modeler/metrics"
	"occupancy-modeler/models"
)

var clockLayouts = []string{"15:04", "3:04PM", "3PM"}

// ParseVolume reads "day, interval, volume" rows into a matrix covering days
// days. A later row for the same cell replaces the earlier one.
func ParseVolume(r io.Reader, days int) (models.VolumeMatrix, error) {
	return parseMatrix(r, days, "volume")
}

// ParseAHT reads "day, interval, seconds" rows. Cells without a row stay 0,
// which the engine reads as "use the planned AHT".
func ParseAHT(r io.Reader, days int) (models.AHTMatrix, error) {
	return parseMatrix(r, days, "aht")
}

func parseMatrix(r io.Reader, days int, kind string) (models.VolumeMatrix, error) {
	defer observe(time.Now())

	reader := newReader(r)
	m := models.NewVolumeMatrix(days)
	records := 0

	for {
		record, line, err := next(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fail(kind, fmt.Errorf("error reading CSV at line %d: %w", line, err))
		}
		if record == nil {
			continue
		}

		if len(record) != 3 {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidFieldCount, nil))
		}

		day, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || day < 0 || day >= days {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidDay, dayCause(err, day, days)))
		}

		interval, err := ParseInterval(record[1])
		if err != nil {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidInterval, err))
		}

		value, err := parseValue(record[2])
		if err != nil {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidValue, err))
		}

		m[day][interval] = value
		records++
	}

	metrics.ParserRecordsTotal.WithLabelValues(kind).Add(float64(records))
	return m, nil
}

// ParseRoster reads "interval, headcount[, shiftLength]" rows into shift
// anchors. A missing or empty shift length means the default.
func ParseRoster(r io.Reader) ([]models.ShiftAnchor, error) {
	defer observe(time.Now())
	const kind = "roster"

	reader := newReader(r)
	var anchors []models.ShiftAnchor

	for {
		record, line, err := next(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fail(kind, fmt.Errorf("error reading CSV at line %d: %w", line, err))
		}
		if record == nil {
			continue
		}

		if len(record) != 2 && len(record) != 3 {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidFieldCount, nil))
		}

		anchor := models.ShiftAnchor{}
		anchor.AnchorInterval, err = ParseInterval(record[0])
		if err != nil {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidInterval, err))
		}

		anchor.Headcount, err = strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil || anchor.Headcount < 0 {
			return nil, fail(kind, parseErr(line, record, errors.ErrInvalidHeadcount, err))
		}

		if len(record) == 3 && strings.TrimSpace(record[2]) != "" {
			anchor.ShiftLength, err = strconv.Atoi(strings.TrimSpace(record[2]))
			if err != nil || anchor.ShiftLength < 1 || anchor.ShiftLength > models.IntervalsPerDay {
				return nil, fail(kind, parseErr(line, record, errors.ErrInvalidShiftLength, err))
			}
		}

		anchors = append(anchors, anchor)
	}

	metrics.ParserRecordsTotal.WithLabelValues(kind).Add(float64(len(anchors)))
	return anchors, nil
}

// ParseInterval accepts an interval index or the clock label of a bucket start.
func ParseInterval(value string) (int, error) {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil {
		if i < 0 || i >= models.IntervalsPerDay {
			return 0, fmt.Errorf("index %d out of range 0-%d", i, models.IntervalsPerDay-1)
		}
		return i, nil
	}

	var lastErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, strings.ToUpper(value))
		if err != nil {
			lastErr = err
			continue
		}
		if t.Minute()%models.IntervalMinutes != 0 {
			return 0, fmt.Errorf("%q is not on a %d-minute boundary", value, models.IntervalMinutes)
		}
		return (t.Hour()*60 + t.Minute()) / models.IntervalMinutes, nil
	}
	return 0, lastErr
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

// next returns the next data record and its line number. Comment lines yield
// a nil record.
func next(reader *csv.Reader) ([]string, int, error) {
	record, err := reader.Read()
	if err != nil {
		var csvErr *csv.ParseError
		if stderrors.As(err, &csvErr) {
			return nil, csvErr.Line, err
		}
		return nil, 0, err
	}
	line, _ := reader.FieldPos(0)
	if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
		return nil, line, nil
	}
	return record, line, nil
}

func parseValue(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%v is not a finite non-negative number", v)
	}
	return v, nil
}

func dayCause(err error, day, days int) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("day %d outside horizon of %d days", day, days)
}

func parseErr(line int, record []string, sentinel, cause error) error {
	if cause != nil {
		sentinel = fmt.Errorf("%w: %v", sentinel, cause)
	}
	return &errors.ParseError{Line: line, Record: record, Err: sentinel}
}

// fail counts err under its sentinel and returns it unchanged.
func fail(kind string, err error) error {
	metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
	return fmt.Errorf("parsing %s: %w", kind, err)
}

func errorType(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrInvalidFieldCount):
		return "field_count"
	case stderrors.Is(err, errors.ErrInvalidDay):
		return "day"
	case stderrors.Is(err, errors.ErrInvalidInterval):
		return "interval"
	case stderrors.Is(err, errors.ErrInvalidValue):
		return "value"
	case stderrors.Is(err, errors.ErrInvalidHeadcount):
		return "headcount"
	case stderrors.Is(err, errors.ErrInvalidShiftLength):
		return "shift_length"
	default:
		return "csv"
	}
}

func observe(start time.Time) {
	metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
}
