package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"occupancy-modeler/errors"
	"occupancy-modeler/models"

	"github.com/guptarohit/asciigraph"
	"github.com/shopspring/decimal"
)

// Formats lists the accepted output formats.
var Formats = []string{"text", "json", "csv"}

// Format renders the summary in the named format.
func Format(summary *models.SimulationSummary, format string) (string, error) {
	switch format {
	case "text":
		return FormatText(summary), nil
	case "json":
		return FormatJSON(summary), nil
	case "csv":
		return FormatCSV(summary), nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", errors.ErrInvalidFormat, format, strings.Join(Formats, ", "))
	}
}

// FormatText returns the text representation of the summary
func FormatText(summary *models.SimulationSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Final SLA: %s%% | Occupancy: %s%% | Avg staffing: %s | Volume: %s (%s/day) | Understaffed intervals: %d\n",
		round(summary.FinalSLA), round(summary.FinalOccupancy), round(summary.AverageStaffing),
		round(summary.TotalVolume), round(summary.AverageDailyVolume), summary.UnderstaffedIntervals))

	if len(summary.IntervalResults) == 0 {
		sb.WriteString("No intervals with volume or rostered agents\n")
	}
	for _, r := range summary.IntervalResults {
		sb.WriteString(formatTextLine(r))
		sb.WriteString("\n")

		if r.Variance < 0 {
			sb.WriteString(fmt.Sprintf("  ⚠️  UNDERSTAFFED: Required=%d, Rostered=%s, Short=%s\n",
				r.RequiredAgents, round(r.RosteredAgents), round(-r.Variance)))
		}
	}

	if len(summary.DailyResults) > 0 {
		sb.WriteString("\nDaily:\n")
		for _, d := range summary.DailyResults {
			sb.WriteString(fmt.Sprintf("%s : volume=%s, sla=%s%%, occupancy=%s%%, staffing=%s\n",
				dayLabel(d), round(d.TotalVolume), round(d.AvgSLA), round(d.Occupancy), round(d.AvgStaffing)))
		}
	}

	return sb.String()
}

// formatTextLine formats a single interval line for text output
func formatTextLine(r models.IntervalResult) string {
	return fmt.Sprintf("%s : volume=%s, aht=%s, erlangs=%s, rostered=%s, required=%d, sla=%s%%, occupancy=%s%%, variance=%s",
		r.Label, round(r.EffectiveVolume), round(r.AvgAHT), round(r.TrafficIntensity),
		round(r.RosteredAgents), r.RequiredAgents, round(r.SLAPct), round(r.OccupancyPct), signed(r.Variance))
}

// FormatJSON returns the JSON representation of the summary
func FormatJSON(summary *models.SimulationSummary) string {
	jsonBytes, _ := json.MarshalIndent(summary, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the summary: one row per
// reported interval followed by one row per day.
func FormatCSV(summary *models.SimulationSummary) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Type", "Interval", "Label", "Date", "Volume", "Effective Volume", "AHT", "Erlangs",
		"Rostered", "Required", "SLA %", "Occupancy %", "Variance", "Avg Staffing",
	})

	for _, r := range summary.IntervalResults {
		writer.Write([]string{
			"interval",
			strconv.Itoa(r.Interval),
			r.Label,
			"",
			round(r.TotalVolume),
			round(r.EffectiveVolume),
			round(r.AvgAHT),
			round(r.TrafficIntensity),
			round(r.RosteredAgents),
			strconv.Itoa(r.RequiredAgents),
			round(r.SLAPct),
			round(r.OccupancyPct),
			round(r.Variance),
			"",
		})
	}

	for _, d := range summary.DailyResults {
		writer.Write([]string{
			"day",
			"",
			"",
			dayLabel(d),
			"",
			round(d.TotalVolume),
			"", "", "", "",
			round(d.AvgSLA),
			round(d.Occupancy),
			"",
			round(d.AvgStaffing),
		})
	}

	writer.Flush()
	return sb.String()
}

// FormatChart plots SLA and occupancy across the reported intervals.
func FormatChart(summary *models.SimulationSummary, height, width int) string {
	if len(summary.IntervalResults) < 2 {
		return ""
	}

	sla := make([]float64, len(summary.IntervalResults))
	occupancy := make([]float64, len(summary.IntervalResults))
	for i, r := range summary.IntervalResults {
		sla[i] = r.SLAPct
		occupancy[i] = r.OccupancyPct
	}

	first := summary.IntervalResults[0].Label
	last := summary.IntervalResults[len(summary.IntervalResults)-1].Label
	return asciigraph.PlotMany([][]float64{sla, occupancy},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("SLA %% (green) / occupancy %% (blue), %s-%s", first, last)),
		asciigraph.SeriesColors(
			asciigraph.Green,
			asciigraph.Blue,
		),
	)
}

func dayLabel(d models.DailyResult) string {
	if d.Date != "" {
		return d.Date
	}
	return fmt.Sprintf("day %d", d.Day)
}

// round renders v with one decimal place.
func round(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0"
	}
	return decimal.NewFromFloat(v).Round(1).StringFixed(1)
}

func signed(v float64) string {
	s := round(v)
	if !strings.HasPrefix(s, "-") && s != "0.0" {
		return "+" + s
	}
	return s
}
