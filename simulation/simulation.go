// Package simulation runs the occupancy/staffing simulation: it aggregates
// forecast demand per interval, applies shrinkage, expands the roster and
// sizes every interval with the Erlang C solver, then rolls the results up
// per day and for the whole horizon.
//
// A run is a pure function of its ConfigurationData. Nothing is cached
// between runs; a stale run is abandoned by cancelling its context.
package simulation

import (
	"context"
	"runtime"
	"time"

	"occupancy-modeler/aggregator"
	"occupancy-modeler/erlang"
	"occupancy-modeler/logger"
	"occupancy-modeler/metrics"
	"occupancy-modeler/models"
	"occupancy-modeler/shrinkage"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Simulate computes the full SimulationSummary for cfg. Degenerate inputs are
// clamped rather than rejected; the only error is ctx's when the run is
// cancelled.
func Simulate(ctx context.Context, cfg models.ConfigurationData) (*models.SimulationSummary, error) {
	start := time.Now()

	in := sanitize(cfg)
	demand := aggregator.AggregateRange(in.volume, in.aht, 0, in.days, in.plannedAHT)
	rostered := in.grid.Totals()
	totalRostered := in.grid.Total()

	intervals := make([]models.IntervalResult, 0, models.IntervalsPerDay)
	for i := range models.IntervalsPerDay {
		if err := ctx.Err(); err != nil {
			metrics.SimulationRunsTotal.WithLabelValues("cancelled").Inc()
			return nil, err
		}
		res := evaluateInterval(i, demand[i], rostered[i], totalRostered, in)
		if res.TotalVolume > 0 || res.RosteredAgents > 0 {
			intervals = append(intervals, res)
		}
	}

	daily, err := rollupDays(ctx, in, rostered)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	summary := Summarize(intervals)
	summary.DailyResults = daily
	summary.Days = in.days
	if in.days > 0 {
		summary.AverageDailyVolume = summary.TotalVolume / float64(in.days)
	}

	recordRun(summary, time.Since(start))
	return summary, nil
}

// evaluateInterval runs the per-interval pipeline over the aggregated demand.
func evaluateInterval(i int, d aggregator.IntervalDemand, rawRostered, totalRostered int, in input) models.IntervalResult {
	res := models.IntervalResult{
		Interval:          i,
		Label:             models.IntervalLabel(i),
		TotalVolume:       d.TotalVolume,
		ValidDays:         d.ValidDays,
		CallTrend:         d.CallTrend,
		AvgAHT:            d.AvgAHT,
		RawRosteredAgents: rawRostered,
		EffectiveVolume:   shrinkage.EffectiveVolume(d.TotalVolume, in.shrink),
		RosteredAgents:    shrinkage.EffectiveAgents(rawRostered, in.shrink),
	}

	load := res.EffectiveVolume
	if in.basis == models.DemandAverage {
		load = shrinkage.EffectiveVolume(d.CallTrend, in.shrink)
	}
	res.TrafficIntensity = trafficIntensity(load, d.AvgAHT)

	if load > 0 {
		found := erlang.Search(in.target, in.threshold, load, d.AvgAHT)
		if found.Exhausted {
			metrics.SearchExhaustedTotal.Inc()
			logger.Debug("required-agents search exhausted", "interval", res.Label, "agents", found.Agents)
		}
		res.RequiredAgents = found.Agents
	}

	if res.RosteredAgents > 0 {
		if erlang.IsOverloaded(res.RosteredAgents, res.TrafficIntensity) {
			metrics.OverloadedIntervalsTotal.Inc()
		}
		res.SLAPct = 100 * erlang.ServiceLevel(res.RosteredAgents, res.TrafficIntensity, d.AvgAHT, in.threshold)
		res.OccupancyPct = 100 * erlang.Occupancy(res.RosteredAgents, res.TrafficIntensity)
	}

	res.Variance = res.RosteredAgents - float64(res.RequiredAgents)
	res.StaffHours = shrinkage.StaffHours(load, d.AvgAHT)
	res.WorkloadAgents = res.StaffHours / shrinkage.AgentWorkHours(shrinkage.IntervalHours, in.shrink)
	if res.RequiredAgents > 0 {
		res.Influx = res.EffectiveVolume / float64(res.RequiredAgents)
	}
	if totalRostered > 0 {
		res.AgentDistributionPct = float64(rawRostered) / float64(totalRostered) * 100
	}
	return res
}

// trafficIntensity is the offered load the solver works with, clamped to
// erlang.MaxTrafficIntensity.
func trafficIntensity(rate, ahtSeconds float64) float64 {
	raw := erlang.TrafficIntensity(rate, ahtSeconds)
	a, capped := erlang.ClampTraffic(raw)
	if capped {
		clamped("traffic_intensity", raw)
	}
	return a
}

// rollupDays evaluates every day on its own volume. Days run concurrently but
// each writes only its own slot, so the output does not depend on scheduling.
func rollupDays(ctx context.Context, in input, rostered [models.IntervalsPerDay]int) ([]models.DailyResult, error) {
	daily := make([]models.DailyResult, in.days)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for day := range in.days {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			daily[day] = evaluateDay(day, in, rostered)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return daily, nil
}

func evaluateDay(day int, in input, rostered [models.IntervalsPerDay]int) models.DailyResult {
	demand := aggregator.AggregateRange(in.volume, in.aht, day, day+1, in.plannedAHT)

	var volumes, slas, agents, occupancies [models.IntervalsPerDay]float64
	for i := range models.IntervalsPerDay {
		effVol := shrinkage.EffectiveVolume(demand[i].TotalVolume, in.shrink)
		effAgents := shrinkage.EffectiveAgents(rostered[i], in.shrink)
		a := trafficIntensity(effVol, demand[i].AvgAHT)

		volumes[i] = effVol
		agents[i] = effAgents
		if effAgents > 0 {
			slas[i] = 100 * erlang.ServiceLevel(effAgents, a, demand[i].AvgAHT, in.threshold)
			occupancies[i] = 100 * erlang.Occupancy(effAgents, a)
		}
	}

	res := models.DailyResult{
		Day:         day,
		TotalVolume: floats.Sum(volumes[:]),
		AvgSLA:      WeightedMean(slas[:], volumes[:]),
		Occupancy:   WeightedMean(occupancies[:], agents[:]),
		AvgStaffing: floats.Sum(agents[:]) / models.IntervalsPerDay,
	}
	if in.hasDate {
		res.Date = in.fromDate.AddDate(0, 0, day).Format(models.DateLayout)
	}
	return res
}

// Summarize computes the horizon-wide aggregates over the reported intervals:
// SLA weighted by effective volume, occupancy weighted by rostered agents and
// the mean staffing per reported interval.
func Summarize(intervals []models.IntervalResult) *models.SimulationSummary {
	n := len(intervals)
	volumes := make([]float64, n)
	slas := make([]float64, n)
	agents := make([]float64, n)
	occupancies := make([]float64, n)

	summary := &models.SimulationSummary{IntervalResults: intervals}
	for i, r := range intervals {
		volumes[i] = r.EffectiveVolume
		slas[i] = r.SLAPct
		agents[i] = r.RosteredAgents
		occupancies[i] = r.OccupancyPct

		summary.TotalVolume += r.TotalVolume
		if r.Variance < 0 {
			summary.UnderstaffedIntervals++
		}
	}

	summary.EffectiveVolume = floats.Sum(volumes)
	summary.FinalSLA = WeightedMean(slas, volumes)
	summary.FinalOccupancy = WeightedMean(occupancies, agents)
	if n > 0 {
		summary.AverageStaffing = floats.Sum(agents) / float64(n)
	}
	return summary
}

// WeightedMean returns Σ(v*w)/Σw, or 0 when the weights sum to zero.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || !(floats.Sum(weights) > 0) {
		return 0
	}
	return stat.Mean(values, weights)
}

func recordRun(s *models.SimulationSummary, elapsed time.Duration) {
	shortfall := 0.0
	for _, r := range s.IntervalResults {
		if r.Variance < 0 {
			shortfall -= r.Variance
		}
	}

	metrics.FinalSLA.Set(s.FinalSLA)
	metrics.FinalOccupancy.Set(s.FinalOccupancy)
	metrics.UnderstaffedIntervals.Set(float64(s.UnderstaffedIntervals))
	metrics.AgentShortfall.Set(shortfall)
	metrics.IntervalsReported.Set(float64(len(s.IntervalResults)))
	metrics.SimulationDurationSeconds.Observe(elapsed.Seconds())
	metrics.SimulationRunsTotal.WithLabelValues("completed").Inc()

	logger.Debug("simulation complete",
		"days", s.Days,
		"reported_intervals", len(s.IntervalResults),
		"final_sla", s.FinalSLA,
		"final_occupancy", s.FinalOccupancy,
		"elapsed", elapsed,
	)
}
