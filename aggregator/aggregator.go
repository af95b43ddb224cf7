package aggregator

import (
	"math"

	"occupancy-modeler/models"
)

// IntervalDemand is the demand collapsed across days for one interval.
type IntervalDemand struct {
	TotalVolume float64
	TotalAHT    float64
	ValidDays   int
	AvgAHT      float64
	// CallTrend is the average volume per contributing day.
	CallTrend float64
}

// Demand holds one IntervalDemand per interval of the day.
type Demand [models.IntervalsPerDay]IntervalDemand

// Aggregate collapses every day of the matrices into per-interval demand.
func Aggregate(volume models.VolumeMatrix, aht models.AHTMatrix, plannedAHT float64) Demand {
	return AggregateRange(volume, aht, 0, volume.Days(), plannedAHT)
}

// AggregateRange collapses days [fromDay, toDay) into per-interval demand.
// Only days with a positive volume contribute. A cell with no usable AHT
// counts as plannedAHT, and an interval with no contributing day reports
// plannedAHT as its average.
func AggregateRange(volume models.VolumeMatrix, aht models.AHTMatrix, fromDay, toDay int, plannedAHT float64) Demand {
	var d Demand
	if fromDay < 0 {
		fromDay = 0
	}

	for i := range models.IntervalsPerDay {
		cur := &d[i]
		for day := fromDay; day < toDay; day++ {
			v := volume.At(day, i)
			if !(v > 0) || math.IsInf(v, 1) {
				continue
			}
			cur.TotalVolume += v
			cur.TotalAHT += HandleTime(aht.At(day, i), plannedAHT)
			cur.ValidDays++
		}

		if cur.ValidDays > 0 {
			cur.AvgAHT = cur.TotalAHT / float64(cur.ValidDays)
		} else {
			cur.AvgAHT = plannedAHT
		}
		cur.CallTrend = cur.TotalVolume / float64(max(1, cur.ValidDays))
	}

	return d
}

// HandleTime returns cell when it is a usable handle time, else plannedAHT.
func HandleTime(cell, plannedAHT float64) float64 {
	if cell > 0 && !math.IsInf(cell, 1) {
		return cell
	}
	return plannedAHT
}
