package aggregator_test

import (
	"math"
	"testing"

	"occupancy-modeler/aggregator"
	"occupancy-modeler/models"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	volume := models.NewVolumeMatrix(3)
	aht := models.NewAHTMatrix(3)

	// Interval 10: two contributing days, one zero day.
	volume[0][10] = 20
	volume[2][10] = 40
	aht[0][10] = 200
	aht[2][10] = 400

	// Interval 11: AHT missing on one day falls back to planned.
	volume[1][11] = 30
	volume[2][11] = 10
	aht[1][11] = 100

	// Interval 12: negative and NaN cells are ignored.
	volume[0][12] = -5
	volume[1][12] = math.NaN()

	d := aggregator.Aggregate(volume, aht, 300)

	assert.Equal(t, 60.0, d[10].TotalVolume)
	assert.Equal(t, 2, d[10].ValidDays)
	assert.Equal(t, 300.0, d[10].AvgAHT)
	assert.Equal(t, 30.0, d[10].CallTrend)

	assert.Equal(t, 40.0, d[11].TotalVolume)
	assert.Equal(t, 200.0, d[11].AvgAHT, "(100 + planned 300) / 2")
	assert.Equal(t, 20.0, d[11].CallTrend)

	assert.Equal(t, 0.0, d[12].TotalVolume)
	assert.Equal(t, 0, d[12].ValidDays)
	assert.Equal(t, 300.0, d[12].AvgAHT)
	assert.Equal(t, 0.0, d[12].CallTrend)
}

func TestAggregate_EmptyColumnUsesPlannedAHT(t *testing.T) {
	d := aggregator.Aggregate(models.NewVolumeMatrix(28), nil, 240)
	for i := range models.IntervalsPerDay {
		assert.Equal(t, 240.0, d[i].AvgAHT)
		assert.Equal(t, 0, d[i].ValidDays)
	}
}

func TestAggregateRange_SingleDay(t *testing.T) {
	volume := models.NewVolumeMatrix(2)
	volume[0][5] = 10
	volume[1][5] = 50

	d := aggregator.AggregateRange(volume, nil, 1, 2, 300)
	assert.Equal(t, 50.0, d[5].TotalVolume)
	assert.Equal(t, 1, d[5].ValidDays)
	assert.Equal(t, 50.0, d[5].CallTrend)
}

func TestAggregateRange_ShortMatrixReadsZero(t *testing.T) {
	volume := models.NewVolumeMatrix(1)
	volume[0][0] = 7

	// Horizon longer than the matrix: missing days read as zero.
	d := aggregator.AggregateRange(volume, nil, 0, 28, 300)
	assert.Equal(t, 7.0, d[0].TotalVolume)
	assert.Equal(t, 1, d[0].ValidDays)
}

func TestHandleTime(t *testing.T) {
	assert.Equal(t, 180.0, aggregator.HandleTime(180, 300))
	assert.Equal(t, 300.0, aggregator.HandleTime(0, 300))
	assert.Equal(t, 300.0, aggregator.HandleTime(-10, 300))
	assert.Equal(t, 300.0, aggregator.HandleTime(math.NaN(), 300))
	assert.Equal(t, 300.0, aggregator.HandleTime(math.Inf(1), 300))
}
