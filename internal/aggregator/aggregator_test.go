package aggregator

import (
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/cesium_loader/internal/data"
)

func batchOf(points ...data.Point) *data.PointBatch {
	return &data.PointBatch{Points: points}
}

func TestAggregator_ConcurrentPush(t *testing.T) {
	const workers = 64
	const perBatch = 37

	agg := New()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Push(data.NewPointBatch("", perBatch))
		}()
	}
	wg.Wait()

	assert.Len(t, agg.Collect(), workers)
	assert.Equal(t, workers*perBatch, agg.Len())
	assert.Len(t, agg.Points(), workers*perBatch)
}

func TestAggregator_IgnoresNil(t *testing.T) {
	agg := New()
	agg.Push(nil)
	assert.Empty(t, agg.Collect())
	assert.Zero(t, agg.Len())
}

func TestAggregator_CollectReturnsCopy(t *testing.T) {
	agg := New()
	agg.Push(batchOf(data.NewPoint(1, 1, 1, 0, 0, 0)))

	batches := agg.Collect()
	batches[0] = nil

	assert.NotNil(t, agg.Collect()[0])
}

func TestAggregator_Stats(t *testing.T) {
	agg := New()
	agg.Push(batchOf(
		data.NewPoint(0, 0, 0, 0, 0, 0),
		data.NewPoint(2, -4, 6, 0, 0, 0),
	))
	agg.Push(batchOf(data.NewPoint(1, 1, -3, 0, 0, 0)))

	stats := agg.Stats()
	assert.Equal(t, 2, stats.Batches)
	assert.Equal(t, 3, stats.Points)
	assert.Equal(t, [3]float32{0, -4, -3}, stats.Min)
	assert.Equal(t, [3]float32{2, 1, 6}, stats.Max)

	require.True(t, stats.Centroid[0].Equal(decimal.NewFromInt(1)), stats.Centroid[0].String())
	require.True(t, stats.Centroid[1].Equal(decimal.NewFromInt(-1)), stats.Centroid[1].String())
	require.True(t, stats.Centroid[2].Equal(decimal.NewFromInt(1)), stats.Centroid[2].String())
}

func TestAggregator_StatsEmpty(t *testing.T) {
	stats := New().Stats()
	assert.Zero(t, stats.Points)
	assert.Equal(t, [3]float32{}, stats.Min)
	assert.True(t, stats.Centroid[0].IsZero())
}

func TestAggregator_StatsSkipsNonFinitePoints(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	agg := New()
	agg.Push(batchOf(
		data.NewPoint(nan, 0, 0, 0, 0, 0),
		data.NewPoint(2, 2, 2, 0, 0, 0),
	))
	agg.Push(batchOf(
		data.NewPoint(0, inf, 0, 0, 0, 0),
		data.NewPoint(4, 0, -2, 0, 0, 0),
		data.NewPoint(0, 0, float32(math.Inf(-1)), 0, 0, 0),
	))

	var stats Stats
	require.NotPanics(t, func() { stats = agg.Stats() })

	assert.Equal(t, 5, stats.Points)
	assert.Equal(t, 3, stats.NonFinite)
	assert.Equal(t, [3]float32{2, 0, -2}, stats.Min)
	assert.Equal(t, [3]float32{4, 2, 2}, stats.Max)
	assert.True(t, stats.Centroid[0].Equal(decimal.NewFromInt(3)), stats.Centroid[0].String())
	assert.True(t, stats.Centroid[1].Equal(decimal.NewFromInt(1)), stats.Centroid[1].String())
	assert.True(t, stats.Centroid[2].IsZero(), stats.Centroid[2].String())
}

func TestAggregator_StatsOnlyNonFinite(t *testing.T) {
	agg := New()
	agg.Push(batchOf(data.NewPoint(float32(math.NaN()), 1, 1, 0, 0, 0)))

	stats := agg.Stats()
	assert.Equal(t, 1, stats.Points)
	assert.Equal(t, 1, stats.NonFinite)
	assert.Equal(t, [3]float32{}, stats.Min)
	assert.True(t, stats.Centroid[0].IsZero())
}
