package aggregator

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ecopia-map/cesium_loader/internal/data"
)

// Aggregator collects point batches pushed by concurrent workers.
// Reads are only meaningful once every producer has finished.
type Aggregator struct {
	mu        sync.Mutex
	batches   []*data.PointBatch
	numPoints int
}

func New() *Aggregator {
	return &Aggregator{}
}

// Push appends a batch, safe for concurrent use
func (a *Aggregator) Push(batch *data.PointBatch) {
	if batch == nil {
		return
	}
	a.mu.Lock()
	a.batches = append(a.batches, batch)
	a.numPoints += len(batch.Points)
	a.mu.Unlock()
}

// Collect returns the batches in the order they were pushed
func (a *Aggregator) Collect() []*data.PointBatch {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*data.PointBatch, len(a.batches))
	copy(out, a.batches)
	return out
}

// Points flattens every batch into a single slice
func (a *Aggregator) Points() []data.Point {
	a.mu.Lock()
	defer a.mu.Unlock()

	points := make([]data.Point, 0, a.numPoints)
	for _, batch := range a.batches {
		points = append(points, batch.Points...)
	}
	return points
}

// Len returns the total number of points across all batches
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.numPoints
}

type Stats struct {
	Batches   int                `json:"batches" yaml:"batches"`
	Points    int                `json:"points" yaml:"points"`
	NonFinite int                `json:"non_finite" yaml:"non_finite"` // points left out of bounds and centroid
	Min       [3]float32         `json:"min" yaml:"min"`
	Max       [3]float32         `json:"max" yaml:"max"`
	Centroid  [3]decimal.Decimal `json:"centroid" yaml:"-"`
}

// Stats computes the bounding box and centroid of every collected point.
// Points with a NaN or infinite coordinate are counted in NonFinite and left
// out of both. Per batch sums are combined as decimals so the centroid does
// not drift with the order batches were pushed in.
func (a *Aggregator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := Stats{
		Batches: len(a.batches),
		Points:  a.numPoints,
	}

	var sum [3]decimal.Decimal
	finite := 0
	for _, batch := range a.batches {
		var batchSum [3]float64
		for _, p := range batch.Points {
			xyz := [3]float32{p.X, p.Y, p.Z}
			if !isFinite(xyz) {
				stats.NonFinite++
				continue
			}
			for i, v := range xyz {
				if finite == 0 || v < stats.Min[i] {
					stats.Min[i] = v
				}
				if finite == 0 || v > stats.Max[i] {
					stats.Max[i] = v
				}
				batchSum[i] += float64(v)
			}
			finite++
		}
		// finite float32 values cannot overflow a float64 sum
		for i := range sum {
			sum[i] = sum[i].Add(decimal.NewFromFloat(batchSum[i]))
		}
	}

	if finite == 0 {
		return stats
	}
	count := decimal.NewFromInt(int64(finite))
	for i := range sum {
		stats.Centroid[i] = sum[i].Div(count)
	}

	return stats
}

func isFinite(xyz [3]float32) bool {
	for _, v := range xyz {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
