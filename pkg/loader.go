package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/ecopia-map/cesium_loader/internal/aggregator"
	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/io"
	"github.com/ecopia-map/cesium_loader/internal/loader"
	"github.com/ecopia-map/cesium_loader/internal/walker"
	"github.com/ecopia-map/cesium_loader/tools"
)

type ILoader interface {
	Load(ctx context.Context) (*Result, error)
}

// Sink presents the aggregated points, e.g. by exporting them to a file
type Sink interface {
	Render(points []data.Point) error
}

// Result of a completed walk. Batches are in arrival order, which depends on
// scheduling; only their union is deterministic.
type Result struct {
	WalkID  string
	Batches []*data.PointBatch
	Errors  []*failure.ItemError
	Stats   aggregator.Stats
}

// Points flattens every batch into a single slice
func (r *Result) Points() []data.Point {
	n := 0
	for _, batch := range r.Batches {
		n += batch.Len()
	}
	points := make([]data.Point, 0, n)
	for _, batch := range r.Batches {
		points = append(points, batch.Points...)
	}
	return points
}

// ErrorCount returns the number of failed items of the given class
func (r *Result) ErrorCount(class failure.Class) int {
	count := 0
	for _, err := range r.Errors {
		if err.Class() == class {
			count++
		}
	}
	return count
}

// Render hands the flattened points to sink
func (r *Result) Render(ctx context.Context, sink Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return sink.Render(r.Points())
}

type Loader struct {
	fileFinder tools.FileFinder
	opts       *loader.LoaderOptions
	observers  walker.Observers
}

func NewLoader(fileFinder tools.FileFinder, opts *loader.LoaderOptions) *Loader {
	opts = opts.Copy()
	opts.ApplyDefaults()
	return &Loader{
		fileFinder: fileFinder,
		opts:       opts,
	}
}

// AddObserver registers an observer notified about every item of later walks
func (l *Loader) AddObserver(observer walker.Observer) {
	l.observers = append(l.observers, observer)
}

// Load walks every tileset found from the input and collects the decoded
// points. Item failures end up in Result.Errors. An error is returned only when
// the input itself is unusable or ctx is canceled, in which case the result
// holds what was collected so far.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	walkID := uuid.New().String()[:8]
	start := time.Now()

	manifests, err := l.fileFinder.GetManifestsToProcess(l.opts)
	if err != nil {
		glog.Errorf("[%s] %v", walkID, err)
		return nil, err
	}
	tools.LogOutput(fmt.Sprintf("[%s] loading %d root(s) from %s", walkID, len(manifests), l.opts.Input))
	for i, manifest := range manifests {
		glog.V(1).Infof("[%s] root %d [%s]", walkID, i, manifest)
	}

	roots := io.NewStandardProducer(l.opts.PayloadExt).Produce(manifests)

	agg := aggregator.New()
	consumer := io.NewStandardConsumer(io.NewResolver(l.opts.PayloadExt), agg)
	w := walker.NewWalker(consumer, l.opts.Workers, l.observers)

	walkErr := w.Walk(ctx, roots)

	// the walk is quiescent, every push happened before this point
	result := &Result{
		WalkID:  walkID,
		Batches: agg.Collect(),
		Errors:  w.Errors(),
		Stats:   agg.Stats(),
	}

	if walkErr != nil {
		glog.Errorf("[%s] walk interrupted: %v", walkID, walkErr)
		return result, walkErr
	}

	tools.LogOutput(fmt.Sprintf("[%s] loaded %d points from %d payloads with %d errors in %s",
		walkID, result.Stats.Points, result.Stats.Batches, len(result.Errors), time.Since(start).Round(time.Millisecond)))

	return result, nil
}
