package walker

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/io"
)

// Consumer processes one work item and returns the work items it discovered
// together with the number of points it produced
type Consumer interface {
	Consume(ctx context.Context, item io.WorkItem) ([]io.WorkItem, int, error)
}

// Walker drives a concurrent traversal of the tile tree. Each item runs in its
// own goroutine, so submitting discovered work never blocks. When workers is
// positive it bounds how many items do I/O at the same time.
// A Walker performs a single walk.
type Walker struct {
	consumer Consumer
	observer Observer
	tracker  *Tracker
	errLog   *failure.Log
	sem      chan struct{}
	wg       sync.WaitGroup
}

func NewWalker(consumer Consumer, workers int, observer Observer) *Walker {
	if observer == nil {
		observer = nopObserver{}
	}
	var sem chan struct{}
	if workers > 0 {
		sem = make(chan struct{}, workers)
	}
	return &Walker{
		consumer: consumer,
		observer: observer,
		tracker:  NewTracker(),
		errLog:   failure.NewLog(),
		sem:      sem,
	}
}

// Walk processes roots and everything transitively discovered from them and
// returns once the walk is quiescent. Item failures are recorded, not
// returned. When ctx is canceled, items that have not started yet are
// finished without running and Walk returns ctx.Err() after every goroutine
// has exited.
func (w *Walker) Walk(ctx context.Context, roots []io.WorkItem) error {
	// every root is registered before the first one can finish
	type root struct {
		item io.WorkItem
		key  Key
	}
	accepted := make([]root, 0, len(roots))
	for _, item := range roots {
		if key, ok := w.tracker.Add(item); ok {
			accepted = append(accepted, root{item: item, key: key})
		} else {
			glog.V(2).Infof("skipping duplicate root %s", item.Path)
		}
	}
	for _, r := range accepted {
		w.dispatch(ctx, r.item, r.key)
	}

	err := w.tracker.WaitUntilQuiescent(ctx)
	w.wg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return err
}

func (w *Walker) Tracker() *Tracker {
	return w.tracker
}

func (w *Walker) Errors() []*failure.ItemError {
	return w.errLog.Errors()
}

func (w *Walker) ErrorLog() *failure.Log {
	return w.errLog
}

func (w *Walker) dispatch(ctx context.Context, item io.WorkItem, key Key) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx, item, key)
	}()
}

func (w *Walker) run(ctx context.Context, item io.WorkItem, key Key) {
	if err := w.acquire(ctx); err != nil {
		w.finish(item, key, 0, err)
		return
	}
	defer w.release()

	w.tracker.Start(key)
	w.observer.OnItemStart(item)

	children, points, err := w.consume(ctx, item)

	// children are registered before the parent is finished
	for _, child := range children {
		if childKey, ok := w.tracker.Add(child); ok {
			w.dispatch(ctx, child, childKey)
		} else {
			glog.V(2).Infof("skipping already known %s %s", child.Kind, child.Path)
		}
	}

	w.finish(item, key, points, err)
}

func (w *Walker) consume(ctx context.Context, item io.WorkItem) (children []io.WorkItem, points int, err error) {
	defer func() {
		if r := recover(); r != nil {
			children, points, err = nil, 0, fmt.Errorf("panic while processing %s: %v", item.Path, r)
		}
	}()
	return w.consumer.Consume(ctx, item)
}

func (w *Walker) finish(item io.WorkItem, key Key, points int, err error) {
	if err != nil {
		itemErr := failure.NewItemError(item.Path, item.Kind.String(), err)
		w.errLog.Record(itemErr)
		if itemErr.Class() == failure.ClassCanceled {
			glog.V(2).Infof("canceled %s %s", item.Kind, item.Path)
		} else {
			glog.Warningf("skipping %s %s: %v", item.Kind, item.Path, err)
		}
	} else {
		glog.V(2).Infof("done %s %s (%d points)", item.Kind, item.Path, points)
	}

	w.observer.OnItemDone(item, points, err)
	w.tracker.Finish(key)
}

func (w *Walker) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.sem == nil {
		return nil
	}
	select {
	case w.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Walker) release() {
	if w.sem != nil {
		<-w.sem
	}
}
