package walker

import "github.com/ecopia-map/cesium_loader/internal/io"

// Observer is notified about item progress. Both hooks are called from worker
// goroutines and must be safe for concurrent use. OnItemDone always runs
// before the item is marked Done, so every notification has been delivered
// once a walk returns.
type Observer interface {
	OnItemStart(item io.WorkItem)
	OnItemDone(item io.WorkItem, points int, err error)
}

// Observers fans notifications out to several observers
type Observers []Observer

func (o Observers) OnItemStart(item io.WorkItem) {
	for _, observer := range o {
		observer.OnItemStart(item)
	}
}

func (o Observers) OnItemDone(item io.WorkItem, points int, err error) {
	for _, observer := range o {
		observer.OnItemDone(item, points, err)
	}
}

type nopObserver struct{}

func (nopObserver) OnItemStart(io.WorkItem)            {}
func (nopObserver) OnItemDone(io.WorkItem, int, error) {}
