package walker

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/internal/io"
)

// Tracker keeps the state of every work item discovered during a walk and the
// number of items not yet Done. The item set grows while it is observed, so an
// item must be added before the item that discovered it is finished. That way
// the outstanding count can only reach zero once nothing is left to discover.
type Tracker struct {
	mu          sync.Mutex
	states      map[Key]data.ItemState
	outstanding int
	payloads    uint64
	idle        chan struct{}
	isIdle      bool
}

// Key identifies one registered item. A manifest has one key per cleaned path.
// Every payload reference gets its own key, so a payload shared by several
// manifests is decoded once per reference.
type Key string

func NewTracker() *Tracker {
	idle := make(chan struct{})
	close(idle)
	return &Tracker{
		states: make(map[Key]data.ItemState),
		idle:   idle,
		isIdle: true,
	}
}

// Add registers a Pending item and returns its key. It returns false when the
// manifest was already registered, which also stops manifests that reference
// each other from being walked forever. Payloads are always accepted.
func (t *Tracker) Add(item io.WorkItem) (Key, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var key Key
	if item.Kind == io.KindPayload {
		t.payloads++
		key = Key(fmt.Sprintf("payload#%d:%s", t.payloads, filepath.Clean(item.Path)))
	} else {
		key = Key("manifest:" + filepath.Clean(item.Path))
		if _, known := t.states[key]; known {
			return key, false
		}
	}

	t.states[key] = data.Pending
	if t.isIdle {
		t.idle = make(chan struct{})
		t.isIdle = false
	}
	t.outstanding++
	return key, true
}

// Start moves an item from Pending to Running
func (t *Tracker) Start(key Key) {
	t.mu.Lock()
	if state, known := t.states[key]; known && state == data.Pending {
		t.states[key] = data.Running
	}
	t.mu.Unlock()
}

// Finish moves an item to Done, from either Pending or Running
func (t *Tracker) Finish(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, known := t.states[key]
	if !known || state == data.Done {
		return
	}
	t.states[key] = data.Done
	t.outstanding--
	if t.outstanding == 0 {
		close(t.idle)
		t.isIdle = true
	}
}

// WaitUntilQuiescent blocks until every registered item is Done or ctx is done
func (t *Tracker) WaitUntilQuiescent(ctx context.Context) error {
	t.mu.Lock()
	idle := t.idle
	t.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outstanding
}

func (t *Tracker) State(key Key) (data.ItemState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, known := t.states[key]
	return state, known
}

// Snapshot counts the registered items by state
func (t *Tracker) Snapshot() map[data.ItemState]int {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := map[data.ItemState]int{
		data.Pending: 0,
		data.Running: 0,
		data.Done:    0,
	}
	for _, state := range t.states {
		counts[state]++
	}
	return counts
}
