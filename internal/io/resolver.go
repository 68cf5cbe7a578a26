package io

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/tileset"
)

// Resolver turns one tileset.json into the work items it references
type Resolver struct {
	payloadExt string
}

func NewResolver(payloadExt string) *Resolver {
	return &Resolver{payloadExt: payloadExt}
}

func (r *Resolver) Resolve(path string) ([]WorkItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", failure.ErrNotFound, path)
		}
		return nil, err
	}

	ts, err := tileset.Parse(raw)
	if err != nil {
		return nil, err
	}

	return r.ResolveTileset(path, ts), nil
}

// ResolveTileset builds the work items of an already parsed manifest located at path
func (r *Resolver) ResolveTileset(path string, ts *tileset.Tileset) []WorkItem {
	dir := filepath.Dir(path)

	refs := ts.ContentRefs()
	work := make([]WorkItem, 0, len(refs))
	for _, ref := range refs {
		work = append(work, NewWorkItem(JoinRef(dir, ref), r.payloadExt))
	}
	return work
}

// JoinRef resolves a content reference against the manifest directory by plain
// concatenation, without cleaning ".." or "." segments
func JoinRef(dir string, ref string) string {
	return dir + "/" + ref
}
