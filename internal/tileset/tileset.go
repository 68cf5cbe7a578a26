package tileset

import (
	"encoding/json"
	"fmt"

	"github.com/ecopia-map/cesium_loader/internal/failure"
)

type Tileset struct {
	Asset          Asset   `json:"asset"`
	GeometricError float64 `json:"geometricError"`
	Root           Tile    `json:"root"`
}

type Asset struct {
	Version string `json:"version"`
}

type Tile struct {
	Content        *Content        `json:"content,omitempty"`
	BoundingVolume *BoundingVolume `json:"boundingVolume,omitempty"`
	GeometricError float64         `json:"geometricError"`
	Refine         string          `json:"refine,omitempty"`
	Children       []Tile          `json:"children,omitempty"`
}

// 3D Tiles 1.0 writers emit either "uri" or the older "url" key
type Content struct {
	URI string `json:"uri,omitempty"`
	URL string `json:"url,omitempty"`
}

type BoundingVolume struct {
	Region []float64 `json:"region,omitempty"`
	Box    []float64 `json:"box,omitempty"`
	Sphere []float64 `json:"sphere,omitempty"`
}

// Ref returns the content reference, preferring "uri" over "url"
func (c *Content) Ref() string {
	if c == nil {
		return ""
	}
	if c.URI != "" {
		return c.URI
	}
	return c.URL
}

func Parse(raw []byte) (*Tileset, error) {
	var ts Tileset
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, fmt.Errorf("%w: tileset: %v", failure.ErrMalformedJSON, err)
	}
	return &ts, nil
}

// ContentRefs lists the content references of every node below the root, in
// document order, followed by the root's own content. Nodes without content
// are skipped.
func (ts *Tileset) ContentRefs() []string {
	refs := make([]string, 0, len(ts.Root.Children)+1)
	for i := range ts.Root.Children {
		refs = collectRefs(&ts.Root.Children[i], refs)
	}
	if ref := ts.Root.Content.Ref(); ref != "" {
		refs = append(refs, ref)
	}
	return refs
}

func collectRefs(tile *Tile, refs []string) []string {
	if ref := tile.Content.Ref(); ref != "" {
		refs = append(refs, ref)
	}
	for i := range tile.Children {
		refs = collectRefs(&tile.Children[i], refs)
	}
	return refs
}
