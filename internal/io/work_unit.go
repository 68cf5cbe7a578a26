package io

import "strings"

type Kind int

const (
	KindManifest Kind = iota // a tileset.json to resolve into more work
	KindPayload              // a pnts file to decode into points
)

func (k Kind) String() string {
	if k == KindPayload {
		return "payload"
	}
	return "manifest"
}

// Contains the minimal data needed to process a single node of the tile tree
type WorkItem struct {
	Path string
	Kind Kind
}

// ClassifyPath marks a path as a payload when it ends with payloadExt
// (case-insensitive), anything else is treated as a manifest
func ClassifyPath(path string, payloadExt string) Kind {
	if payloadExt != "" && strings.HasSuffix(strings.ToLower(path), strings.ToLower(payloadExt)) {
		return KindPayload
	}
	return KindManifest
}

func NewWorkItem(path string, payloadExt string) WorkItem {
	return WorkItem{Path: path, Kind: ClassifyPath(path, payloadExt)}
}
