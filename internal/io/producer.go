package io

// Produces the initial work items of a walk from the root manifest paths
type Producer interface {
	Produce(paths []string) []WorkItem
}
