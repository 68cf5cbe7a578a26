package io

import (
	"context"
	"fmt"

	"github.com/ecopia-map/cesium_loader/internal/data"
	"github.com/ecopia-map/cesium_loader/internal/pnts"
)

// Receives the batches decoded by consumers. Must be safe for concurrent use.
type Sink interface {
	Push(batch *data.PointBatch)
}

type StandardConsumer struct {
	resolver *Resolver
	sink     Sink
}

func NewStandardConsumer(resolver *Resolver, sink Sink) *StandardConsumer {
	return &StandardConsumer{
		resolver: resolver,
		sink:     sink,
	}
}

// Consume resolves a manifest into the work items it references, or decodes a
// payload and pushes its batch to the sink. It returns the discovered items and
// the number of points pushed.
func (c *StandardConsumer) Consume(ctx context.Context, item WorkItem) ([]WorkItem, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	switch item.Kind {
	case KindManifest:
		children, err := c.resolver.Resolve(item.Path)
		if err != nil {
			return nil, 0, err
		}
		return children, 0, nil

	case KindPayload:
		batch, err := pnts.DecodeFile(item.Path)
		if err != nil {
			return nil, 0, err
		}
		c.sink.Push(batch)
		return nil, batch.Len(), nil
	}

	return nil, 0, fmt.Errorf("unknown work item kind %d for %s", item.Kind, item.Path)
}
