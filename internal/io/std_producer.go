package io

type StandardProducer struct {
	payloadExt string
}

func NewStandardProducer(payloadExt string) *StandardProducer {
	return &StandardProducer{
		payloadExt: payloadExt,
	}
}

// Classifies every root path into a WorkItem. A root path is normally a
// manifest but a bare payload is accepted too.
func (p *StandardProducer) Produce(paths []string) []WorkItem {
	work := make([]WorkItem, 0, len(paths))
	for _, path := range paths {
		work = append(work, NewWorkItem(path, p.payloadExt))
	}
	return work
}
