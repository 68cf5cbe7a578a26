package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecopia-map/cesium_loader/internal/failure"
	"github.com/ecopia-map/cesium_loader/internal/io"
)

const namespace = "cesium_loader"

const outcomeOK = "ok"

// Metrics is a walker observer that records item outcomes in prometheus collectors
type Metrics struct {
	items    *prometheus.CounterVec
	points   prometheus.Counter
	inFlight prometheus.Gauge
	duration *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string][]time.Time // a shared payload can be in flight more than once
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_total",
				Help:      "Work items processed, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		points: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "points_total",
				Help:      "Points decoded from payloads",
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "items_in_flight",
				Help:      "Work items currently being processed",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "item_duration_seconds",
				Help:      "Time spent resolving a manifest or decoding a payload",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"kind"},
		),
		started: make(map[string][]time.Time),
	}

	for _, c := range []prometheus.Collector{m.items, m.points, m.inFlight, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) OnItemStart(item io.WorkItem) {
	m.inFlight.Inc()

	m.mu.Lock()
	m.started[item.Path] = append(m.started[item.Path], time.Now())
	m.mu.Unlock()
}

func (m *Metrics) OnItemDone(item io.WorkItem, points int, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = string(failure.Classify(err))
	}
	m.items.WithLabelValues(item.Kind.String(), outcome).Inc()
	m.points.Add(float64(points))

	m.mu.Lock()
	var start time.Time
	starts := m.started[item.Path]
	started := len(starts) > 0
	if started {
		start = starts[0]
		if len(starts) == 1 {
			delete(m.started, item.Path)
		} else {
			m.started[item.Path] = starts[1:]
		}
	}
	m.mu.Unlock()

	// canceled items finish without having started
	if started {
		m.inFlight.Dec()
		m.duration.WithLabelValues(item.Kind.String()).Observe(time.Since(start).Seconds())
	}
}

// WriteTextfile dumps every metric gathered by g in the text exposition format
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
