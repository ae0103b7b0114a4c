// Package metrics exposes loop progress as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vk/playtraversal/internal/play"
)

const namespace = "playtraversal"

// Metrics implements loop.Observer.
type Metrics struct {
	PlaysBuilt      prometheus.Counter
	PlaysFinished   prometheus.Counter
	Batches         prometheus.Counter
	Frames          prometheus.Counter
	QueueRemaining  prometheus.Gauge
	BatchFrameCount prometheus.Histogram
}

// New registers the loop metrics with reg. Use prometheus.DefaultRegisterer
// to serve them from promhttp.Handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PlaysBuilt: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "plays_built_total",
			Help:      "Plays whose batch queue was built",
		}),
		PlaysFinished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "plays_finished_total",
			Help:      "Plays whose loop stopped on an empty queue",
		}),
		Batches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "batches_total",
			Help:      "Batches handed to the loop body",
		}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "frames_total",
			Help:      "Frames covered by the batches handed to the loop body",
		}),
		QueueRemaining: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "queue_remaining",
			Help:      "Batches left in the queue of the running play",
		}),
		BatchFrameCount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loop",
			Name:      "batch_frames",
			Help:      "Frames per batch",
			Buckets:   []float64{1, 9, 17, 33, 41, 49, 65, 81, 121},
		}),
	}
}

func (m *Metrics) PlayBuilt(_ context.Context, _ *play.Play, q play.SequenceQueue) {
	m.PlaysBuilt.Inc()
	m.QueueRemaining.Set(float64(q.Len()))
}

func (m *Metrics) Iteration(_ context.Context, b *play.Batch, remaining int) {
	m.Batches.Inc()
	m.Frames.Add(float64(b.FramesCount))
	m.BatchFrameCount.Observe(float64(b.FramesCount))
	m.QueueRemaining.Set(float64(remaining))
}

func (m *Metrics) Stopped(context.Context, *play.Play) {
	m.PlaysFinished.Inc()
	m.QueueRemaining.Set(0)
}
