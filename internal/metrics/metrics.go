package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	BatchRuns      *prometheus.CounterVec
	BatchDuration  prometheus.Histogram
	PostsPublished prometheus.Counter
	PostsFailed    *prometheus.CounterVec
	MediaUploads   *prometheus.CounterVec
}

// New registers the scheduler metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so collectors never collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		BatchRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_batch_runs_total",
			Help: "batch publishing runs by result",
		}, []string{"result"}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_batch_duration_seconds",
			Help:    "histogram of batch publishing run durations",
			Buckets: prometheus.ExponentialBucketsRange(0.01, 300, 15),
		}),
		PostsPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_posts_published_total",
			Help: "posts published to linkedin",
		}),
		PostsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_posts_failed_total",
			Help: "posts that failed to publish by reason",
		}, []string{"reason"}),
		MediaUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_media_uploads_total",
			Help: "media assets handled while publishing by result",
		}, []string{"result"}),
	}
}
