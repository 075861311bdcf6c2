package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	acceleratorLabel = "accelerator"
)

var (
	renderCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_render_count_total",
		Help: "The total number of rendered images.",
	}, []string{acceleratorLabel})

	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_render_duration_seconds",
		Help:    "The time spent rendering an image.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
	}, []string{acceleratorLabel})

	raysTraced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_rays_traced_total",
		Help: "The total number of camera and bounce rays traced.",
	})
)

func instrumentRender(a Accelerator, d time.Duration) {
	labels := prometheus.Labels{acceleratorLabel: a.String()}
	renderCount.With(labels).Inc()
	renderDuration.With(labels).Observe(d.Seconds())
}

func instrumentRays(n int) {
	if n > 0 {
		raysTraced.Add(float64(n))
	}
}
