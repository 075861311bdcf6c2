package kdtree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryKindLabel = "kind"
)

var (
	buildCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kdtree_build_count_total",
		Help: "The total number of built trees.",
	})

	buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kdtree_build_duration_seconds",
		Help:    "The time spent building a tree.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	lastBuildNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdtree_last_build_nodes",
		Help: "The number of nodes of the last built tree.",
	})

	lastBuildLeaves = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdtree_last_build_leaves",
		Help: "The number of leaves of the last built tree.",
	})

	lastBuildDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kdtree_last_build_depth",
		Help: "The depth of the last built tree.",
	})

	queryCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdtree_query_count_total",
		Help: "The total number of ray queries.",
	}, []string{queryKindLabel})

	queryNearestCount = queryCount.With(prometheus.Labels{queryKindLabel: "nearest"})
	queryAllCount     = queryCount.With(prometheus.Labels{queryKindLabel: "all"})
)

func instrumentBuild(d time.Duration, s Stats) {
	buildCount.Inc()
	buildDuration.Observe(d.Seconds())
	lastBuildNodes.Set(float64(s.Nodes))
	lastBuildLeaves.Set(float64(s.Leaves))
	lastBuildDepth.Set(float64(s.MaxDepth))
}
