package generate

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/4STO2NED0/gen-typescript-declarations/convert"
)

var (
	featuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gentsd_features_total",
		Help: "Features converted to declarations, by kind",
	}, []string{"kind"})

	featuresSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gentsd_features_skipped_total",
		Help: "Features not converted, by reason",
	}, []string{"reason"})

	annotationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gentsd_annotation_fallbacks_total",
		Help: "Type annotations that could not be parsed and became any",
	})

	documentsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gentsd_documents_written_total",
		Help: "Declaration files written",
	})

	unitBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gentsd_unit_build_duration_seconds",
		Help:    "Time to build the declarations of one analyzed document",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	})
)

func recordStats(s convert.Stats) {
	for kind, n := range s.Features {
		featuresTotal.WithLabelValues(kind).Add(float64(n))
	}
	for reason, n := range s.Skipped {
		featuresSkipped.WithLabelValues(reason).Add(float64(n))
	}
	annotationFallbacks.Add(float64(s.Fallbacks))
}

// WriteMetrics writes the default registry to path in the node exporter
// textfile format.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
