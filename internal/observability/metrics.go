// Pipeline metrics. HTTP traffic metrics live in the middleware package; the
// collectors here count domain events (ingestion runs, persisted comments,
// analysis outcomes) so dashboards can separate traffic volume from pipeline
// throughput.

package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// IngestionRuns counts ingestion attempts by outcome:
	// "ingested", "skipped" (presence gate hit), "partial", "error".
	IngestionRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_runs_total",
			Help: "Total ingestion runs by outcome.",
		},
		[]string{"outcome"},
	)

	// CommentsIngested counts comment rows actually inserted, i.e. after
	// conflict skips.
	CommentsIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_ingested_total",
			Help: "Total comment rows persisted.",
		},
	)

	// AnalysisRuns counts analysis passes by outcome:
	// "gaps", "no_gaps", "insufficient", "error".
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Total analysis runs by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(IngestionRuns, CommentsIngested, AnalysisRuns)
}
