package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flowdef_parsing_seconds",
		Help:    "Time spent parsing a declaration file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ConversionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flowdef_conversion_seconds",
		Help:    "Time spent in each conversion stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	DeclarationsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowdef_declarations_collected_total",
		Help: "Declarations admitted into the node store, by bucket.",
	}, []string{"bucket"})

	ImportsSynthesized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowdef_imports_synthesized_total",
		Help: "Import requests synthesized from namespace-qualified variables.",
	}, []string{"kind"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowdef_diagnostics_total",
		Help: "Non-fatal conversion diagnostics, by code.",
	}, []string{"code"})

	ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowdef_conversions_total",
		Help: "Conversion runs, by outcome.",
	}, []string{"outcome"})

	ModulesEmitted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowdef_modules_emitted",
		Help: "Module blocks written by the last conversion.",
	})

	ParserLeases = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flowdef_parser_leases",
		Help: "Pooled tree-sitter parsers currently checked out.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowdef_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteMetricsFile dumps the default registry in the text exposition format.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
