// pkg/transfer/metrics.go
package transfer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run counters in a Prometheus registry so a snapshot can
// be written for the node exporter's textfile collector
type Metrics struct {
	registry     *prometheus.Registry
	records      *prometheus.CounterVec
	batches      *prometheus.CounterVec
	filesSkipped *prometheus.CounterVec
	cleared      *prometheus.CounterVec
	aborted      *prometheus.GaugeVec
	errors       *prometheus.CounterVec
	duration     prometheus.Gauge
	lastRun      prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "records_total",
			Help:      "Records by source and outcome (inserted, skipped, failed, degraded values).",
		}, []string{"source", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "insert_batches_total",
			Help:      "Insert calls issued per source.",
		}, []string{"source"}),
		filesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "files_skipped_total",
			Help:      "Files that could not be read or named a period the source does not understand.",
		}, []string{"source"}),
		cleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "cleared_rows_total",
			Help:      "Rows removed by the clear phase per table.",
		}, []string{"table"}),
		aborted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ingest",
			Name:      "source_aborted",
			Help:      "1 when the source did not load because of a fatal error.",
		}, []string{"source"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingest",
			Name:      "errors_total",
			Help:      "Recorded errors by category.",
		}, []string{"category"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ingest",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	m.registry.MustRegister(m.records, m.batches, m.filesSkipped, m.cleared, m.aborted, m.errors, m.duration, m.lastRun)
	return m
}

// Registry returns the registry backing the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFile adds one file's counters
func (m *Metrics) RecordFile(source string, f *FileResult) {
	c := f.Counters
	m.records.WithLabelValues(source, "inserted").Add(float64(c.Inserted))
	m.records.WithLabelValues(source, "skipped").Add(float64(c.Skipped))
	m.records.WithLabelValues(source, "failed").Add(float64(c.Failed))
	m.records.WithLabelValues(source, "degraded").Add(float64(c.Degraded))
	m.batches.WithLabelValues(source).Add(float64(c.Batches))
	if f.Skipped {
		m.filesSkipped.WithLabelValues(source).Inc()
	}
}

// RecordClear adds the rows removed from a table
func (m *Metrics) RecordClear(table string, deleted int64) {
	m.cleared.WithLabelValues(table).Add(float64(deleted))
}

// RecordRun stores the run-level values once the summary is complete
func (m *Metrics) RecordRun(summary *RunSummary) {
	for _, src := range summary.Sources {
		v := 0.0
		if src.Aborted {
			v = 1
		}
		m.aborted.WithLabelValues(src.Source).Set(v)
	}
	for category, count := range summary.Errors {
		m.errors.WithLabelValues(category.String()).Add(float64(count))
	}
	m.duration.Set(summary.Duration.Seconds())
	m.lastRun.Set(float64(summary.EndTime.Unix()))
}

// WriteFile writes the registry in the Prometheus text format. The file is
// replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// GenerateReport renders the human-readable run summary
func GenerateReport(s *RunSummary) string {
	status := "completed"
	switch {
	case s.Cancelled:
		status = "cancelled"
	case s.Stopped != nil:
		status = fmt.Sprintf("stopped: %v", s.Stopped)
	case s.Failed():
		status = "completed with aborted sources"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`
Ingest Run Report
=================
Run ID:                  %s
Status:                  %s
Duration:                %s

Records
-------
Read:                    %d
Inserted:                %d
Skipped (stored):        %d
Failed:                  %d
Degraded values:         %d
Insert calls:            %d
Throughput:              %.2f records/sec
`,
		s.RunID,
		status,
		formatDuration(s.Duration),
		s.Totals.Read,
		s.Totals.Inserted,
		s.Totals.Skipped,
		s.Totals.Failed,
		s.Totals.Degraded,
		s.Totals.Batches,
		s.Throughput(),
	))

	sb.WriteString("\nSources\n-------\n")
	for _, src := range s.Sources {
		c := src.Counters
		line := fmt.Sprintf("- %s -> %s: %d files", src.Source, src.Table, len(src.Files))
		if src.FilesSkipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", src.FilesSkipped)
		}
		line += fmt.Sprintf(", %d inserted, %d skipped, %d failed, %s",
			c.Inserted, c.Skipped, c.Failed, formatDuration(src.Duration))
		if src.Cleared > 0 {
			line += fmt.Sprintf(", cleared %d", src.Cleared)
		}
		if src.Declined {
			line += ", not loaded: clear declined"
		}
		if src.Aborted {
			line += fmt.Sprintf(" ABORTED: %v", src.Err)
		}
		sb.WriteString(line + "\n")
	}

	if len(s.Errors) > 0 {
		sb.WriteString("\nError Distribution\n------------------\n")
		categories := make([]ErrorCategory, 0, len(s.Errors))
		total := 0
		for category, count := range s.Errors {
			categories = append(categories, category)
			total += count
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
		for _, category := range categories {
			count := s.Errors[category]
			sb.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", category, count, getPercentage(float64(count), float64(total))))
		}
	}

	return sb.String()
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}
