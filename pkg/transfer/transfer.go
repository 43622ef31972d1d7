// pkg/transfer/transfer.go
package transfer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/embedding"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// Options configure a run
type Options struct {
	DataRoot      string
	BatchSize     int // default for sources that set none
	ClearPageSize int
	Clear         bool
	CreateTables  bool
	Verify        bool
	Dimensions    int // width of document embedding columns

	// Confirm is asked once per table before it is cleared. Returning false
	// skips every source writing to that table. Nil clears without asking.
	Confirm func(table string, sources []string) bool
}

// Manager runs sources one after another: tables are prepared, cleared when
// asked, then each source's files are loaded in name order
type Manager struct {
	store        connector.RowStore
	embedder     embedding.Embedder
	opts         Options
	errorHandler *ErrorHandler
	metrics      *Metrics
	verifier     *Verifier
	logger       *zap.Logger
	runID        string
}

// NewManager creates a manager. embedder may be nil, in which case documents
// are stored without vectors.
func NewManager(store connector.RowStore, embedder embedding.Embedder, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.L()
	}

	m := &Manager{
		store:        store,
		embedder:     embedder,
		opts:         opts,
		errorHandler: NewErrorHandler(logger),
		metrics:      NewMetrics(),
		logger:       logger,
	}
	if opts.Verify {
		m.verifier = NewVerifier(store, logger)
	}
	return m
}

// WithRunID sets the ID stamped on the summary
func (m *Manager) WithRunID(id string) *Manager {
	m.runID = id
	return m
}

// Metrics returns the run's metrics
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// Verifier returns the verifier, nil unless Verify was set
func (m *Manager) Verifier() *Verifier {
	return m.verifier
}

// GetErrorSummary returns the error counts per category
func (m *Manager) GetErrorSummary() map[ErrorCategory]int {
	return m.errorHandler.GetErrorSummary()
}

// Run processes defs in order. Per-file and per-batch problems are counted in
// the summary. A source whose table cannot be prepared or cleared is aborted
// while the others still run. The error is non-nil when ctx was cancelled or
// a failure stopped the whole run; the summary is complete either way.
func (m *Manager) Run(ctx context.Context, defs []*source.Definition) (*RunSummary, error) {
	summary := NewRunSummary(m.runID)
	m.logger.Info("Starting run", zap.String("runID", summary.RunID), zap.Int("sources", len(defs)))

	var stopErr error
	jobs := make([]SourceJob, len(defs))
	for i, def := range defs {
		jobs[i] = NewSourceJob(def, def.Dir(m.opts.DataRoot))
		result := NewSourceResult(jobs[i])
		summary.Sources = append(summary.Sources, result)

		if err := m.store.EnsureTable(ctx, def.Metadata(m.opts.Dimensions), m.opts.CreateTables); err != nil {
			err = fmt.Errorf("prepare table %s: %w", def.Table, err)
			if m.abort(result, def, err) == ActionAbortRun && stopErr == nil {
				stopErr = err
			}
		}
		if def.Embed && m.embedder == nil {
			m.logger.Info("Embeddings disabled, storing documents without vectors", zap.String("source", def.Name))
		}
	}

	if m.opts.Clear && stopErr == nil {
		stopErr = m.clearTables(ctx, jobs, summary.Sources)
	}

	for i, job := range jobs {
		result := summary.Sources[i]
		switch {
		case result.Aborted || result.Declined:
		case ctx.Err() != nil:
			summary.Cancelled = true
		case stopErr != nil:
			result.Abort(fmt.Errorf("not run: %w", stopErr))
		default:
			if err := m.runSource(ctx, job, result); err != nil {
				if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
					summary.Cancelled = true
				} else {
					var halted *HaltError
					if errors.As(err, &halted) {
						err = halted.Err
					}
					stopErr = err
					result.Abort(err)
				}
			}
		}
		result.Complete()
	}

	summary.Stopped = stopErr
	summary.Errors = m.errorHandler.GetErrorSummary()
	summary.Complete()
	m.metrics.RecordRun(summary)

	m.logger.Info("Run finished",
		zap.String("runID", summary.RunID),
		zap.Int64("inserted", summary.Totals.Inserted),
		zap.Int64("skipped", summary.Totals.Skipped),
		zap.Int64("failed", summary.Totals.Failed),
		zap.Duration("duration", summary.Duration),
		zap.Bool("cancelled", summary.Cancelled),
		zap.Bool("stopped", stopErr != nil))

	if summary.Cancelled {
		return summary, ctx.Err()
	}
	if stopErr != nil {
		return summary, stopErr
	}
	return summary, nil
}

// clearTables clears each distinct table once, before anything is loaded, so
// sources sharing a table never clear each other's fresh rows. The error
// returned is non-nil when a clear failure stops the run.
func (m *Manager) clearTables(ctx context.Context, jobs []SourceJob, results []*SourceResult) error {
	clearer := NewClearer(m.store, m.opts.ClearPageSize, m.logger)

	var tables []string
	members := make(map[string][]int)
	for i, job := range jobs {
		if results[i].Aborted {
			continue
		}
		table := job.Definition.Table
		if _, seen := members[table]; !seen {
			tables = append(tables, table)
		}
		members[table] = append(members[table], i)
	}

	for _, table := range tables {
		idx := members[table]
		names := make([]string, len(idx))
		for j, i := range idx {
			names[j] = jobs[i].Definition.Name
		}

		if m.opts.Confirm != nil && !m.opts.Confirm(table, names) {
			m.logger.Warn("Clear declined, not loading", zap.String("table", table), zap.Strings("sources", names))
			for _, i := range idx {
				results[i].Declined = true
			}
			continue
		}

		deleted, err := clearer.Clear(ctx, table)
		m.metrics.RecordClear(table, deleted)
		for _, i := range idx {
			results[i].Cleared = deleted
			if err != nil && m.abort(results[i], jobs[i].Definition, err) == ActionAbortRun {
				return err
			}
		}
	}
	return nil
}

// runSource loads every matching file of one source
func (m *Manager) runSource(ctx context.Context, job SourceJob, result *SourceResult) error {
	def := job.Definition
	logger := m.logger.With(zap.String("source", def.Name), zap.String("jobID", job.ID))

	files, err := def.Files(job.Dir)
	if err != nil {
		if m.abort(result, def, err) == ActionAbortRun {
			return err
		}
		return nil
	}
	if len(files) == 0 {
		logger.Warn("No matching files", zap.String("folder", job.Dir), zap.Strings("patterns", def.Patterns))
		return nil
	}

	worker, err := NewWorker(m.store, def, m.opts.BatchSize, m.embedder, m.verifier, m.errorHandler, m.logger)
	if err != nil {
		if m.abort(result, def, err) == ActionAbortRun {
			return err
		}
		return nil
	}

	logger.Info("Processing source",
		zap.String("table", def.Table),
		zap.String("folder", job.Dir),
		zap.Int("files", len(files)))

	for _, path := range files {
		fileResult, err := worker.ProcessFile(ctx, path)
		result.AddFile(fileResult)
		m.metrics.RecordFile(def.Name, fileResult)
		if err == nil {
			continue
		}

		var halted *HaltError
		if errors.As(err, &halted) && halted.Action == ActionAbortSource {
			logger.Warn("Source aborted, remaining files not loaded", zap.String("file", fileResult.File), zap.Error(halted.Err))
			result.Abort(halted.Err)
			return nil
		}
		return err
	}
	return nil
}

// abort marks the source as not loaded and records err. It returns the
// handler's action, which is ActionAbortRun when err ends the whole run.
func (m *Manager) abort(result *SourceResult, def *source.Definition, err error) Action {
	result.Abort(err)
	return m.errorHandler.HandleError(NewErrorRecord(err, CategorizeError(err, ErrorCategorySourceLevel)).
		WithSource(def.Name, def.Table))
}
