// pkg/transfer/loader.go
package transfer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/embedding"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// BatchLoader buffers records and submits them to the store. In batch mode a
// batch is sent when it reaches its size and at Flush; in row mode every
// record is its own batch and RowDelay separates consecutive inserts. A batch
// is credited as a whole: all inserted, or all failed. Failed batches are not
// retried.
type BatchLoader struct {
	store    connector.RowStore
	def      *source.Definition
	embedder embedding.Embedder
	errors   *ErrorHandler
	logger   *zap.Logger

	size  int
	delay time.Duration

	file     string
	counters *RunCounters
	pending  []model.Row
	lines    []int
	sent     bool
}

// NewBatchLoader creates a loader for one file. defaultSize applies when the
// definition does not set a batch size. embedder may be nil.
func NewBatchLoader(
	store connector.RowStore,
	def *source.Definition,
	defaultSize int,
	embedder embedding.Embedder,
	errs *ErrorHandler,
	file string,
	counters *RunCounters,
	logger *zap.Logger,
) *BatchLoader {
	size := def.BatchSize
	if size <= 0 {
		size = defaultSize
	}
	if size <= 0 {
		size = 100
	}
	var delay time.Duration
	if def.Mode == source.ModeRow {
		size = 1
		delay = def.RowDelay
	}
	if logger == nil {
		logger = zap.L()
	}
	if errs == nil {
		errs = NewErrorHandler(logger)
	}
	if !def.Embed {
		embedder = nil
	}

	return &BatchLoader{
		store:    store,
		def:      def,
		embedder: embedder,
		errors:   errs,
		logger:   logger,
		size:     size,
		delay:    delay,
		file:     file,
		counters: counters,
		pending:  make([]model.Row, 0, size),
	}
}

// Size returns the number of records per insert call
func (l *BatchLoader) Size() int {
	return l.size
}

// Add appends a record, embedding it first when the source asks for it, and
// submits the batch once full. It returns the context's error, or a
// *HaltError when a failure ends more than the current batch.
func (l *BatchLoader) Add(ctx context.Context, rec model.NormalizedRecord) error {
	if l.embedder != nil {
		vec, err := l.embedder.Embed(ctx, rec.Content)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			l.counters.Failed++
			action := l.errors.HandleError(NewErrorRecord(err, CategorizeError(err, ErrorCategoryRowLevel)).
				WithSource(l.def.Name, l.def.Table).
				WithFile(rec.FileName).
				WithLine(rec.Line))
			return halt(action, err)
		}
		rec.Embedding = vec
	}

	l.pending = append(l.pending, l.def.Row(rec))
	l.lines = append(l.lines, rec.Line)
	if len(l.pending) >= l.size {
		return l.Flush(ctx)
	}
	return nil
}

// Flush submits the pending records, if any
func (l *BatchLoader) Flush(ctx context.Context) error {
	if len(l.pending) == 0 {
		return nil
	}

	if l.sent && l.delay > 0 {
		if err := sleep(ctx, l.delay); err != nil {
			_ = l.submit(context.WithoutCancel(ctx))
			return err
		}
	}

	if err := l.submit(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return ctx.Err()
}

// Discard drops the pending records without storing them and returns how
// many there were
func (l *BatchLoader) Discard() int {
	n := len(l.pending)
	l.pending = l.pending[:0]
	l.lines = l.lines[:0]
	return n
}

// submit sends one batch. A cancelled run still finishes the batch in hand,
// hence the caller passes a context without cancellation. A failed batch is
// counted and dropped; the error returned is non-nil only when the failure
// ends more than the batch.
func (l *BatchLoader) submit(ctx context.Context) error {
	batch := l.pending
	firstLine := l.lines[0]
	l.pending = make([]model.Row, 0, l.size)
	l.lines = l.lines[:0]
	l.sent = true
	l.counters.Batches++
	index := l.counters.Batches

	start := time.Now()
	n, err := l.store.Insert(ctx, l.def.Table, batch)
	if err != nil {
		l.counters.Failed += int64(len(batch))
		action := l.errors.HandleError(NewErrorRecord(err, CategorizeError(err, ErrorCategoryBatchLevel)).
			WithSource(l.def.Name, l.def.Table).
			WithFile(l.file).
			WithBatch(index).
			WithLine(firstLine))
		return halt(action, err)
	}

	// The store reports what it stored; the batch is still credited whole
	if n != int64(len(batch)) {
		l.logger.Warn("Store reported a different row count",
			zap.String("table", l.def.Table),
			zap.Int("batch", index),
			zap.Int("submitted", len(batch)),
			zap.Int64("stored", n))
	}
	l.counters.Inserted += int64(len(batch))

	l.logger.Debug("Inserted batch",
		zap.String("table", l.def.Table),
		zap.String("file", l.file),
		zap.Int("batch", index),
		zap.Int("rows", len(batch)),
		zap.Duration("took", time.Since(start)))
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
