// pkg/transfer/worker.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/embedding"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// Worker runs the read, normalize, dedup and load stages over the files of
// one source, one file at a time
type Worker struct {
	store        connector.RowStore
	def          *source.Definition
	dataCleaner  *cleaner.DataCleaner
	embedder     embedding.Embedder
	errorHandler *ErrorHandler
	verifier     *Verifier
	batchSize    int
	logger       *zap.Logger
}

// NewWorker creates a worker for def. embedder and verifier may be nil.
func NewWorker(
	store connector.RowStore,
	def *source.Definition,
	batchSize int,
	embedder embedding.Embedder,
	verifier *Verifier,
	errorHandler *ErrorHandler,
	logger *zap.Logger,
) (*Worker, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.With(zap.String("source", def.Name))

	dataCleaner, err := cleaner.NewDataCleaner(def.Schema, logger)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", def.Name, err)
	}
	if errorHandler == nil {
		errorHandler = NewErrorHandler(logger)
	}

	return &Worker{
		store:        store,
		def:          def,
		dataCleaner:  dataCleaner,
		embedder:     embedder,
		errorHandler: errorHandler,
		verifier:     verifier,
		batchSize:    batchSize,
		logger:       logger,
	}, nil
}

// recordSource is the part of the reader a file is processed through
type recordSource interface {
	Next() (model.SourceRecord, error)
	Preamble() []string
	RepeatedHeaders() int
}

// ProcessFile loads one file. The file is read to the end before anything is
// stored, so a file that cannot be read loads nothing and is skipped.
// Problems with individual batches or records are counted. The returned
// error is the context's when the run was cancelled part way, or a
// *HaltError when a failure ends the source or the run.
func (w *Worker) ProcessFile(ctx context.Context, path string) (*FileResult, error) {
	name := filepath.Base(path)
	result := newFileResult(name)
	defer result.Complete()

	period, err := w.dataCleaner.FilePeriod(name)
	if err != nil {
		return result, w.skipFile(result, err)
	}

	r, err := reader.Open(path, w.def.Reader)
	if err != nil {
		return result, w.skipFile(result, err)
	}
	defer r.Close()

	return result, w.process(ctx, r, period, result)
}

func (w *Worker) process(ctx context.Context, src recordSource, period cleaner.Period, result *FileResult) error {
	name := result.File
	fileCtx := cleaner.FileContext{Source: w.def.Name, FileName: name, Period: period}
	if preamble := src.Preamble(); len(preamble) > 0 {
		fileCtx.ReportTitle = preamble[0]
		if len(preamble) > 1 {
			fileCtx.ReportDateRange = preamble[1]
		}
	}

	keys, err := ExistingKeys(ctx, w.store, w.def, name)
	if err != nil {
		w.errorHandler.RecordError(NewErrorRecord(fmt.Errorf("existing-key query failed, loading without dedup: %w", err), ErrorCategoryWarning).
			WithSource(w.def.Name, w.def.Table).
			WithFile(name))
	}
	filter := NewDedupFilter(w.def, keys, w.logger)

	records, err := w.collect(ctx, src, fileCtx, filter, &result.Counters)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c := &result.Counters
		c.Failed += c.Read - c.Skipped
		return w.skipFile(result, err)
	}

	loader := NewBatchLoader(w.store, w.def, w.batchSize, w.embedder, w.errorHandler, name, &result.Counters, w.logger)

	w.logger.Info("Processing file",
		zap.String("file", name),
		zap.String("period", period.Key),
		zap.Int("existing", len(keys)),
		zap.Int("records", len(records)),
		zap.Int("batchSize", loader.Size()))

	runErr := w.load(ctx, loader, records, &result.Counters)

	var halted *HaltError
	if errors.As(runErr, &halted) && halted.Action == ActionSkipFile {
		result.Err = halted.Err
		runErr = nil
	}

	c := result.Counters
	w.logger.Info("Processed file",
		zap.String("file", name),
		zap.Int64("read", c.Read),
		zap.Int64("inserted", c.Inserted),
		zap.Int64("skipped", c.Skipped),
		zap.Int64("failed", c.Failed),
		zap.Int64("degraded", c.Degraded),
		zap.Int("batches", c.Batches),
		zap.Int("repeatedHeaders", src.RepeatedHeaders()))

	if w.verifier != nil && runErr == nil && result.Err == nil {
		w.verifier.VerifyFile(context.WithoutCancel(ctx), w.def, name, c.Inserted+c.Skipped)
	}
	return runErr
}

// collect reads and normalizes every row of the file and returns the records
// the dedup filter lets through
func (w *Worker) collect(ctx context.Context, src recordSource, fileCtx cleaner.FileContext, filter *DedupFilter, c *RunCounters) ([]model.NormalizedRecord, error) {
	var records []model.NormalizedRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		c.Read++
		normalized := w.dataCleaner.Normalize(rec, fileCtx)
		c.Degraded += int64(len(normalized.Operations))

		if !filter.Allow(normalized) {
			c.Skipped++
			continue
		}
		records = append(records, normalized)
	}
}

// load hands records to the loader. When a failure ends the file or more,
// the records not yet stored are counted failed.
func (w *Worker) load(ctx context.Context, loader *BatchLoader, records []model.NormalizedRecord, c *RunCounters) error {
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			// The batch in hand is still stored
			_ = loader.Flush(ctx)
			return err
		}

		if err := loader.Add(ctx, rec); err != nil {
			var halted *HaltError
			if errors.As(err, &halted) {
				c.Failed += int64(loader.Discard() + len(records) - i - 1)
			}
			return err
		}
	}
	return loader.Flush(ctx)
}

// skipFile records a file that loads nothing. The error returned is non-nil
// when the failure ends more than the file.
func (w *Worker) skipFile(result *FileResult, err error) error {
	result.Skipped = true
	result.Err = err
	action := w.errorHandler.HandleError(NewErrorRecord(err, CategorizeError(err, ErrorCategoryFileLevel)).
		WithSource(w.def.Name, w.def.Table).
		WithFile(result.File))
	if action <= ActionSkipFile {
		return nil
	}
	return &HaltError{Action: action, Err: err}
}
