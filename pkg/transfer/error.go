// pkg/transfer/error.go
package transfer

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/embedding"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
)

// Action defines the recommended action after an error
type Action int

const (
	// ActionContinue indicates processing should continue despite the error
	ActionContinue Action = iota
	// ActionSkipBatch indicates the current batch is counted failed
	ActionSkipBatch
	// ActionSkipFile indicates the current file should be skipped
	ActionSkipFile
	// ActionAbortSource indicates the current source must not load anything more
	ActionAbortSource
	// ActionAbortRun indicates the entire run should stop
	ActionAbortRun
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionSkipBatch:
		return "skip batch"
	case ActionSkipFile:
		return "skip file"
	case ActionAbortSource:
		return "abort source"
	case ActionAbortRun:
		return "abort run"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// HaltError carries an action that ends more than the current batch up to
// the caller owning that scope: the worker for a file, the manager for a
// source or the run
type HaltError struct {
	Action Action
	Err    error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("%s: %v", e.Action, e.Err)
}

func (e *HaltError) Unwrap() error { return e.Err }

// halt wraps err when action ends the file or more, and returns nil otherwise
func halt(action Action, err error) error {
	if action < ActionSkipFile {
		return nil
	}
	return &HaltError{Action: action, Err: err}
}

// ErrorCategory defines categories of errors during a run
type ErrorCategory int

const (
	// Error categories with increasing severity
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryWarning
	ErrorCategoryDataConversion
	ErrorCategoryValidation
	ErrorCategoryRowLevel
	ErrorCategoryBatchLevel
	ErrorCategoryFileLevel
	ErrorCategorySourceLevel
	ErrorCategoryConnectionLevel
	ErrorCategoryCritical
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryWarning:
		return "Warning"
	case ErrorCategoryDataConversion:
		return "DataConversion"
	case ErrorCategoryValidation:
		return "Validation"
	case ErrorCategoryRowLevel:
		return "RowLevel"
	case ErrorCategoryBatchLevel:
		return "BatchLevel"
	case ErrorCategoryFileLevel:
		return "FileLevel"
	case ErrorCategorySourceLevel:
		return "SourceLevel"
	case ErrorCategoryConnectionLevel:
		return "ConnectionLevel"
	case ErrorCategoryCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// ClearError reports a bulk clear that stopped part way. The table may be
// partially cleared, so nothing may be loaded into it on this run.
type ClearError struct {
	Table   string
	State   ClearState
	Deleted int64
	Err     error
}

func (e *ClearError) Error() string {
	return fmt.Sprintf("clear %s failed while %s after deleting %d rows: %v", e.Table, e.State, e.Deleted, e.Err)
}

func (e *ClearError) Unwrap() error { return e.Err }

// ErrorRecord represents a single error during a run
type ErrorRecord struct {
	Category    ErrorCategory
	Source      string
	Table       string
	File        string
	Batch       int // 1-based; zero when the error is not tied to a batch
	Line        int // physical line in the file; zero when not tied to a row
	Error       error
	Message     string // Derived from Error but stored for reporting
	Timestamp   time.Time
	Recoverable bool
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:    category,
		Error:       err,
		Timestamp:   time.Now(),
		Recoverable: category < ErrorCategorySourceLevel,
	}

	if err != nil {
		record.Message = err.Error()
	}

	return record
}

// WithSource adds source and table information to the error record
func (r ErrorRecord) WithSource(source, table string) ErrorRecord {
	r.Source = source
	r.Table = table
	return r
}

// WithFile adds the input file name
func (r ErrorRecord) WithFile(file string) ErrorRecord {
	r.File = file
	return r
}

// WithBatch adds the batch index
func (r ErrorRecord) WithBatch(batch int) ErrorRecord {
	r.Batch = batch
	return r
}

// WithLine adds the row's line number
func (r ErrorRecord) WithLine(line int) ErrorRecord {
	r.Line = line
	return r
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))

	if r.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s ", r.Source))
	}
	if r.File != "" {
		sb.WriteString(fmt.Sprintf("File: %s ", r.File))
	}
	if r.Batch > 0 {
		sb.WriteString(fmt.Sprintf("Batch: %d ", r.Batch))
	}
	if r.Line > 0 {
		sb.WriteString(fmt.Sprintf("Line: %d ", r.Line))
	}

	if r.Message != "" {
		sb.WriteString(fmt.Sprintf("Error: %s", r.Message))
	}

	return strings.TrimSpace(sb.String())
}

// ErrorHandler counts, samples and logs errors during a run
type ErrorHandler struct {
	logger       *zap.Logger
	errorCounts  map[ErrorCategory]int
	sampleErrors map[ErrorCategory][]ErrorRecord
	sourceErrors map[string]int
	mu           sync.Mutex
	maxSamples   int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	if logger == nil {
		logger = zap.L()
	}
	return &ErrorHandler{
		logger:       logger,
		errorCounts:  make(map[ErrorCategory]int),
		sampleErrors: make(map[ErrorCategory][]ErrorRecord),
		sourceErrors: make(map[string]int),
		maxSamples:   5, // Store up to 5 sample errors per category
	}
}

// CategorizeError determines the category of an error from its type. Errors
// without a recognised type fall into scope, the level of the call that
// produced them.
func CategorizeError(err error, scope ErrorCategory) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	var (
		clearErr  *ClearError
		readErr   *reader.ReadError
		periodErr *cleaner.PeriodError
		statusErr *embedding.StatusError
		netErr    net.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return ErrorCategoryCritical
	case errors.As(err, &clearErr):
		return ErrorCategorySourceLevel
	case errors.As(err, &readErr), errors.As(err, &periodErr):
		return ErrorCategoryFileLevel
	case errors.Is(err, connector.ErrNotConnected),
		errors.Is(err, driver.ErrBadConn),
		errors.As(err, &netErr):
		return ErrorCategoryConnectionLevel
	case errors.As(err, &statusErr):
		return ErrorCategoryRowLevel
	default:
		return scope
	}
}

// HandleError records an error and determines the action
func (eh *ErrorHandler) HandleError(record ErrorRecord) Action {
	eh.RecordError(record)

	switch record.Category {
	case ErrorCategoryNone, ErrorCategoryWarning,
		ErrorCategoryDataConversion, ErrorCategoryValidation, ErrorCategoryRowLevel:
		return ActionContinue

	case ErrorCategoryBatchLevel, ErrorCategoryConnectionLevel:
		// A store failure mid-run costs the batch, never the run
		return ActionSkipBatch

	case ErrorCategoryFileLevel:
		return ActionSkipFile

	case ErrorCategorySourceLevel:
		return ActionAbortSource

	case ErrorCategoryCritical:
		return ActionAbortRun

	default:
		return ActionContinue
	}
}

// RecordError saves an error occurrence
func (eh *ErrorHandler) RecordError(record ErrorRecord) {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	eh.errorCounts[record.Category]++

	samples := eh.sampleErrors[record.Category]
	if len(samples) < eh.maxSamples {
		eh.sampleErrors[record.Category] = append(samples, record)
	}

	if record.Source != "" {
		eh.sourceErrors[record.Source]++
	}

	var logLevel = zap.InfoLevel
	switch record.Category {
	case ErrorCategoryWarning, ErrorCategoryRowLevel, ErrorCategoryFileLevel:
		logLevel = zap.WarnLevel
	case ErrorCategoryBatchLevel, ErrorCategoryConnectionLevel,
		ErrorCategorySourceLevel, ErrorCategoryCritical:
		logLevel = zap.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("category", record.Category.String()),
		zap.String("source", record.Source),
		zap.String("error", record.Message),
		zap.Bool("recoverable", record.Recoverable),
	}
	if record.File != "" {
		fields = append(fields, zap.String("file", record.File))
	}
	if record.Batch > 0 {
		fields = append(fields, zap.Int("batch", record.Batch))
	}
	if record.Line > 0 {
		fields = append(fields, zap.Int("line", record.Line))
	}
	eh.logger.Log(logLevel, "Ingest error", fields...)
}

// GetErrorSummary returns the error counts per category
func (eh *ErrorHandler) GetErrorSummary() map[ErrorCategory]int {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	summary := make(map[ErrorCategory]int, len(eh.errorCounts))
	for category, count := range eh.errorCounts {
		summary[category] = count
	}
	return summary
}

// GetErrorSamples returns sample errors for each category
func (eh *ErrorHandler) GetErrorSamples() map[ErrorCategory][]ErrorRecord {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	samples := make(map[ErrorCategory][]ErrorRecord, len(eh.sampleErrors))
	for category, records := range eh.sampleErrors {
		categorySamples := make([]ErrorRecord, len(records))
		copy(categorySamples, records)
		samples[category] = categorySamples
	}
	return samples
}

// GetSourceErrorCounts returns error counts by source
func (eh *ErrorHandler) GetSourceErrorCounts() map[string]int {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	counts := make(map[string]int, len(eh.sourceErrors))
	for source, count := range eh.sourceErrors {
		counts[source] = count
	}
	return counts
}
