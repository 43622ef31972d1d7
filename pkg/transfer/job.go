// pkg/transfer/job.go
package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// SourceJob is one source scheduled in a run
type SourceJob struct {
	ID         string             // Unique job identifier
	Definition *source.Definition // What to read and where to store it
	Dir        string             // Resolved data folder
	CreatedAt  time.Time
}

// NewSourceJob creates a job for a source whose files live in dir
func NewSourceJob(def *source.Definition, dir string) SourceJob {
	return SourceJob{
		ID:         uuid.New().String(),
		Definition: def,
		Dir:        dir,
		CreatedAt:  time.Now(),
	}
}

// RunCounters accumulate record outcomes. Read counts data rows handed to the
// normalizer; every read row ends up inserted, skipped or failed unless the run
// was cancelled.
type RunCounters struct {
	Read     int64
	Inserted int64
	Skipped  int64 // already stored, dropped by the dedup filter
	Failed   int64 // in a failed batch or not embeddable
	Degraded int64 // values that fell back to zero or null
	Batches  int   // insert calls issued
}

// Add accumulates other into c
func (c *RunCounters) Add(other RunCounters) {
	c.Read += other.Read
	c.Inserted += other.Inserted
	c.Skipped += other.Skipped
	c.Failed += other.Failed
	c.Degraded += other.Degraded
	c.Batches += other.Batches
}

// FileResult represents the outcome of one input file
type FileResult struct {
	File      string
	Counters  RunCounters
	Skipped   bool  // the file could not be read at all
	Err       error // file-level error, if any
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

func newFileResult(file string) *FileResult {
	return &FileResult{File: file, StartTime: time.Now()}
}

// Complete marks the file as complete and calculates duration
func (r *FileResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// SourceResult represents the outcome of one source
type SourceResult struct {
	JobID        string
	Source       string
	Table        string
	Files        []*FileResult
	FilesSkipped int
	Counters     RunCounters
	Cleared      int64 // rows removed by the clear phase
	Aborted      bool
	Declined     bool // the clear was not confirmed, so nothing was loaded
	Err          error
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// NewSourceResult initializes a result for a job
func NewSourceResult(job SourceJob) *SourceResult {
	return &SourceResult{
		JobID:     job.ID,
		Source:    job.Definition.Name,
		Table:     job.Definition.Table,
		StartTime: time.Now(),
	}
}

// AddFile folds a file result into the source totals
func (r *SourceResult) AddFile(f *FileResult) {
	r.Files = append(r.Files, f)
	r.Counters.Add(f.Counters)
	if f.Skipped {
		r.FilesSkipped++
	}
}

// Abort marks the source as not loaded because of err
func (r *SourceResult) Abort(err error) {
	r.Aborted = true
	r.Err = err
}

// Complete marks the source as complete and calculates duration
func (r *SourceResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// RunSummary represents the result of a whole run
type RunSummary struct {
	RunID     string
	Sources   []*SourceResult
	Totals    RunCounters
	Errors    map[ErrorCategory]int
	Cancelled bool
	Stopped   error // failure that ended the run early, if any
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewRunSummary starts a summary with the given run ID, or a fresh one when empty
func NewRunSummary(runID string) *RunSummary {
	if runID == "" {
		runID = uuid.New().String()
	}
	return &RunSummary{
		RunID:     runID,
		Errors:    make(map[ErrorCategory]int),
		StartTime: time.Now(),
	}
}

// Complete totals the sources and calculates duration
func (s *RunSummary) Complete() {
	s.Totals = RunCounters{}
	for _, src := range s.Sources {
		s.Totals.Add(src.Counters)
	}
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}

// Failed reports whether any source was aborted
func (s *RunSummary) Failed() bool {
	for _, src := range s.Sources {
		if src.Aborted {
			return true
		}
	}
	return false
}

// Throughput returns inserted records per second
func (s *RunSummary) Throughput() float64 {
	seconds := s.Duration.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.Totals.Inserted) / seconds
}
