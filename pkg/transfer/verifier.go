// pkg/transfer/verifier.go
package transfer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
	"github.com/cl0ver012/whd-ai-assistant/pkg/source"
)

// VerificationReport compares what a file should have left in the store with
// what is there
type VerificationReport struct {
	Source           string
	Table            string
	File             string
	VerificationTime time.Time
	Expected         int64 // inserted plus skipped as already stored
	Stored           int64
	RowCountMatches  bool
	Duration         time.Duration
}

// Verifier checks stored row counts after a file is loaded
type Verifier struct {
	store   connector.RowStore
	logger  *zap.Logger
	timeout time.Duration
	reports []*VerificationReport
}

// NewVerifier creates a new verifier
func NewVerifier(store connector.RowStore, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.L()
	}
	return &Verifier{
		store:   store,
		logger:  logger.Named("verifier"),
		timeout: time.Minute, // Default 1-minute timeout
	}
}

// WithTimeout sets a custom timeout for verification queries
func (v *Verifier) WithTimeout(timeout time.Duration) *Verifier {
	v.timeout = timeout
	return v
}

// VerifyFile counts the rows stored for fileName and warns when fewer than
// expected are present. Document tables carry no file column and are not
// verified; nil is returned for them and on query failure.
func (v *Verifier) VerifyFile(ctx context.Context, def *source.Definition, fileName string, expected int64) *VerificationReport {
	if def.Layout != source.LayoutColumns {
		return nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	stored, err := v.store.Count(ctx, def.Table, connector.Filters{source.ColumnFileName: fileName})
	if err != nil {
		v.logger.Warn("Couldn't verify file",
			zap.String("source", def.Name),
			zap.String("file", fileName),
			zap.Error(err))
		return nil
	}

	report := &VerificationReport{
		Source:           def.Name,
		Table:            def.Table,
		File:             fileName,
		VerificationTime: start,
		Expected:         expected,
		Stored:           stored,
		RowCountMatches:  stored >= expected,
		Duration:         time.Since(start),
	}
	v.reports = append(v.reports, report)

	if !report.RowCountMatches {
		v.logger.Warn("Stored rows below expected",
			zap.String("source", def.Name),
			zap.String("table", def.Table),
			zap.String("file", fileName),
			zap.Int64("expected", expected),
			zap.Int64("stored", stored))
	} else {
		v.logger.Debug("Verified file",
			zap.String("file", fileName),
			zap.Int64("stored", stored))
	}
	return report
}

// Reports returns every report produced so far
func (v *Verifier) Reports() []*VerificationReport {
	return v.reports
}

// Mismatches returns the reports whose counts fell short
func (v *Verifier) Mismatches() []*VerificationReport {
	var out []*VerificationReport
	for _, r := range v.reports {
		if !r.RowCountMatches {
			out = append(out, r)
		}
	}
	return out
}
