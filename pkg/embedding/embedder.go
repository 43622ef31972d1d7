// pkg/embedding/embedder.go
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to Embedder
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

// Embed calls f
func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// StatusError is a non-2xx answer from the embedding API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding request failed with status %d: %s", e.StatusCode, e.Body)
}

// Retrying calls the wrapped Embedder and, when it fails, tries exactly once
// more after Delay
type Retrying struct {
	next   Embedder
	delay  time.Duration
	logger *zap.Logger
}

// WithRetry wraps an Embedder with a single delayed retry
func WithRetry(next Embedder, delay time.Duration, logger *zap.Logger) *Retrying {
	if logger == nil {
		logger = zap.L()
	}
	return &Retrying{next: next, delay: delay, logger: logger.Named("embedding")}
}

// Embed returns the first successful vector, or the second error
func (r *Retrying) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := r.next.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	r.logger.Warn("Embedding failed, retrying", zap.Duration("delay", r.delay), zap.Error(err))

	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}

	vec, err = r.next.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding failed after retry: %w", err)
	}
	return vec, nil
}
