// pkg/transfer/clear.go
package transfer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/connector"
)

// ClearState is a step of the bulk clear
type ClearState int

const (
	ClearCounting ClearState = iota
	ClearPagingDelete
	ClearDone
)

func (s ClearState) String() string {
	switch s {
	case ClearCounting:
		return "counting"
	case ClearPagingDelete:
		return "paging-delete"
	default:
		return "done"
	}
}

var errNoProgress = errors.New("delete removed no rows from a non-empty page")

// Clearer empties a table page by page
type Clearer struct {
	store    connector.RowStore
	pageSize int
	logger   *zap.Logger
}

// NewClearer creates a Clearer deleting pageSize ids per call
func NewClearer(store connector.RowStore, pageSize int, logger *zap.Logger) *Clearer {
	if pageSize <= 0 {
		pageSize = 1000
	}
	if logger == nil {
		logger = zap.L()
	}
	return &Clearer{store: store, pageSize: pageSize, logger: logger.Named("clear")}
}

// Clear counts the rows of table, then selects and deletes pages of ids until
// a page comes back empty or short. Any failure returns a *ClearError and the
// table must be treated as partially cleared.
func (c *Clearer) Clear(ctx context.Context, table string) (int64, error) {
	state := ClearCounting
	var deleted int64

	fail := func(err error) (int64, error) {
		return deleted, &ClearError{Table: table, State: state, Deleted: deleted, Err: err}
	}

	existing, err := c.store.Count(ctx, table, nil)
	if err != nil {
		return fail(err)
	}
	c.logger.Info("Clearing table", zap.String("table", table), zap.Int64("existing", existing))
	if existing == 0 {
		return 0, nil
	}

	state = ClearPagingDelete
	for state == ClearPagingDelete {
		page, err := c.store.Select(ctx, table, []string{"id"}, nil, c.pageSize)
		if err != nil {
			return fail(err)
		}
		if len(page) == 0 {
			state = ClearDone
			break
		}

		ids := make([]interface{}, 0, len(page))
		for _, row := range page {
			ids = append(ids, row["id"])
		}

		n, err := c.store.Delete(ctx, table, ids)
		if err != nil {
			return fail(err)
		}
		if n == 0 {
			return fail(errNoProgress)
		}
		deleted += n

		c.logger.Debug("Deleted page",
			zap.String("table", table),
			zap.Int64("deleted", deleted),
			zap.Int64("existing", existing))

		if len(page) < c.pageSize {
			state = ClearDone
		}
	}

	c.logger.Info("Cleared table", zap.String("table", table), zap.Int64("deleted", deleted))
	return deleted, nil
}
