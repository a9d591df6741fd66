package repository

import (
	"context"
	"errors"

	"github.com/tinoosan/fanbase/internal/errs"
)

// ErrSkipped marks batch items that were not attempted because an earlier item failed.
var ErrSkipped = errors.New("skipped")

// BatchItem is the outcome for one id in a batch call.
type BatchItem struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`

	err error
}

// Err returns the underlying failure, if any.
func (b BatchItem) Err() error { return b.err }

// BatchResult lists every requested id in request order.
type BatchResult []BatchItem

// Failed returns the first failed item, if any.
func (r BatchResult) Failed() (BatchItem, bool) {
	for _, it := range r {
		if !it.OK {
			return it, true
		}
	}
	return BatchItem{}, false
}

// Succeeded counts committed items.
func (r BatchResult) Succeeded() int {
	n := 0
	for _, it := range r {
		if it.OK {
			n++
		}
	}
	return n
}

// RunBatch applies fn to each id in order and stops at the first failure.
// Items already applied stay applied; the rest are reported as skipped.
func RunBatch(ctx context.Context, ids []int64, fn func(ctx context.Context, index int, id int64) error) BatchResult {
	out := make(BatchResult, 0, len(ids))
	failed := false
	for i, id := range ids {
		if failed {
			out = append(out, BatchItem{ID: id, Error: ErrSkipped.Error(), err: ErrSkipped})
			continue
		}
		if err := ctx.Err(); err != nil {
			failed = true
			out = append(out, BatchItem{ID: id, Error: err.Error(), err: err})
			continue
		}
		if err := fn(ctx, i, id); err != nil {
			failed = true
			out = append(out, BatchItem{ID: id, Error: itemMessage(err), err: err})
			continue
		}
		out = append(out, BatchItem{ID: id, OK: true})
	}
	return out
}

// itemMessage keeps store details out of per-item errors.
func itemMessage(err error) string {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return "not found"
	case errs.KindValidation, errs.KindForbidden:
		return err.Error()
	default:
		return "failed"
	}
}
