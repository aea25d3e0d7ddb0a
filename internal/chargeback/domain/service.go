package domain

import (
	"context"
	"errors"
)

type Service interface {
	Compute(ctx context.Context, period string) (Report, error)
}

// ErrStoreUnavailable signals that the backing store failed mid-run. The
// run produces no partial report.
var ErrStoreUnavailable = errors.New("store_unavailable")
