// Package store provides paginated access to the remote group collection.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aydeggy-dot/proximity/internal/groups"
)

// Page is one page of groups together with the cursor for the following page.
// NextCursor is opaque: callers pass it back unmodified to continue, and an
// empty cursor always means "from the start".
type Page struct {
	Groups     []groups.Group
	NextCursor string
}

// Store is a read-only, cursor-paginated view over the group collection.
type Store interface {
	// FetchPage returns up to pageSize groups starting after the given
	// cursor. Fetching with a given cursor is idempotent.
	FetchPage(ctx context.Context, pageSize int, cursor string) (Page, error)
}

// ErrBadCursor indicates a cursor that this store did not produce, such as a
// token reused across stores. This is misuse, not a runtime condition.
var ErrBadCursor = errors.New("malformed page cursor")

// FetchError is a store failure normalized for the retrieval layer.
type FetchError struct {
	Retriable bool
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NormalizeError wraps any store failure into a FetchError. Errors that are
// already normalized pass through; cursor misuse stays non-retriable, while
// everything else (network, timeout, quota) is treated as transient.
func NormalizeError(err error) *FetchError {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	if errors.Is(err, ErrBadCursor) {
		return &FetchError{Retriable: false, Err: err}
	}
	return &FetchError{Retriable: true, Err: err}
}
