package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/aydeggy-dot/proximity/internal/groups"
)

// MemoryStore is a deterministic in-memory Store, used by the CLI and by
// tests. Pages are served in insertion order; the cursor is the id of the
// last returned group.
type MemoryStore struct {
	mu     sync.Mutex
	groups []groups.Group
}

// NewMemoryStore creates a store over a copy of the given groups.
func NewMemoryStore(grps []groups.Group) *MemoryStore {
	copied := make([]groups.Group, len(grps))
	copy(copied, grps)
	return &MemoryStore{groups: copied}
}

// FetchPage implements Store.
func (s *MemoryStore) FetchPage(ctx context.Context, pageSize int, cursor string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, &FetchError{Retriable: true, Err: err}
	}
	if pageSize <= 0 {
		return Page{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0
	if cursor != "" {
		found := false
		for i, g := range s.groups {
			if g.ID == cursor {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return Page{}, &FetchError{Retriable: false, Err: fmt.Errorf("%w: unknown cursor %q", ErrBadCursor, cursor)}
		}
	}

	end := start + pageSize
	if end > len(s.groups) {
		end = len(s.groups)
	}

	var page Page
	if start < end {
		page.Groups = make([]groups.Group, end-start)
		copy(page.Groups, s.groups[start:end])
		page.NextCursor = page.Groups[len(page.Groups)-1].ID
	}

	return page, nil
}
