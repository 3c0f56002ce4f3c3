package store

import (
	"context"
	"sync"
)

// MockStore is a scriptable implementation of Store for testing
type MockStore struct {
	mu             sync.Mutex
	FetchPageFunc  func(ctx context.Context, pageSize int, cursor string) (Page, error)
	FetchCallCount int
	FetchCalls     []FetchCall
}

// FetchCall records a call to FetchPage
type FetchCall struct {
	PageSize int
	Cursor   string
}

// NewMockStore creates a new mock store that returns empty pages by default
func NewMockStore() *MockStore {
	return &MockStore{
		FetchPageFunc: func(_ context.Context, _ int, _ string) (Page, error) {
			return Page{}, nil
		},
		FetchCalls: make([]FetchCall, 0),
	}
}

// FetchPage implements the Store interface
func (m *MockStore) FetchPage(ctx context.Context, pageSize int, cursor string) (Page, error) {
	m.mu.Lock()
	m.FetchCallCount++
	m.FetchCalls = append(m.FetchCalls, FetchCall{PageSize: pageSize, Cursor: cursor})
	fn := m.FetchPageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, pageSize, cursor)
	}
	return Page{}, nil
}

// CallCount returns the number of FetchPage calls made so far
func (m *MockStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCallCount
}
