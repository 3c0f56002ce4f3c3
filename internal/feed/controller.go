// Package feed provides the paginated nearby-group retrieval controller.
//
// A Controller owns one incrementally loaded sequence of groups fetched from
// a Store, ranked by distance from the reference location when one is
// available. Controllers are instance-scoped: each screen or query owns its
// own, and independent controllers never share state.
package feed

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"github.com/aydeggy-dot/proximity/internal/geo"
	"github.com/aydeggy-dot/proximity/internal/groups"
	"github.com/aydeggy-dot/proximity/internal/location"
	"github.com/aydeggy-dot/proximity/internal/logging"
	"github.com/aydeggy-dot/proximity/internal/store"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 20

// Controller retrieves pages of groups from a store and exposes the
// accumulated, distance-ranked sequence together with loading, error and
// exhaustion state. Store failures never escape its methods; they are
// surfaced through Err so the caller can offer a retry.
//
// Ranking is applied per fetched page: once several pages have been
// appended, the accumulated sequence is not globally ordered by distance.
// That matches the product behavior (already-rendered rows never jump
// around); WithGlobalRerank switches to re-ranking the whole sequence after
// every append for callers that want the global order instead.
type Controller struct {
	store        store.Store
	provider     location.Provider
	pageSize     int
	globalRerank bool
	logLevel     logging.LogLevel

	mu      sync.Mutex
	gen     int
	closed  bool
	loading bool
	items   []groups.RankedGroup
	cursor  string
	hasMore bool
	lastErr error
}

// Option is a function that configures a Controller
type Option func(*Controller)

// WithPageSize sets the number of groups requested per fetch
func WithPageSize(pageSize int) Option {
	return func(c *Controller) {
		c.pageSize = pageSize
	}
}

// WithLocationProvider sets the reference-location collaborator
func WithLocationProvider(provider location.Provider) Option {
	return func(c *Controller) {
		c.provider = provider
	}
}

// WithGlobalRerank re-ranks the entire accumulated sequence after every
// append, trading stable row positions for a globally consistent distance
// order.
func WithGlobalRerank() Option {
	return func(c *Controller) {
		c.globalRerank = true
	}
}

// WithLogLevel sets the log level for the controller
func WithLogLevel(logLevel logging.LogLevel) Option {
	return func(c *Controller) {
		c.logLevel = logLevel
	}
}

// New creates a Controller over the given store. A non-positive page size or
// a nil store is misuse and rejected outright.
func New(st store.Store, opts ...Option) (*Controller, error) {
	if st == nil {
		return nil, errors.New("store must not be nil")
	}

	c := &Controller{
		store:    st,
		pageSize: DefaultPageSize,
		logLevel: logging.LogLevelError,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pageSize <= 0 {
		return nil, errors.New("page size must be positive")
	}

	return c, nil
}

// Refresh discards the cursor and performs a fresh initial load, replacing
// the displayed sequence on success. A refresh issued while another fetch is
// in flight supersedes it: the superseded fetch's result is discarded when
// it resolves. On failure the previously displayed groups are kept and the
// error is recorded.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.loading = true
	c.lastErr = nil
	pageSize := c.pageSize
	c.mu.Unlock()

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Refreshing group feed (page size %d)", pageSize)
	}

	page, err := c.store.FetchPage(ctx, pageSize, "")

	var reference *geo.Coordinate
	if err == nil {
		reference = c.resolveReference(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		if c.logLevel <= logging.LogLevelDebug {
			log.Printf("Discarding superseded refresh result")
		}
		return
	}

	c.loading = false

	if err != nil {
		c.lastErr = store.NormalizeError(err)
		if c.logLevel <= logging.LogLevelError {
			log.Printf("Refresh failed, keeping %d displayed groups: %v", len(c.items), err)
		}
		return
	}

	c.items = rankPage(page.Groups, reference)
	c.cursor = page.NextCursor
	c.hasMore = len(page.Groups) >= pageSize
	c.lastErr = nil

	if c.logLevel <= logging.LogLevelInfo {
		log.Printf("Refreshed group feed: %d groups, hasMore=%v", len(c.items), c.hasMore)
	}
}

// LoadMore fetches the next page and appends it to the displayed sequence.
// The call is dropped, without issuing a store request, when the feed is
// exhausted or another fetch is already in flight; callers retry after the
// loading flag clears. Dropped means dropped, not queued.
func (c *Controller) LoadMore(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.loading || !c.hasMore {
		c.mu.Unlock()
		if c.logLevel <= logging.LogLevelDebug {
			log.Printf("Dropping loadMore call (in flight or exhausted)")
		}
		return
	}
	gen := c.gen
	c.loading = true
	c.lastErr = nil
	cursor := c.cursor
	pageSize := c.pageSize
	c.mu.Unlock()

	if c.logLevel <= logging.LogLevelDebug {
		log.Printf("Loading next page of %d groups", pageSize)
	}

	page, err := c.store.FetchPage(ctx, pageSize, cursor)

	var reference *geo.Coordinate
	if err == nil {
		reference = c.resolveReference(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		if c.logLevel <= logging.LogLevelDebug {
			log.Printf("Discarding superseded loadMore result")
		}
		return
	}

	c.loading = false

	if err != nil {
		c.lastErr = store.NormalizeError(err)
		if c.logLevel <= logging.LogLevelError {
			log.Printf("LoadMore failed, keeping %d displayed groups: %v", len(c.items), err)
		}
		return
	}

	c.items = append(c.items, rankPage(page.Groups, reference)...)
	if c.globalRerank && reference != nil {
		c.items = rerankAll(c.items, *reference)
	}
	c.cursor = page.NextCursor
	c.hasMore = len(page.Groups) >= pageSize
	c.lastErr = nil

	if c.logLevel <= logging.LogLevelInfo {
		log.Printf("Appended %d groups, feed now has %d, hasMore=%v", len(page.Groups), len(c.items), c.hasMore)
	}
}

// Close disposes the controller. In-flight fetches resolve without applying
// their results, and subsequent Refresh and LoadMore calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
}

// Groups returns a copy of the accumulated ranked sequence.
func (c *Controller) Groups() []groups.RankedGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]groups.RankedGroup, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether a fetch is currently in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// HasMore reports whether another page is expected to exist.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Err returns the error recorded by the most recent failed fetch, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// resolveReference asks the location provider for the current reference
// point. Any provider failure, permission denial included, degrades to "no
// location": the page is then kept in raw store order.
func (c *Controller) resolveReference(ctx context.Context) *geo.Coordinate {
	if c.provider == nil {
		return nil
	}

	coord, err := c.provider.Current(ctx)
	if err != nil {
		if errors.Is(err, location.ErrPermissionDenied) {
			if c.logLevel <= logging.LogLevelDebug {
				log.Printf("Location permission denied, using raw store order")
			}
		} else if c.logLevel <= logging.LogLevelWarning {
			log.Printf("Location provider failed, using raw store order: %v", err)
		}
		return nil
	}

	return coord
}

// rankPage ranks one fetched page against the reference, or preserves raw
// store order when no reference is available.
func rankPage(grps []groups.Group, reference *geo.Coordinate) []groups.RankedGroup {
	if reference != nil {
		return groups.RankByDistance(grps, *reference)
	}

	ranked := make([]groups.RankedGroup, len(grps))
	for i, g := range grps {
		ranked[i] = groups.RankedGroup{Group: g, Distance: math.Inf(1)}
	}
	return ranked
}

// rerankAll re-ranks the accumulated sequence as a whole.
func rerankAll(items []groups.RankedGroup, reference geo.Coordinate) []groups.RankedGroup {
	raw := make([]groups.Group, len(items))
	for i, item := range items {
		raw[i] = item.Group
	}
	return groups.RankByDistance(raw, reference)
}
