// Package query is the client-side cache between the page controllers and
// the resource clients. Queries are keyed by resource name plus an optional
// ID; mutations invalidate keys through an explicit dependency table so the
// coupling never hides in naming conventions. There is no optimistic-update
// path: the UI only ever reflects confirmed server state.
package query

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"ourtime/internal/logging"
)

// Key identifies a query: a resource name, optionally parameterized by an
// entity ID (ID zero means unparameterized).
type Key struct {
	Resource string
	ID       int64
}

// K builds an unparameterized key.
func K(resource string) Key { return Key{Resource: resource} }

// KID builds an ID-parameterized key.
func KID(resource string, id int64) Key { return Key{Resource: resource, ID: id} }

func (k Key) String() string {
	if k.ID == 0 {
		return k.Resource
	}
	return fmt.Sprintf("%s/%d", k.Resource, k.ID)
}

// Resource names used across the client.
const (
	ResMemories    = "memories"
	ResMemory      = "memory"
	ResComments    = "comments"
	ResGroups      = "groups"
	ResInvitations = "invitations"
	ResProfile     = "profile"
)

// FetchFunc loads fresh data for a query.
type FetchFunc func(ctx context.Context) (interface{}, error)

// QueryOption configures a registered query.
type QueryOption func(*state)

// EnabledIf attaches a guard. While the guard returns false the query is
// inert: Get returns no data and no fetch is issued.
func EnabledIf(guard func() bool) QueryOption {
	return func(s *state) { s.guard = guard }
}

// NoRetry opts the query out of the process-wide single read retry.
// The profile query uses this so an anonymous session fails fast.
func NoRetry() QueryOption {
	return func(s *state) { s.noRetry = true }
}

type state struct {
	fetch   FetchFunc
	guard   func() bool
	noRetry bool

	data    interface{}
	hasData bool
	stale   bool
	lastErr error
}

// Cache is the query/mutation cache. Safe for use from the concurrent
// command goroutines a Bubble Tea program spawns.
type Cache struct {
	mu          sync.Mutex
	queries     map[Key]*state
	flight      singleflight.Group
	subscribers []func(Key)
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{queries: make(map[Key]*state)}
}

// Register declares a query under key. Re-registering replaces the fetcher
// and options but keeps any cached data, so page remounts stay cheap.
func (c *Cache) Register(key Key, fetch FetchFunc, opts ...QueryOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.queries[key]
	if !ok {
		s = &state{}
		c.queries[key] = s
	}
	s.fetch = fetch
	s.guard = nil
	s.noRetry = false
	for _, opt := range opts {
		opt(s)
	}
}

// Subscribe registers a notifier called (on the invalidating goroutine)
// whenever a key becomes stale. Consumers respond by re-issuing Get.
func (c *Cache) Subscribe(fn func(Key)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// Get returns the data for key, fetching when the cache is empty or stale.
// An unregistered or guard-inert query returns (nil, nil) — no data, no
// error, nothing on the wire. Concurrent Gets for the same key share one
// in-flight fetch.
func (c *Cache) Get(ctx context.Context, key Key) (interface{}, error) {
	c.mu.Lock()
	s, ok := c.queries[key]
	if !ok || (s.guard != nil && !s.guard()) {
		c.mu.Unlock()
		return nil, nil
	}
	if s.hasData && !s.stale {
		data := s.data
		c.mu.Unlock()
		return data, nil
	}
	fetch := s.fetch
	noRetry := s.noRetry
	c.mu.Unlock()

	data, err, _ := c.flight.Do(key.String(), func() (interface{}, error) {
		return c.runFetch(ctx, key, fetch, noRetry)
	})
	return data, err
}

// runFetch executes the fetch with the process-wide single fixed retry for
// reads, then stores the result. On error the previously cached data stays
// untouched.
func (c *Cache) runFetch(ctx context.Context, key Key, fetch FetchFunc, noRetry bool) (interface{}, error) {
	data, err := fetch(ctx)
	if err != nil && !noRetry && ctx.Err() == nil {
		logging.CacheDebug("retrying %s after error: %v", key, err)
		data, err = fetch(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.queries[key]
	if !ok {
		// Unregistered mid-flight (page torn down); discard silently.
		return data, err
	}
	if err != nil {
		s.lastErr = err
		logging.Cache("fetch %s failed: %v", key, err)
		if s.hasData {
			// Stale data is better than no data while the error is toasted.
			return s.data, err
		}
		return nil, err
	}
	s.data = data
	s.hasData = true
	s.stale = false
	s.lastErr = nil
	return data, nil
}

// Invalidate marks keys stale and notifies subscribers so dependent
// consumers refetch. Unknown keys are ignored.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	var notify []Key
	for _, key := range keys {
		if s, ok := c.queries[key]; ok {
			s.stale = true
			notify = append(notify, key)
		}
	}
	subs := make([]func(Key), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, key := range notify {
		logging.CacheDebug("invalidated %s", key)
		for _, fn := range subs {
			fn(key)
		}
	}
}

// Peek returns cached data without fetching. ok is false when nothing is
// cached (stale data still returns true; it remains displayable).
func (c *Cache) Peek(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.queries[key]
	if !ok || !s.hasData {
		return nil, false
	}
	return s.data, true
}

// Drop forgets a query entirely: data, registration, everything.
func (c *Cache) Drop(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.queries, key)
}

// As converts a cached payload to its concrete type, tolerating nil.
func As[T any](data interface{}) (T, bool) {
	var zero T
	if data == nil {
		return zero, false
	}
	v, ok := data.(T)
	return v, ok
}
