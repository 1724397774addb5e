package rolekitclient

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot is the current state of a Watch: the loading/error/data triplet
// plus when the data was fetched.
type Snapshot[T any] struct {
	Data      T
	Err       error
	Loading   bool
	FetchedAt time.Time
}

// HasData reports whether the snapshot carries a successful fetch.
func (s Snapshot[T]) HasData() bool {
	return !s.FetchedAt.IsZero()
}

// Watch binds state to one endpoint. Refresh re-runs the underlying call;
// Snapshot exposes the triplet; Get returns fresh-enough data without a
// round-trip when possible. Concurrent refreshes collapse into a single
// upstream call, and the last successful fetch is cached under the watch
// key with the client's TTL.
//
// A failed refresh keeps the previous data and records the error, so
// consumers can keep rendering stale data alongside the failure.
type Watch[T any] struct {
	client *Client
	key    string
	fetch  func(context.Context) (T, error)

	mu      sync.RWMutex
	snap    Snapshot[T]
	group   singleflight.Group
	subs    map[int]chan Snapshot[T]
	nextSub int
}

// cacheEntry is what a watch stores in the client cache: the value plus
// when it was fetched, so a seeded watch inherits the remaining freshness
// instead of restarting the TTL clock.
type cacheEntry[T any] struct {
	data      T
	fetchedAt time.Time
}

// newWatch builds a Watch over fetch, seeding it from the client's cache
// if an earlier watch with the same key stored a value.
func newWatch[T any](c *Client, key string, fetch func(context.Context) (T, error)) *Watch[T] {
	w := &Watch[T]{
		client: c,
		key:    key,
		fetch:  fetch,
		subs:   make(map[int]chan Snapshot[T]),
	}
	if v, ok := c.cache.Get(key); ok {
		if entry, ok := v.(cacheEntry[T]); ok {
			w.snap = Snapshot[T]{Data: entry.data, FetchedAt: entry.fetchedAt}
		}
	}
	return w
}

// Snapshot returns the current state triplet.
func (w *Watch[T]) Snapshot() Snapshot[T] {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Refresh re-runs the underlying call and updates the snapshot. Concurrent
// calls share one upstream request and all receive its result. The shared
// request runs on the context of the caller that started it; a waiter
// whose own context is done stops waiting with that context's error, while
// the in-flight call continues and its result still lands in the snapshot.
func (w *Watch[T]) Refresh(ctx context.Context) (T, error) {
	w.mu.Lock()
	w.snap.Loading = true
	snap := w.snap
	w.mu.Unlock()
	w.publish(snap)

	ch := w.group.DoChan(w.key, func() (any, error) {
		data, err := w.fetch(ctx)
		w.finish(data, err)
		return data, err
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			// Keep serving the previous data alongside the error.
			return w.Snapshot().Data, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// finish records the outcome of a fetch. It runs inside the singleflight
// call so the snapshot settles exactly once per flight, even when every
// caller has already gone away.
func (w *Watch[T]) finish(data T, err error) {
	w.mu.Lock()
	w.snap.Loading = false
	if err != nil {
		// Keep the previous data so callers can render stale state.
		w.snap.Err = err
	} else {
		w.snap.Data = data
		w.snap.Err = nil
		w.snap.FetchedAt = time.Now()
		w.client.cache.Set(w.key, cacheEntry[T]{data: data, fetchedAt: w.snap.FetchedAt}, w.client.cacheTTL)
	}
	snap := w.snap
	w.mu.Unlock()
	w.publish(snap)
}

// Get returns the cached data when it is still fresh, refreshing
// otherwise.
func (w *Watch[T]) Get(ctx context.Context) (T, error) {
	w.mu.RLock()
	snap := w.snap
	ttl := w.client.cacheTTL
	w.mu.RUnlock()

	if snap.HasData() && snap.Err == nil && time.Since(snap.FetchedAt) < ttl {
		return snap.Data, nil
	}
	return w.Refresh(ctx)
}

// Invalidate drops the cached data so the next Get refreshes.
func (w *Watch[T]) Invalidate() {
	w.mu.Lock()
	w.snap.FetchedAt = time.Time{}
	w.mu.Unlock()
	w.client.cache.Delete(w.key)
}

// Subscribe returns a channel that receives every snapshot transition
// (loading, data, error) and a cancel function that releases it. Slow
// consumers only ever see the most recent snapshot; intermediate ones are
// dropped rather than blocking the watch.
func (w *Watch[T]) Subscribe() (<-chan Snapshot[T], func()) {
	ch := make(chan Snapshot[T], 1)

	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if _, ok := w.subs[id]; ok {
			delete(w.subs, id)
			close(ch)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

// publish pushes a snapshot to subscribers, replacing any undelivered one.
func (w *Watch[T]) publish(snap Snapshot[T]) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// ============================================================================
// WATCH CONSTRUCTORS
// ============================================================================

// WatchRoles binds state to the role list endpoint.
func (c *Client) WatchRoles(filter ListFilter) *Watch[Page[Role]] {
	key := "roles?" + filter.Values().Encode()
	return newWatch(c, key, func(ctx context.Context) (Page[Role], error) {
		return c.ListRoles(ctx, filter)
	})
}

// WatchPermissions binds state to the permission list endpoint.
func (c *Client) WatchPermissions(filter ListFilter) *Watch[Page[Permission]] {
	key := "permissions?" + filter.Values().Encode()
	return newWatch(c, key, func(ctx context.Context) (Page[Permission], error) {
		return c.ListPermissions(ctx, filter)
	})
}

// WatchMenus binds state to the menu tree endpoint.
func (c *Client) WatchMenus() *Watch[[]Menu] {
	return newWatch(c, "menus", func(ctx context.Context) ([]Menu, error) {
		return c.ListMenus(ctx)
	})
}

// WatchURLRules binds state to the URL rule list endpoint.
func (c *Client) WatchURLRules(filter ListFilter) *Watch[Page[URLRule]] {
	key := "rules?" + filter.Values().Encode()
	return newWatch(c, key, func(ctx context.Context) (Page[URLRule], error) {
		return c.ListURLRules(ctx, filter)
	})
}

// WatchCheckLogs binds state to the check log endpoint.
func (c *Client) WatchCheckLogs(filter CheckLogFilter) *Watch[Page[CheckLog]] {
	key := "logs/checks?" + filter.Values().Encode()
	return newWatch(c, key, func(ctx context.Context) (Page[CheckLog], error) {
		return c.ListCheckLogs(ctx, filter)
	})
}

// WatchAccess binds state to a user's access snapshot.
func (c *Client) WatchAccess(userID string) *Watch[UserAccess] {
	return newWatch(c, "users/"+userID+"/access", func(ctx context.Context) (UserAccess, error) {
		return c.Access(ctx, userID)
	})
}

// WatchUserPermissions binds state to the permission patterns a user's
// roles grant.
func (c *Client) WatchUserPermissions(userID string) *Watch[[]string] {
	return newWatch(c, "users/"+userID+"/permissions", func(ctx context.Context) ([]string, error) {
		return c.UserPermissions(ctx, userID)
	})
}
