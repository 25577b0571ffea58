// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"context"
	"errors"
	"sync"

	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/tally"
)

// Remote is the server side of a mutation, supplied by the transport.
// Execute performs exactly one network attempt and returns the
// authoritative entity on success. Conflict-class failures (stale
// version, rejected validation) surface as *models.ConflictError or
// *models.ValidationError; anything else is a generic error.
type Remote interface {
	Execute(ctx context.Context, m Mutation) (any, error)
	FetchSnapshot(ctx context.Context) (models.ProjectSnapshot, error)
}

// Mutation is one local change intent. Apply mutates the cached snapshot
// speculatively; Commit installs the authoritative server copy after a
// successful round trip.
type Mutation interface {
	// EntityKey identifies the entity this mutation targets. Attempts
	// against the same key supersede each other; attempts against
	// different keys are independent.
	EntityKey() string

	Apply(snap *models.ProjectSnapshot)
	Commit(snap *models.ProjectSnapshot, authoritative any)
}

// Hooks notify the caller about attempt outcomes. All hooks are
// optional. Settled always runs once per attempt, whatever the outcome,
// for cleanup such as releasing UI busy state.
type Hooks struct {
	OnConflict func(err error)
	OnError    func(err error)
	OnSettled  func()
}

// Cache holds the client's local copy of a project snapshot plus the
// tallies derived from it.
type Cache struct {
	mu       sync.Mutex
	snap     models.ProjectSnapshot
	tallies  tally.Summary
	attempts map[string]uint64
}

// NewCache seeds a cache from a fetched snapshot.
func NewCache(snap models.ProjectSnapshot) *Cache {
	c := &Cache{
		snap:     snap.Clone(),
		attempts: make(map[string]uint64),
	}
	c.recomputeLocked()
	return c
}

// Snapshot returns a copy of the current local state.
func (c *Cache) Snapshot() models.ProjectSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// Tallies returns the aggregates derived from the current local state.
func (c *Cache) Tallies() tally.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tallies
}

// Replace installs an authoritative snapshot, e.g. after a refetch.
func (c *Cache) Replace(snap models.ProjectSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = snap.Clone()
	c.recomputeLocked()
}

func (c *Cache) recomputeLocked() {
	c.tallies = tally.Compute(c.snap.Candidates, c.snap.Participants, c.snap.Responses)
}

// Executor applies mutations optimistically against a Cache and
// reconciles them with a Remote.
type Executor struct {
	cache  *Cache
	remote Remote
	hooks  Hooks
}

// NewExecutor wires an executor to its cache and remote.
func NewExecutor(cache *Cache, remote Remote, hooks Hooks) *Executor {
	return &Executor{cache: cache, remote: remote, hooks: hooks}
}

// Do runs one mutation attempt through the full state machine:
// the local cache is mutated synchronously before the network call, an
// undo snapshot is captured, and exactly one remote attempt is made.
// Success installs the authoritative entity; a conflict rolls back,
// notifies, and resynchronizes from a full snapshot fetch; any other
// failure rolls back and notifies without resynchronizing. An attempt
// superseded by a newer one for the same entity never touches the cache
// again. Do never retries; retry is a caller decision.
func (e *Executor) Do(ctx context.Context, m Mutation) error {
	if e.hooks.OnSettled != nil {
		defer e.hooks.OnSettled()
	}

	key := m.EntityKey()

	// applying-local
	c := e.cache
	c.mu.Lock()
	undo := c.snap.Clone()
	m.Apply(&c.snap)
	c.recomputeLocked()
	c.attempts[key]++
	attempt := c.attempts[key]
	c.mu.Unlock()

	// awaiting-remote
	authoritative, err := e.remote.Execute(ctx, m)
	if err == nil {
		c.mu.Lock()
		if c.attempts[key] == attempt {
			m.Commit(&c.snap, authoritative)
			c.recomputeLocked()
		}
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	if c.attempts[key] == attempt {
		c.snap = undo
		c.recomputeLocked()
	}
	c.mu.Unlock()

	if isConflict(err) {
		if e.hooks.OnConflict != nil {
			e.hooks.OnConflict(err)
		}
		e.resync(ctx, key, attempt)
		return err
	}

	if e.hooks.OnError != nil {
		e.hooks.OnError(err)
	}
	return err
}

// resync refetches the authoritative snapshot after a conflict. A stale
// local version is never retried blindly; the refreshed snapshot gives
// the caller current versions to build the next attempt from.
func (e *Executor) resync(ctx context.Context, key string, attempt uint64) {
	snap, err := e.remote.FetchSnapshot(ctx)
	if err != nil {
		return
	}
	c := e.cache
	c.mu.Lock()
	if c.attempts[key] == attempt {
		c.snap = snap.Clone()
		c.recomputeLocked()
	}
	c.mu.Unlock()
}

func isConflict(err error) bool {
	var ce *models.ConflictError
	var ve *models.ValidationError
	return errors.As(err, &ce) || errors.As(err, &ve)
}
