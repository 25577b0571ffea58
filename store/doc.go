// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the authoritative, versioned, in-memory project store.

# Contract

Every mutating operation on candidates, participants, responses, project
meta, and share tokens is gated by an expected version:

  - a missing or non-positive expected version is a ValidationError
    (field "version")
  - an expected version that does not equal the entity's current version
    is a ConflictError carrying the authoritative current copy, so the
    caller resynchronizes without a second read
  - on success the entity's version increments by exactly 1, updatedAt
    refreshes, and the surrounding collection counters bump

Creates take no expected version; a caller-supplied id colliding with an
existing entity conflicts, with the existing entity as "latest".
Structural validation always precedes the version check, so malformed
payloads report as validation errors even when the version is also
stale. Reads never take a version and return every current counter.

Deleting a candidate or participant removes all responses referencing it
within the same atomic operation; partial cascades are never observable.

# Concurrency

The store is pure in-memory, volatile, process-lifetime state. One mutex
serializes all operations; each runs to completion without interleaving,
which is what the version checks rely on. No operation touches I/O.
Everything returned to callers is a deep copy detached from store-owned
memory.
*/
package store
