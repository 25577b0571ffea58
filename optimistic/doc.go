// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package optimistic is the client-side executor for speculative mutations.

A mutation attempt walks a fixed state machine:

	idle → applying-local → awaiting-remote → {success | conflict | error} → settled

applying-local mutates the cached snapshot synchronously and captures an
undo snapshot before any network traffic, keeping the UI responsive.
awaiting-remote performs exactly one network attempt. On success the
speculative entity is replaced by the authoritative server copy and
tallies recompute. On a conflict (server 409/422) the undo snapshot is
restored, observers are notified, and a full resynchronization fetch
replaces the local state; a stale version is never retried blindly. On
any other error the undo snapshot is restored without resynchronizing.
The settled hook always runs.

Concurrent attempts against different entities are independent; attempts
against the same entity supersede each other, and a superseded attempt
never touches the cache again. There is no client-side serialization of
same-entity mutations: the server's version gate is the sole correctness
boundary, and the loser of a race conflicts and resynchronizes.
*/
package optimistic
