// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally derives per-candidate and per-participant response
aggregates.

The aggregation is a pure function of (candidates, participants,
responses); it carries no version and is never independently persisted,
so it cannot drift from its source. Both the server store and the
client-side cache recompute it after any mutation touching membership.
*/
package tally
