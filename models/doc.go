// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API,
plus the error taxonomy shared by the store and the HTTP layer.

# Domain Types

  - ProjectMeta: project name, description, default time zone
  - Candidate: a proposed meeting slot with calendar fields (UID,
    SEQUENCE, DTSTAMP) alongside its entity fields
  - Participant: display name, optional email, comment, access token
  - Response: one participant's mark (o/d/x) for one candidate,
    identified by the (participant, candidate) pair
  - ShareTokens: the admin and participant capability tokens
  - ProjectSnapshot: full project state plus every version counter

Every mutable entity carries a monotonically increasing Version integer,
starting at 1 on creation. The Versions struct collects all counters so
a single snapshot read is enough to target subsequent writes.

# Errors

Three error types cover every failure the store produces:

  - ValidationError: malformed or missing field; names the field(s)
  - ConflictError: stale expected version or duplicate identity; carries
    the authoritative current copy in Latest
  - NotFoundError: reference to an entity id that does not exist

The HTTP layer maps them to 422, 409, and 404 respectively.

# Constants

Marks:

	MarkAttend  = "o"
	MarkMaybe   = "d"
	MarkDecline = "x"

Candidate status (iCalendar STATUS values):

	StatusConfirmed = "CONFIRMED"
	StatusTentative = "TENTATIVE"
	StatusCancelled = "CANCELLED"

Participant status:

	ParticipantActive   = "active"
	ParticipantArchived = "archived"
*/
package models
