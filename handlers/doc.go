// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

Handlers are grouped by concern, each a struct with injected
dependencies:

  - ProjectHandler: project creation, snapshot, tallies, meta
  - CandidateHandler: candidate CRUD and reordering
  - ParticipantHandler: participant CRUD and reordering
  - ResponseHandler: response create/update/delete
  - ShareHandler: share-token generate/rotate/invalidate
  - CalendarHandler: ICS export and two-phase import

Projects are addressed by opaque share tokens in the URL. Organizer
operations require the admin token; participant-facing operations accept
either kind. Store errors map to HTTP statuses in one place
(writeStoreError): validation 422, conflict 409 with the authoritative
entity in the body, not-found 404.
*/
package handlers
