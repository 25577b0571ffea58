// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the MeetSlot API server.

MeetSlot is a meeting-slot coordination service: an organizer publishes
candidate time slots, participants mark each slot attend / maybe / decline,
and the service tallies availability. Candidate slots round-trip through
iCalendar for exchange with external calendar apps.

# Starting the Server

The server requires a base URL, via environment variable or CLI flag:

	BASE_URL=https://meet.example.com go run main.go

Or with flags:

	go run main.go -p 3320 -b "https://meet.example.com"

# Configuration

Required settings:

  - BASE_URL (-b): Trusted base for constructed share URLs

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - DEFAULT_TIMEZONE (-tz): Fallback IANA zone (default: Asia/Tokyo)

A .env file in the working directory is loaded at startup if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (projects, candidates, participants, responses, share, calendar)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain entities, request/response types, error taxonomy
  - store: In-memory versioned project state, the sole mutation authority
  - tally: Availability aggregation
  - ics: iCalendar export and two-phase import
  - auth: Share token generation and URL construction
  - optimistic: Client-side optimistic mutation executor
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
