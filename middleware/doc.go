// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: structured request/completion logging via log/slog
  - JSONResponse / ErrorResponse: JSON encoding helpers
  - ParseJSONBody: request body decoding
  - CORS: cross-origin support for the web frontend
*/
package middleware
