// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment variable fallback.

Settings:

  - PORT (-p): server port (default: 3320)
  - BASE_URL (-b): trusted base URL for constructed share links; required
  - DEFAULT_TIMEZONE (--tz): default project time zone (default: Asia/Tokyo)
*/
package cliparse
