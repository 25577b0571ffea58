// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package validate normalizes and rejects malformed entity payloads before
they reach the store.

Each entity kind has one validation function returning nil or a
*models.ValidationError naming the offending fields. Structural
validation always runs before any version check, so a malformed payload
is reported as a validation error even when its version is also stale.
*/
package validate
