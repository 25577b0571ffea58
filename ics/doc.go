// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ics maps between candidates and iCalendar documents.

# Export

Encode emits one VEVENT per candidate: UID, per-candidate SEQUENCE,
export-wide DTSTAMP, start/end as UTC instants, STATUS, and escaped
SUMMARY/LOCATION/DESCRIPTION. The named time zone travels in the
X-MEETSLOT-TZID vendor property because a UTC-normalized document loses
the organizer's intended local zone. Encoding is delegated to
github.com/emersion/go-ical, which produces CRLF-joined, folded,
RFC 5545 escaped output that third-party calendar applications accept.

# Import

Parse decodes a document into event records, dropping (and counting)
events without a UID or DTSTAMP. BuildPlan classifies each record
against existing candidates by UID:

  - new:    no candidate with this UID; included by default
  - update: imported DTSTAMP strictly newer; included by default
  - older:  imported DTSTAMP equal or older; excluded by default, the
    caller may force-include

Building a plan never mutates anything. Applying the accepted entries is
the store's CommitImport, a separate explicit step, because imports are
bulk and irreversible and must stay auditable before they take effect.
*/
package ics
