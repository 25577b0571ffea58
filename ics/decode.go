// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/ktanabe/meetslot/validate"
)

// EventRecord is one parsed VEVENT, normalized for reconciliation.
// Records surviving the parse always carry a UID and a DTStamp.
type EventRecord struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Status      string
	TimeZone    string
	Start       *time.Time
	End         *time.Time
	DTStamp     time.Time
}

// ParseStats counts records dropped during parsing. The import preview
// surfaces them so a human can judge whether the file was truncated.
type ParseStats struct {
	SkippedNoUID     int `json:"skipped_no_uid"`
	SkippedNoDTStamp int `json:"skipped_no_dtstamp"`
}

// Parse decodes an iCalendar document into event records. Events without
// a UID are skipped and counted: there is nothing to reconcile against.
// Events without a DTSTAMP are skipped and counted: the timestamp is
// required to arbitrate freshness. defaultTZ fills in when an event
// carries no zone information or denotes floating time.
func Parse(r io.Reader, defaultTZ string) ([]EventRecord, ParseStats, error) {
	var (
		events []EventRecord
		stats  ParseStats
	)

	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			rec := parseEvent(comp, defaultTZ)
			if rec.UID == "" {
				stats.SkippedNoUID++
				continue
			}
			if rec.DTStamp.IsZero() {
				stats.SkippedNoDTStamp++
				continue
			}
			events = append(events, rec)
		}
	}

	return events, stats, nil
}

func parseEvent(comp *ical.Component, defaultTZ string) EventRecord {
	rec := EventRecord{}

	if p := comp.Props.Get(ical.PropUID); p != nil {
		rec.UID = p.Value
	}
	rec.Summary = textProp(comp, ical.PropSummary)
	rec.Description = textProp(comp, ical.PropDescription)
	rec.Location = textProp(comp, ical.PropLocation)
	if p := comp.Props.Get(ical.PropStatus); p != nil {
		rec.Status = p.Value
	}

	if p := comp.Props.Get(ical.PropDateTimeStamp); p != nil {
		if t, err := p.DateTime(time.UTC); err == nil {
			rec.DTStamp = t
		}
	}

	var tzid string
	if p := comp.Props.Get(ical.PropDateTimeStart); p != nil {
		tzid = p.Params.Get(ical.PropTimezoneID)
		if t, err := p.DateTime(time.UTC); err == nil {
			rec.Start = &t
		}
	}
	if p := comp.Props.Get(ical.PropDateTimeEnd); p != nil {
		if tzid == "" {
			tzid = p.Params.Get(ical.PropTimezoneID)
		}
		if t, err := p.DateTime(time.UTC); err == nil {
			rec.End = &t
		}
	}

	rec.TimeZone = resolveZone(tzid, vendorZone(comp), defaultTZ)
	return rec
}

func textProp(comp *ical.Component, name string) string {
	p := comp.Props.Get(name)
	if p == nil {
		return ""
	}
	if s, err := p.Text(); err == nil {
		return s
	}
	return p.Value
}

func vendorZone(comp *ical.Component) string {
	if p := comp.Props.Get(PropTimeZoneID); p != nil {
		return p.Value
	}
	return ""
}

// resolveZone picks the effective zone: the native TZID parameter wins,
// then the vendor extension, then the configured default. "Floating" or
// unspecified times land on the default too, as does a TZID that is not
// an IANA-style name (Outlook emits labels like "W. Europe Standard
// Time") — otherwise a previewed entry would be rejected at commit.
func resolveZone(tzid, vendor, defaultTZ string) string {
	if usableZone(tzid) {
		return tzid
	}
	if usableZone(vendor) {
		return vendor
	}
	return defaultTZ
}

func usableZone(tz string) bool {
	return tz != "" && !floatingZone(tz) && validate.TimeZoneName(tz)
}

func floatingZone(tz string) bool {
	switch tz {
	case "floating", "FLOATING", "X-MEETSLOT-floating":
		return true
	}
	return false
}
