// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ics

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/emersion/go-ical"

	"github.com/ktanabe/meetslot/models"
)

// PropTimeZoneID is the vendor extension carrying the organizer's named
// time zone. Start/end are exported as UTC instants, which would
// otherwise lose the intended local zone.
const PropTimeZoneID = "X-MEETSLOT-TZID"

const productID = "-//MeetSlot//MeetSlot Server//EN"

// Encode serializes candidates into a single iCalendar document, one
// VEVENT per candidate in list order. dtstamp is the document-generation
// timestamp, shared across all events of one export. Candidates carry
// their own SEQUENCE values; the store bumps them before each export.
func Encode(candidates []models.Candidate, dtstamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, c := range candidates {
		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, c.CalendarUID)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, dtstamp.UTC())

		seq := ical.NewProp(ical.PropSequence)
		seq.Value = strconv.Itoa(c.Sequence)
		ev.Props.Set(seq)

		if c.Start != nil {
			ev.Props.SetDateTime(ical.PropDateTimeStart, c.Start.UTC())
		}
		if c.End != nil {
			ev.Props.SetDateTime(ical.PropDateTimeEnd, c.End.UTC())
		}
		if c.Status != "" {
			ev.Props.SetText(ical.PropStatus, c.Status)
		}
		ev.Props.SetText(ical.PropSummary, c.Summary)
		if c.Location != "" {
			ev.Props.SetText(ical.PropLocation, c.Location)
		}
		if c.Description != "" {
			ev.Props.SetText(ical.PropDescription, c.Description)
		}
		if c.TimeZone != "" {
			tz := ical.NewProp(PropTimeZoneID)
			tz.Value = c.TimeZone
			ev.Props.Set(tz)
		}

		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
