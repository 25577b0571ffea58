// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ics

import (
	"time"

	"github.com/ktanabe/meetslot/models"
)

// Import classifications
const (
	ClassNew    = "new"    // no existing candidate with this UID
	ClassUpdate = "update" // imported DTSTAMP strictly newer than existing
	ClassOlder  = "older"  // imported DTSTAMP equal or older; defaults off
)

// PlanEntry is one reconciliation decision. Include is the default merge
// decision for the entry; a caller may flip "older" entries on before
// committing, or exclude anything.
type PlanEntry struct {
	Classification  string            `json:"classification"`
	UID             string            `json:"uid"`
	ExistingID      string            `json:"existing_id,omitempty"`
	ExistingDTStamp *time.Time        `json:"existing_dtstamp,omitempty"`
	ImportedDTStamp time.Time         `json:"imported_dtstamp"`
	Candidate       models.Candidate  `json:"candidate"`
	Include         bool              `json:"include"`
}

// ImportPlan is the full preview of an import: one entry per reconciled
// event plus counts of unusable records. Building a plan never mutates
// store state; applying it is a separate, explicit commit.
type ImportPlan struct {
	Entries []PlanEntry `json:"entries"`
	Stats   ParseStats  `json:"stats"`
}

// BuildPlan reconciles parsed events against the existing candidates.
// Events sharing a UID within one file are collapsed to the one with the
// newest DTSTAMP before classification, so an older duplicate can never
// be offered over the newer decision.
func BuildPlan(existing []models.Candidate, events []EventRecord) ImportPlan {
	byUID := make(map[string]models.Candidate, len(existing))
	for _, c := range existing {
		byUID[c.CalendarUID] = c
	}

	newest := make(map[string]EventRecord)
	var order []string
	for _, ev := range events {
		cur, seen := newest[ev.UID]
		if !seen {
			order = append(order, ev.UID)
			newest[ev.UID] = ev
			continue
		}
		if ev.DTStamp.After(cur.DTStamp) {
			newest[ev.UID] = ev
		}
	}

	plan := ImportPlan{}
	for _, uid := range order {
		ev := newest[uid]
		entry := PlanEntry{
			UID:             uid,
			ImportedDTStamp: ev.DTStamp,
			Candidate:       candidateFromEvent(ev),
		}

		cur, found := byUID[uid]
		switch {
		case !found:
			entry.Classification = ClassNew
			entry.Include = true
		case ev.DTStamp.After(cur.DTStamp):
			entry.Classification = ClassUpdate
			entry.Include = true
			entry.ExistingID = cur.ID
			ds := cur.DTStamp
			entry.ExistingDTStamp = &ds
		default:
			entry.Classification = ClassOlder
			entry.ExistingID = cur.ID
			ds := cur.DTStamp
			entry.ExistingDTStamp = &ds
		}

		plan.Entries = append(plan.Entries, entry)
	}

	return plan
}

// candidateFromEvent maps an event record onto candidate fields. The id
// is left empty: new candidates get one at commit time, updates keep the
// existing internal identity.
func candidateFromEvent(ev EventRecord) models.Candidate {
	status := ev.Status
	switch status {
	case models.StatusConfirmed, models.StatusTentative, models.StatusCancelled:
	default:
		// iCalendar treats an absent STATUS as confirmed.
		status = models.StatusConfirmed
	}

	return models.Candidate{
		CalendarUID: ev.UID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Status:      status,
		Start:       ev.Start,
		End:         ev.End,
		TimeZone:    ev.TimeZone,
		DTStamp:     ev.DTStamp,
	}
}
