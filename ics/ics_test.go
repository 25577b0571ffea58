// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanabe/meetslot/models"
)

func testCandidate(uid, summary string, seq int) models.Candidate {
	start := time.Date(2026, 10, 5, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	return models.Candidate{
		ID:          "id-" + uid,
		CalendarUID: uid,
		Summary:     summary,
		Status:      models.StatusConfirmed,
		Start:       &start,
		End:         &end,
		TimeZone:    "Asia/Tokyo",
		Sequence:    seq,
		DTStamp:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEncodeCoreProperties(t *testing.T) {
	c := testCandidate("slot-1@meetslot", "Planning, phase one", 3)
	c.Location = "Room A"
	c.Description = "Quarterly planning"

	data, err := Encode([]models.Candidate{c}, time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "PRODID:-//MeetSlot//MeetSlot Server//EN")
	assert.Contains(t, out, "UID:slot-1@meetslot")
	assert.Contains(t, out, "SEQUENCE:3")
	assert.Contains(t, out, "DTSTAMP:20261002T090000Z")
	assert.Contains(t, out, "DTSTART:20261005T100000Z")
	assert.Contains(t, out, "DTEND:20261005T110000Z")
	assert.Contains(t, out, "STATUS:CONFIRMED")
	assert.Contains(t, out, "LOCATION:Room A")
	assert.Contains(t, out, "X-MEETSLOT-TZID:Asia/Tokyo")
	// Text values are escaped on the wire.
	assert.Contains(t, out, `Planning\, phase one`)
}

func TestEncodeParseRoundTrip(t *testing.T) {
	c1 := testCandidate("slot-1@meetslot", "Planning, phase one", 1)
	c1.Location = "Room A; 3F"
	c1.Description = "Line one\nLine two"
	c2 := testCandidate("slot-2@meetslot", "Retrospective", 1)
	c2.Status = models.StatusTentative

	dtstamp := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)
	data, err := Encode([]models.Candidate{c1, c2}, dtstamp)
	require.NoError(t, err)

	events, stats, err := Parse(bytes.NewReader(data), "UTC")
	require.NoError(t, err)
	assert.Zero(t, stats.SkippedNoUID)
	assert.Zero(t, stats.SkippedNoDTStamp)
	require.Len(t, events, 2)

	got := events[0]
	assert.Equal(t, c1.CalendarUID, got.UID)
	assert.Equal(t, c1.Summary, got.Summary)
	assert.Equal(t, c1.Location, got.Location)
	assert.Equal(t, c1.Description, got.Description)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, "Asia/Tokyo", got.TimeZone)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.True(t, got.Start.Equal(*c1.Start))
	assert.True(t, got.End.Equal(*c1.End))
	assert.True(t, got.DTStamp.Equal(dtstamp))

	assert.Equal(t, models.StatusTentative, events[1].Status)
}

func icsDocument(events ...string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//External//Calendar//EN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func TestParseSkipsUnusableEvents(t *testing.T) {
	doc := icsDocument(
		"BEGIN:VEVENT",
		"UID:usable@example.com",
		"DTSTAMP:20261001T090000Z",
		"SUMMARY:Usable",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"DTSTAMP:20261001T090000Z",
		"SUMMARY:No identity",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:no-stamp@example.com",
		"SUMMARY:No timestamp",
		"END:VEVENT",
	)

	events, stats, err := Parse(strings.NewReader(doc), "Asia/Tokyo")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "usable@example.com", events[0].UID)
	assert.Equal(t, 1, stats.SkippedNoUID)
	assert.Equal(t, 1, stats.SkippedNoDTStamp)
}

// Outlook exports label-style TZIDs that no zone database resolves; the
// record falls back to the default zone so the event stays importable.
func TestParseWindowsStyleTZIDFallsBack(t *testing.T) {
	doc := icsDocument(
		"BEGIN:VEVENT",
		"UID:outlook@example.com",
		"DTSTAMP:20261001T090000Z",
		"SUMMARY:Sync call",
		`DTSTART;TZID="W. Europe Standard Time":20261001T190000`,
		"END:VEVENT",
	)

	events, _, err := Parse(strings.NewReader(doc), "Asia/Tokyo")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Asia/Tokyo", events[0].TimeZone)
}

func TestZoneResolution(t *testing.T) {
	tests := []struct {
		name     string
		tzid     string
		vendor   string
		expected string
	}{
		{"tzid wins over vendor", "America/New_York", "Europe/Berlin", "America/New_York"},
		{"vendor fills in", "", "Europe/Berlin", "Europe/Berlin"},
		{"default as last resort", "", "", "Asia/Tokyo"},
		{"floating falls through", "floating", "", "Asia/Tokyo"},
		{"floating vendor falls through", "", "FLOATING", "Asia/Tokyo"},
		{"windows label falls through", "W. Europe Standard Time", "", "Asia/Tokyo"},
		{"windows tzid yields to vendor", "W. Europe Standard Time", "Europe/Berlin", "Europe/Berlin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveZone(tt.tzid, tt.vendor, "Asia/Tokyo"))
		})
	}
}

func TestBuildPlanClassification(t *testing.T) {
	existing := []models.Candidate{
		{ID: "cand-upd", CalendarUID: "known-update", DTStamp: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "cand-old", CalendarUID: "known-older", DTStamp: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}
	events := []EventRecord{
		{UID: "unknown", Summary: "Fresh", DTStamp: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{UID: "known-update", Summary: "Revised", DTStamp: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
		{UID: "known-older", Summary: "Stale", DTStamp: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	plan := BuildPlan(existing, events)
	require.Len(t, plan.Entries, 3)

	assert.Equal(t, ClassNew, plan.Entries[0].Classification)
	assert.True(t, plan.Entries[0].Include)
	assert.Empty(t, plan.Entries[0].ExistingID)

	assert.Equal(t, ClassUpdate, plan.Entries[1].Classification)
	assert.True(t, plan.Entries[1].Include)
	assert.Equal(t, "cand-upd", plan.Entries[1].ExistingID)
	require.NotNil(t, plan.Entries[1].ExistingDTStamp)

	// An equal timestamp is not an update. Older entries default to
	// excluded; the caller may still flip them on.
	assert.Equal(t, ClassOlder, plan.Entries[2].Classification)
	assert.False(t, plan.Entries[2].Include)
}

func TestBuildPlanCollapsesDuplicateUIDs(t *testing.T) {
	events := []EventRecord{
		{UID: "dup", Summary: "First copy", DTStamp: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
		{UID: "dup", Summary: "Newest copy", DTStamp: time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)},
		{UID: "dup", Summary: "Middle copy", DTStamp: time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)},
	}

	plan := BuildPlan(nil, events)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "Newest copy", plan.Entries[0].Candidate.Summary)
	assert.True(t, plan.Entries[0].ImportedDTStamp.Equal(time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)))
}

func TestBuildPlanDefaultsAbsentStatus(t *testing.T) {
	plan := BuildPlan(nil, []EventRecord{
		{UID: "u1", Summary: "No status", DTStamp: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)},
	})
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, models.StatusConfirmed, plan.Entries[0].Candidate.Status)
}

func TestImportPlanGolden(t *testing.T) {
	doc := icsDocument(
		"BEGIN:VEVENT",
		"UID:uid-new-1",
		"DTSTAMP:20261001T090000Z",
		"DTSTART:20261005T100000Z",
		"DTEND:20261005T110000Z",
		"SUMMARY:Planning session",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:uid-known-update",
		"DTSTAMP:20261002T090000Z",
		"SUMMARY:Kickoff (revised)",
		"X-MEETSLOT-TZID:Europe/Berlin",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:uid-known-older",
		"DTSTAMP:20261001T000000Z",
		"SUMMARY:Stale copy",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"DTSTAMP:20261001T000000Z",
		"SUMMARY:No identity",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:uid-no-stamp",
		"SUMMARY:No timestamp",
		"END:VEVENT",
	)

	existing := []models.Candidate{
		{ID: "cand-upd", CalendarUID: "uid-known-update", DTStamp: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "cand-old", CalendarUID: "uid-known-older", DTStamp: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
	}

	events, stats, err := Parse(strings.NewReader(doc), "Asia/Tokyo")
	require.NoError(t, err)
	plan := BuildPlan(existing, events)
	plan.Stats = stats

	// Project the plan onto a canonical map for a stable fixture.
	entries := make([]any, len(plan.Entries))
	for i, e := range plan.Entries {
		entries[i] = map[string]any{
			"classification":   e.Classification,
			"existing_id":      e.ExistingID,
			"imported_dtstamp": e.ImportedDTStamp.UTC(),
			"include":          e.Include,
			"summary":          e.Candidate.Summary,
			"time_zone":        e.Candidate.TimeZone,
			"uid":              e.UID,
		}
	}
	snapshot := map[string]any{
		"entries":            entries,
		"skipped_no_dtstamp": plan.Stats.SkippedNoDTStamp,
		"skipped_no_uid":     plan.Stats.SkippedNoUID,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "import_plan", data)
}
