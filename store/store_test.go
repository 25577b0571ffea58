// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktanabe/meetslot/ics"
	"github.com/ktanabe/meetslot/models"
)

func newTestStore() *Store {
	return New(Options{
		BaseURL:         "http://localhost:3320",
		DefaultTimeZone: "Asia/Tokyo",
	})
}

func createProject(t *testing.T, s *Store) models.ProjectSnapshot {
	t.Helper()
	snap, err := s.CreateProject(models.CreateProjectRequest{
		Name:        "Team Offsite",
		Description: "Q4 planning offsite",
	})
	require.NoError(t, err)
	return snap
}

func addCandidate(t *testing.T, s *Store, projectID, summary string, dayOffset int) models.Candidate {
	t.Helper()
	start := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
	end := start.Add(time.Hour)
	c, err := s.AddCandidate(projectID, models.CandidateInput{
		Summary: summary,
		Start:   &start,
		End:     &end,
	})
	require.NoError(t, err)
	return c
}

func addParticipant(t *testing.T, s *Store, projectID, name string) models.Participant {
	t.Helper()
	p, err := s.AddParticipant(projectID, models.ParticipantInput{Name: name})
	require.NoError(t, err)
	return p
}

func TestCreateProject(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)

	assert.NotEmpty(t, snap.Meta.ID)
	assert.Equal(t, "Team Offsite", snap.Meta.Name)
	assert.Equal(t, "Asia/Tokyo", snap.Meta.DefaultTimeZone)
	assert.Equal(t, 1, snap.Meta.Version)

	assert.Equal(t, 1, snap.Versions.Candidates)
	assert.Equal(t, 1, snap.Versions.CandidatesList)
	assert.Equal(t, 1, snap.Versions.Participants)
	assert.Equal(t, 1, snap.Versions.ParticipantsList)
	assert.Equal(t, 1, snap.Versions.Responses)
	assert.Equal(t, 1, snap.Versions.ShareTokens)

	require.NotNil(t, snap.ShareTokens.Admin)
	require.NotNil(t, snap.ShareTokens.Participant)
	assert.Contains(t, snap.ShareTokens.Admin.URL, "/a/")
	assert.Contains(t, snap.ShareTokens.Participant.URL, "/p/")

	projectID, kind, err := s.ResolveToken(snap.ShareTokens.Admin.Token)
	require.NoError(t, err)
	assert.Equal(t, snap.Meta.ID, projectID)
	assert.Equal(t, models.TokenAdmin, kind)

	projectID, kind, err = s.ResolveToken(snap.ShareTokens.Participant.Token)
	require.NoError(t, err)
	assert.Equal(t, snap.Meta.ID, projectID)
	assert.Equal(t, models.TokenParticipant, kind)
}

func TestCreateProjectRejectsInvalidZone(t *testing.T) {
	s := newTestStore()
	_, err := s.CreateProject(models.CreateProjectRequest{
		Name:            "Bad Zone",
		DefaultTimeZone: "NotAZone",
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "default_time_zone")
}

func TestUpdateMetaVersionGate(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	meta, err := s.UpdateMeta(id, models.MetaInput{
		Name:            "Renamed Offsite",
		DefaultTimeZone: "Asia/Tokyo",
		Version:         1,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Version)

	// Writing with the already-consumed version must conflict and carry
	// the authoritative copy.
	_, err = s.UpdateMeta(id, models.MetaInput{
		Name:            "Stale Write",
		DefaultTimeZone: "Asia/Tokyo",
		Version:         1,
	})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, models.KindMeta, ce.Kind)
	assert.Equal(t, models.ReasonVersionMismatch, ce.Reason)
	latest, ok := ce.Latest.(models.ProjectMeta)
	require.True(t, ok)
	assert.Equal(t, "Renamed Offsite", latest.Name)
	assert.Equal(t, 2, latest.Version)

	// The rejected write must not have touched anything.
	cur, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Offsite", cur.Meta.Name)
	assert.Equal(t, 2, cur.Meta.Version)
}

func TestCandidateVersionLifecycle(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	c := addCandidate(t, s, id, "Friday evening", 0)
	assert.Equal(t, 1, c.Version)
	assert.Equal(t, models.StatusConfirmed, c.Status)
	assert.Equal(t, "Asia/Tokyo", c.TimeZone)
	assert.NotEmpty(t, c.CalendarUID)

	// Editor A wins with the current version.
	in := models.CandidateInput{
		Summary: "Friday evening (moved)",
		Status:  c.Status,
		Start:   c.Start,
		End:     c.End,
		Version: 1,
	}
	updated, err := s.UpdateCandidate(id, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, c.CalendarUID, updated.CalendarUID)

	// Editor B loses with the same stale version and gets A's copy back.
	in.Summary = "Friday evening (conflicting)"
	_, err = s.UpdateCandidate(id, c.ID, in)
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
	latest, ok := ce.Latest.(models.Candidate)
	require.True(t, ok)
	assert.Equal(t, "Friday evening (moved)", latest.Summary)
	assert.Equal(t, 2, latest.Version)

	// B retries against the refreshed version and succeeds.
	in.Version = 2
	updated, err = s.UpdateCandidate(id, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Version)
	assert.Equal(t, "Friday evening (conflicting)", updated.Summary)
}

func TestValidationRunsBeforeVersionCheck(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	c := addCandidate(t, s, snap.Meta.ID, "Slot", 0)

	// Payload is malformed AND the version is stale; validation wins.
	_, err := s.UpdateCandidate(snap.Meta.ID, c.ID, models.CandidateInput{
		Summary: "",
		Status:  c.Status,
		Version: 99,
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "summary")
}

func TestAddCandidateIDCollision(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	_, err := s.AddCandidate(id, models.CandidateInput{ID: "slot-1", Summary: "First"})
	require.NoError(t, err)

	_, err = s.AddCandidate(id, models.CandidateInput{ID: "slot-1", Summary: "Second"})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, models.KindCandidate, ce.Kind)
	latest, ok := ce.Latest.(models.Candidate)
	require.True(t, ok)
	assert.Equal(t, "First", latest.Summary)
}

func TestDeleteCandidateCascadesResponses(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	c1 := addCandidate(t, s, id, "Slot A", 0)
	c2 := addCandidate(t, s, id, "Slot B", 1)
	p := addParticipant(t, s, id, "Sato")

	_, err := s.CreateResponse(id, p.ID, c1.ID, models.ResponseInput{Mark: models.MarkAttend})
	require.NoError(t, err)
	_, err = s.CreateResponse(id, p.ID, c2.ID, models.ResponseInput{Mark: models.MarkDecline})
	require.NoError(t, err)

	before, err := s.Snapshot(id)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCandidate(id, c1.ID, c1.Version))

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Len(t, after.Candidates, 1)
	require.Len(t, after.Responses, 1)
	assert.Equal(t, c2.ID, after.Responses[0].CandidateID)
	assert.Equal(t, before.Versions.Responses+1, after.Versions.Responses)
	assert.Equal(t, before.Versions.CandidatesList+1, after.Versions.CandidatesList)
}

func TestDeleteParticipantCascadesResponses(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	c := addCandidate(t, s, id, "Slot A", 0)
	p1 := addParticipant(t, s, id, "Sato")
	p2 := addParticipant(t, s, id, "Suzuki")

	_, err := s.CreateResponse(id, p1.ID, c.ID, models.ResponseInput{Mark: models.MarkAttend})
	require.NoError(t, err)
	_, err = s.CreateResponse(id, p2.ID, c.ID, models.ResponseInput{Mark: models.MarkMaybe})
	require.NoError(t, err)

	require.NoError(t, s.DeleteParticipant(id, p1.ID, p1.Version))

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Len(t, after.Participants, 1)
	require.Len(t, after.Responses, 1)
	assert.Equal(t, p2.ID, after.Responses[0].ParticipantID)
}

func TestParticipantNameUniqueness(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	addParticipant(t, s, id, "Sato")

	// Case-insensitive duplicate.
	_, err := s.AddParticipant(id, models.ParticipantInput{Name: "SATO"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	// Renaming a participant onto an existing name is rejected too.
	p2 := addParticipant(t, s, id, "Suzuki")
	_, err = s.UpdateParticipant(id, p2.ID, models.ParticipantInput{
		Name:    "Sato",
		Status:  models.ParticipantActive,
		Version: p2.Version,
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
}

func TestResponseLifecycle(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	c := addCandidate(t, s, id, "Slot A", 0)
	p := addParticipant(t, s, id, "Sato")

	// Foreign keys must resolve.
	_, err := s.CreateResponse(id, "missing", c.ID, models.ResponseInput{Mark: models.MarkAttend})
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, models.KindParticipant, nfe.Kind)

	_, err = s.CreateResponse(id, p.ID, "missing", models.ResponseInput{Mark: models.MarkAttend})
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, models.KindCandidate, nfe.Kind)

	r, err := s.CreateResponse(id, p.ID, c.ID, models.ResponseInput{Mark: models.MarkMaybe})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Version)

	// A second create for the same pair is a conflict, not an upsert.
	_, err = s.CreateResponse(id, p.ID, c.ID, models.ResponseInput{Mark: models.MarkAttend})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, models.KindResponse, ce.Kind)

	r, err = s.UpdateResponse(id, p.ID, c.ID, models.ResponseInput{Mark: models.MarkAttend, Version: 1})
	require.NoError(t, err)
	assert.Equal(t, models.MarkAttend, r.Mark)
	assert.Equal(t, 2, r.Version)

	// Stale delete conflicts; current delete returns the pair to pending.
	err = s.DeleteResponse(id, p.ID, c.ID, 1)
	require.ErrorAs(t, err, &ce)
	require.NoError(t, s.DeleteResponse(id, p.ID, c.ID, 2))

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Empty(t, after.Responses)
}

func TestReorderCandidates(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	c1 := addCandidate(t, s, id, "Slot A", 0)
	c2 := addCandidate(t, s, id, "Slot B", 1)
	c3 := addCandidate(t, s, id, "Slot C", 2)

	cur, err := s.Snapshot(id)
	require.NoError(t, err)
	listVersion := cur.Versions.CandidatesList

	err = s.ReorderCandidates(id, models.ReorderRequest{
		OrderedIDs:  []string{c3.ID, c1.ID, c2.ID},
		ListVersion: listVersion,
	})
	require.NoError(t, err)

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, []string{c3.ID, c1.ID, c2.ID}, candidateIDs(after.Candidates))
	assert.Equal(t, listVersion+1, after.Versions.CandidatesList)
	// Reordering touches no entity versions.
	for _, c := range after.Candidates {
		assert.Equal(t, 1, c.Version)
	}

	// Stale list version conflicts.
	err = s.ReorderCandidates(id, models.ReorderRequest{
		OrderedIDs:  []string{c1.ID, c2.ID, c3.ID},
		ListVersion: listVersion,
	})
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)

	// Non-permutations are rejected before any mutation.
	err = s.ReorderCandidates(id, models.ReorderRequest{
		OrderedIDs:  []string{c1.ID, c1.ID, c2.ID},
		ListVersion: listVersion + 1,
	})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "ordered_ids")

	// Validation wins over the version gate: a non-permutation with a
	// stale version is still a validation failure, not a conflict.
	err = s.ReorderCandidates(id, models.ReorderRequest{
		OrderedIDs:  []string{c1.ID, c1.ID, c2.ID},
		ListVersion: listVersion,
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "ordered_ids")

	unchanged, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, []string{c3.ID, c1.ID, c2.ID}, candidateIDs(unchanged.Candidates))
}

func TestReorderParticipants(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	p1 := addParticipant(t, s, id, "Sato")
	p2 := addParticipant(t, s, id, "Suzuki")

	cur, err := s.Snapshot(id)
	require.NoError(t, err)
	listVersion := cur.Versions.ParticipantsList

	err = s.ReorderParticipants(id, models.ReorderRequest{
		OrderedIDs:  []string{p2.ID, p1.ID},
		ListVersion: listVersion,
	})
	require.NoError(t, err)

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, after.Participants[0].ID)
	assert.Equal(t, listVersion+1, after.Versions.ParticipantsList)

	// Non-permutation with a stale version is a validation failure.
	var ve *models.ValidationError
	err = s.ReorderParticipants(id, models.ReorderRequest{
		OrderedIDs:  []string{p1.ID},
		ListVersion: listVersion,
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "ordered_ids")

	// A stale version with a valid permutation still conflicts.
	var ce *models.ConflictError
	err = s.ReorderParticipants(id, models.ReorderRequest{
		OrderedIDs:  []string{p1.ID, p2.ID},
		ListVersion: listVersion,
	})
	require.ErrorAs(t, err, &ce)
}

func candidateIDs(list []models.Candidate) []string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return ids
}

func TestGenerateShareTokensIdempotent(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	tokens, err := s.GenerateShareTokens(id, models.TokenAdmin)
	require.NoError(t, err)
	assert.Equal(t, snap.ShareTokens.Admin.Token, tokens.Admin.Token)
	assert.Equal(t, snap.ShareTokens.Participant.Token, tokens.Participant.Token)
	assert.Equal(t, snap.ShareTokens.Version, tokens.Version)
}

func TestRotateShareTokens(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID
	oldAdmin := snap.ShareTokens.Admin.Token
	oldParticipant := snap.ShareTokens.Participant.Token

	tokens, err := s.RotateShareTokens(id, models.TokenAdmin, snap.ShareTokens.Version)
	require.NoError(t, err)
	assert.Equal(t, snap.ShareTokens.Version+1, tokens.Version)
	assert.NotEqual(t, oldAdmin, tokens.Admin.Token)
	assert.NotEqual(t, oldParticipant, tokens.Participant.Token)

	// Old tokens stop resolving; new ones work.
	_, _, err = s.ResolveToken(oldAdmin)
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
	_, _, err = s.ResolveToken(tokens.Admin.Token)
	require.NoError(t, err)

	// A second rotation with the consumed version conflicts.
	_, err = s.RotateShareTokens(id, models.TokenAdmin, snap.ShareTokens.Version)
	var ce *models.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, models.KindShareTokens, ce.Kind)
}

func TestInvalidateShareToken(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	tokens, err := s.InvalidateShareToken(id, models.TokenParticipant, snap.ShareTokens.Version)
	require.NoError(t, err)
	require.NotNil(t, tokens.Participant.RevokedAt)
	assert.Nil(t, tokens.Admin.RevokedAt)

	// Revoked token no longer resolves, the admin one still does.
	_, _, err = s.ResolveToken(snap.ShareTokens.Participant.Token)
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)
	_, _, err = s.ResolveToken(snap.ShareTokens.Admin.Token)
	require.NoError(t, err)

	// Revoking the same dead slot again is a not-found.
	_, err = s.InvalidateShareToken(id, models.TokenParticipant, tokens.Version)
	require.ErrorAs(t, err, &nfe)

	// Generate reissues only the dead slot.
	regenerated, err := s.GenerateShareTokens(id, models.TokenAdmin)
	require.NoError(t, err)
	assert.Equal(t, snap.ShareTokens.Admin.Token, regenerated.Admin.Token)
	assert.NotEqual(t, snap.ShareTokens.Participant.Token, regenerated.Participant.Token)
	assert.Nil(t, regenerated.Participant.RevokedAt)
	assert.Equal(t, tokens.Version+1, regenerated.Version)

	// Unknown kind is a validation error.
	_, err = s.InvalidateShareToken(id, "owner", regenerated.Version)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "kind")
}

func TestExportBumpsSequenceOnly(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID
	c := addCandidate(t, s, id, "Slot A", 0)

	_, err := s.ExportCalendar(id)
	require.NoError(t, err)
	data, err := s.ExportCalendar(id)
	require.NoError(t, err)

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	require.Len(t, after.Candidates, 1)
	assert.Equal(t, c.Sequence+2, after.Candidates[0].Sequence)
	// The document carries the same sequence the store persisted.
	assert.Contains(t, string(data), fmt.Sprintf("SEQUENCE:%d", after.Candidates[0].Sequence))
	// Exporting is not an entity mutation.
	assert.Equal(t, c.Version, after.Candidates[0].Version)
}

func TestImportRoundTripBetweenProjects(t *testing.T) {
	s := newTestStore()
	src := createProject(t, s)
	dst := createProject(t, s)

	addCandidate(t, s, src.Meta.ID, "Review session", 0)
	addCandidate(t, s, src.Meta.ID, "Retrospective", 1)

	data, err := s.ExportCalendar(src.Meta.ID)
	require.NoError(t, err)

	plan, err := s.PlanImport(dst.Meta.ID, data)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	for _, e := range plan.Entries {
		assert.Equal(t, "new", e.Classification)
		assert.True(t, e.Include)
	}

	result, err := s.CommitImport(dst.Meta.ID, plan.Entries)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Updated)

	after, err := s.Snapshot(dst.Meta.ID)
	require.NoError(t, err)
	require.Len(t, after.Candidates, 2)
	summaries := []string{after.Candidates[0].Summary, after.Candidates[1].Summary}
	assert.ElementsMatch(t, []string{"Review session", "Retrospective"}, summaries)

	// Re-importing the same document now classifies everything as known.
	plan, err = s.PlanImport(dst.Meta.ID, data)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)
	for _, e := range plan.Entries {
		assert.Equal(t, "older", e.Classification)
		assert.False(t, e.Include)
	}
}

func TestCommitImportIsAtomic(t *testing.T) {
	s := newTestStore()
	snap := createProject(t, s)
	id := snap.Meta.ID

	src := createProject(t, s)
	addCandidate(t, s, src.Meta.ID, "Valid entry", 0)
	data, err := s.ExportCalendar(src.Meta.ID)
	require.NoError(t, err)

	plan, err := s.PlanImport(id, data)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)

	// A second entry referencing a candidate that no longer exists makes
	// the whole commit fail without applying the valid one.
	broken := plan.Entries[0]
	broken.Classification = "update"
	broken.ExistingID = "gone"
	broken.UID = "other-uid@meetslot"
	broken.Candidate.CalendarUID = "other-uid@meetslot"

	_, err = s.CommitImport(id, []ics.PlanEntry{plan.Entries[0], broken})
	var nfe *models.NotFoundError
	require.ErrorAs(t, err, &nfe)

	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Empty(t, after.Candidates)
}

func TestUnknownProject(t *testing.T) {
	s := newTestStore()

	var nfe *models.NotFoundError
	_, err := s.Snapshot("missing")
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, models.KindProject, nfe.Kind)

	_, _, err = s.ResolveToken("missing")
	require.ErrorAs(t, err, &nfe)
}
