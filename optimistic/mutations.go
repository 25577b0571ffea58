// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package optimistic

import (
	"time"

	"github.com/ktanabe/meetslot/models"
)

// SetResponse creates or updates one participant's mark for one
// candidate. Version 0 means the pair has no response yet (create);
// otherwise it is the expected version for the update.
type SetResponse struct {
	ParticipantID string
	CandidateID   string
	Mark          string
	Comment       string
	Version       int
}

func (m *SetResponse) EntityKey() string {
	return "response/" + m.ParticipantID + "/" + m.CandidateID
}

func (m *SetResponse) Apply(snap *models.ProjectSnapshot) {
	now := time.Now()
	for i := range snap.Responses {
		r := &snap.Responses[i]
		if r.ParticipantID == m.ParticipantID && r.CandidateID == m.CandidateID {
			r.Mark = m.Mark
			r.Comment = m.Comment
			r.UpdatedAt = now
			return
		}
	}
	snap.Responses = append(snap.Responses, models.Response{
		ParticipantID: m.ParticipantID,
		CandidateID:   m.CandidateID,
		Mark:          m.Mark,
		Comment:       m.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (m *SetResponse) Commit(snap *models.ProjectSnapshot, authoritative any) {
	r, ok := authoritative.(models.Response)
	if !ok {
		return
	}
	for i := range snap.Responses {
		if snap.Responses[i].ParticipantID == r.ParticipantID && snap.Responses[i].CandidateID == r.CandidateID {
			snap.Responses[i] = r
			return
		}
	}
	snap.Responses = append(snap.Responses, r)
}

// ClearResponse deletes a response, returning the pair to "pending".
type ClearResponse struct {
	ParticipantID string
	CandidateID   string
	Version       int
}

func (m *ClearResponse) EntityKey() string {
	return "response/" + m.ParticipantID + "/" + m.CandidateID
}

func (m *ClearResponse) Apply(snap *models.ProjectSnapshot) {
	for i := range snap.Responses {
		if snap.Responses[i].ParticipantID == m.ParticipantID && snap.Responses[i].CandidateID == m.CandidateID {
			snap.Responses = append(snap.Responses[:i], snap.Responses[i+1:]...)
			return
		}
	}
}

func (m *ClearResponse) Commit(snap *models.ProjectSnapshot, authoritative any) {
	// The speculative delete already matches the authoritative state.
	m.Apply(snap)
}

// EditCandidate updates a candidate's fields with an expected version.
type EditCandidate struct {
	CandidateID string
	Input       models.CandidateInput
}

func (m *EditCandidate) EntityKey() string {
	return "candidate/" + m.CandidateID
}

func (m *EditCandidate) Apply(snap *models.ProjectSnapshot) {
	for i := range snap.Candidates {
		c := &snap.Candidates[i]
		if c.ID != m.CandidateID {
			continue
		}
		c.Summary = m.Input.Summary
		c.Description = m.Input.Description
		c.Location = m.Input.Location
		c.Status = m.Input.Status
		c.Start = m.Input.Start
		c.End = m.Input.End
		if m.Input.TimeZone != "" {
			c.TimeZone = m.Input.TimeZone
		}
		c.UpdatedAt = time.Now()
		return
	}
}

func (m *EditCandidate) Commit(snap *models.ProjectSnapshot, authoritative any) {
	c, ok := authoritative.(models.Candidate)
	if !ok {
		return
	}
	for i := range snap.Candidates {
		if snap.Candidates[i].ID == c.ID {
			snap.Candidates[i] = c.Clone()
			return
		}
	}
}

// EditMeta replaces the project meta with an expected version.
type EditMeta struct {
	Input models.MetaInput
}

func (m *EditMeta) EntityKey() string { return "meta" }

func (m *EditMeta) Apply(snap *models.ProjectSnapshot) {
	snap.Meta.Name = m.Input.Name
	snap.Meta.Description = m.Input.Description
	snap.Meta.DefaultTimeZone = m.Input.DefaultTimeZone
	snap.Meta.UpdatedAt = time.Now()
}

func (m *EditMeta) Commit(snap *models.ProjectSnapshot, authoritative any) {
	if meta, ok := authoritative.(models.ProjectMeta); ok {
		snap.Meta = meta
	}
}
