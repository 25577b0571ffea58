// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"github.com/google/uuid"

	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/validate"
)

// AddCandidate appends a candidate at version 1. Creation takes no
// expected version; a caller-supplied id that collides with an existing
// candidate is a conflict carrying the existing copy.
func (s *Store) AddCandidate(projectID string, in models.CandidateInput) (models.Candidate, error) {
	if in.Status == "" {
		in.Status = models.StatusConfirmed
	}
	if err := validate.Candidate(in); err != nil {
		return models.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Candidate{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else if i := findCandidate(ps.candidates, id); i >= 0 {
		return models.Candidate{}, models.NewConflictError(models.KindCandidate, ps.candidates[i].Clone())
	}

	tz := in.TimeZone
	if tz == "" {
		tz = ps.meta.DefaultTimeZone
	}

	now := s.now()
	c := models.Candidate{
		ID:          id,
		CalendarUID: uuid.NewString() + "@meetslot",
		Summary:     in.Summary,
		Description: in.Description,
		Location:    in.Location,
		Status:      in.Status,
		Start:       in.Start,
		End:         in.End,
		TimeZone:    tz,
		DTStamp:     now,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	ps.candidates = append(ps.candidates, c)
	ps.candidatesVersion++
	ps.candidatesListVersion++
	return c.Clone(), nil
}

// UpdateCandidate replaces a candidate's fields in place, gated on its
// expected version. The calendar UID and internal id are preserved; the
// modification timestamp advances.
func (s *Store) UpdateCandidate(projectID, candidateID string, in models.CandidateInput) (models.Candidate, error) {
	if err := validate.Candidate(in); err != nil {
		return models.Candidate{}, err
	}
	if err := validate.Version(in.Version); err != nil {
		return models.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Candidate{}, err
	}
	i := findCandidate(ps.candidates, candidateID)
	if i < 0 {
		return models.Candidate{}, models.NewNotFoundError(models.KindCandidate, candidateID)
	}
	c := &ps.candidates[i]
	if in.Version != c.Version {
		return models.Candidate{}, models.NewConflictError(models.KindCandidate, c.Clone())
	}

	now := s.now()
	c.Summary = in.Summary
	c.Description = in.Description
	c.Location = in.Location
	c.Status = in.Status
	c.Start = in.Start
	c.End = in.End
	if in.TimeZone != "" {
		c.TimeZone = in.TimeZone
	}
	c.DTStamp = now
	c.UpdatedAt = now
	c.Version++
	ps.candidatesVersion++
	return c.Clone(), nil
}

// DeleteCandidate removes a candidate and, within the same atomic
// operation, every response referencing it.
func (s *Store) DeleteCandidate(projectID, candidateID string, version int) error {
	if err := validate.Version(version); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return err
	}
	i := findCandidate(ps.candidates, candidateID)
	if i < 0 {
		return models.NewNotFoundError(models.KindCandidate, candidateID)
	}
	if version != ps.candidates[i].Version {
		return models.NewConflictError(models.KindCandidate, ps.candidates[i].Clone())
	}

	ps.candidates = append(ps.candidates[:i], ps.candidates[i+1:]...)
	ps.candidatesVersion++
	ps.candidatesListVersion++

	kept := ps.responses[:0]
	removed := false
	for _, r := range ps.responses {
		if r.CandidateID == candidateID {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	ps.responses = kept
	if removed {
		ps.responsesVersion++
	}
	return nil
}

// ReorderCandidates applies a pure reordering of the candidate list,
// gated on the list-order version only. orderedIDs must be a permutation
// of the current ids.
func (s *Store) ReorderCandidates(projectID string, req models.ReorderRequest) error {
	if err := validate.Version(req.ListVersion); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return err
	}
	// Malformed input is rejected before the version gate, same as
	// everywhere else.
	reordered, ok := reorderCandidates(ps.candidates, req.OrderedIDs)
	if !ok {
		return models.NewValidationError("ordered_ids")
	}
	if req.ListVersion != ps.candidatesListVersion {
		return models.NewConflictError(models.KindCandidate, cloneCandidates(ps.candidates))
	}
	ps.candidates = reordered
	ps.candidatesListVersion++
	return nil
}

func findCandidate(list []models.Candidate, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneCandidates(list []models.Candidate) []models.Candidate {
	out := make([]models.Candidate, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}

func reorderCandidates(list []models.Candidate, ids []string) ([]models.Candidate, bool) {
	if len(ids) != len(list) {
		return nil, false
	}
	out := make([]models.Candidate, 0, len(list))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, false
		}
		seen[id] = true
		i := findCandidate(list, id)
		if i < 0 {
			return nil, false
		}
		out = append(out, list[i])
	}
	return out, true
}
