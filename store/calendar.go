// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/ktanabe/meetslot/ics"
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/validate"
)

// ImportResult summarizes an applied import.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// ExportCalendar serializes the project's candidates to an iCalendar
// document. Each export bumps the exported candidates' SEQUENCE counters
// so consumers see a strictly increasing sequence per event; the entity
// versions are untouched, as no entity field changed.
func (s *Store) ExportCalendar(projectID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return nil, err
	}

	// Encode a bumped copy; persist the bumps only once the document
	// exists, so an encode failure leaves the project untouched.
	bumped := cloneCandidates(ps.candidates)
	for i := range bumped {
		bumped[i].Sequence++
	}
	data, err := ics.Encode(bumped, s.now())
	if err != nil {
		return nil, err
	}
	ps.candidates = bumped
	return data, nil
}

// PlanImport parses an external calendar document and reconciles it
// against the project's candidates, producing a decision list. Nothing
// is mutated; CommitImport applies the accepted entries.
func (s *Store) PlanImport(projectID string, data []byte) (ics.ImportPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return ics.ImportPlan{}, err
	}

	events, stats, err := ics.Parse(bytes.NewReader(data), ps.meta.DefaultTimeZone)
	if err != nil {
		return ics.ImportPlan{}, err
	}
	plan := ics.BuildPlan(ps.candidates, events)
	plan.Stats = stats
	return plan, nil
}

// CommitImport applies the included entries of a plan in one atomic
// pass: appends for "new" entries, field-replacing updates (preserving
// internal identity) for the rest. Every entry is checked before the
// first mutation, so a failing commit changes nothing.
func (s *Store) CommitImport(projectID string, entries []ics.PlanEntry) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return ImportResult{}, err
	}

	accepted := make([]ics.PlanEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Include {
			continue
		}
		in := models.CandidateInput{
			Summary:     e.Candidate.Summary,
			Description: e.Candidate.Description,
			Location:    e.Candidate.Location,
			Status:      e.Candidate.Status,
			Start:       e.Candidate.Start,
			End:         e.Candidate.End,
			TimeZone:    e.Candidate.TimeZone,
		}
		if err := validate.Candidate(in); err != nil {
			return ImportResult{}, err
		}
		if e.Classification != ics.ClassNew {
			if findCandidate(ps.candidates, e.ExistingID) < 0 {
				return ImportResult{}, models.NewNotFoundError(models.KindCandidate, e.ExistingID)
			}
		}
		accepted = append(accepted, e)
	}

	var result ImportResult
	now := s.now()
	for _, e := range accepted {
		if e.Classification == ics.ClassNew {
			c := e.Candidate.Clone()
			c.ID = uuid.NewString()
			c.CreatedAt = now
			c.UpdatedAt = now
			c.Version = 1
			ps.candidates = append(ps.candidates, c)
			result.Added++
			continue
		}

		i := findCandidate(ps.candidates, e.ExistingID)
		c := &ps.candidates[i]
		c.Summary = e.Candidate.Summary
		c.Description = e.Candidate.Description
		c.Location = e.Candidate.Location
		c.Status = e.Candidate.Status
		c.Start = e.Candidate.Start
		c.End = e.Candidate.End
		c.TimeZone = e.Candidate.TimeZone
		c.DTStamp = e.Candidate.DTStamp
		c.UpdatedAt = now
		c.Version++
		result.Updated++
	}

	if result.Added > 0 || result.Updated > 0 {
		ps.candidatesVersion++
	}
	if result.Added > 0 {
		ps.candidatesListVersion++
	}
	return result, nil
}
