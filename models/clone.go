// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Clone returns a deep copy of the snapshot. The optimistic executor
// uses clones as undo tokens, so copies must share no mutable memory
// with the original.
func (s ProjectSnapshot) Clone() ProjectSnapshot {
	out := s
	out.Candidates = make([]Candidate, len(s.Candidates))
	for i, c := range s.Candidates {
		out.Candidates[i] = c.Clone()
	}
	out.Participants = make([]Participant, len(s.Participants))
	copy(out.Participants, s.Participants)
	out.Responses = make([]Response, len(s.Responses))
	copy(out.Responses, s.Responses)
	out.ShareTokens = s.ShareTokens.Clone()
	return out
}

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	out := c
	out.Start = cloneTime(c.Start)
	out.End = cloneTime(c.End)
	return out
}

// Clone returns a deep copy of both token slots.
func (t ShareTokens) Clone() ShareTokens {
	out := t
	out.Admin = cloneToken(t.Admin)
	out.Participant = cloneToken(t.Participant)
	return out
}

func cloneToken(t *ShareToken) *ShareToken {
	if t == nil {
		return nil
	}
	c := *t
	c.RevokedAt = cloneTime(t.RevokedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
