// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/ktanabe/meetslot/models"

// Count holds mark counts for one candidate or one participant.
// Total is the responded count (o+d+x), not the participant count.
type Count struct {
	O     int `json:"o"`
	D     int `json:"d"`
	X     int `json:"x"`
	Total int `json:"total"`
}

func (c *Count) add(mark string) {
	switch mark {
	case models.MarkAttend:
		c.O++
	case models.MarkMaybe:
		c.D++
	case models.MarkDecline:
		c.X++
	default:
		return
	}
	c.Total++
}

// CandidateTally is the aggregate for one candidate. Pending is the
// number of participants with no response for it.
type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Count
	Pending int `json:"pending"`
}

// ParticipantTally is the aggregate for one participant across candidates.
type ParticipantTally struct {
	ParticipantID string `json:"participant_id"`
	Count
}

// Summary is the full derived aggregation for a project. It is never
// persisted independently of its inputs; callers recompute it after any
// mutation that could change membership.
type Summary struct {
	ByCandidate      []CandidateTally   `json:"by_candidate"`
	ByParticipant    []ParticipantTally `json:"by_participant"`
	ParticipantCount int                `json:"participant_count"`
}

// Compute derives tallies from the given entities. Pure function: no
// side effects, inputs are not modified. Responses referencing unknown
// candidates or participants are ignored; the store never produces them.
func Compute(candidates []models.Candidate, participants []models.Participant, responses []models.Response) Summary {
	byCandidate := make(map[string]*CandidateTally, len(candidates))
	byParticipant := make(map[string]*ParticipantTally, len(participants))

	summary := Summary{
		ByCandidate:      make([]CandidateTally, len(candidates)),
		ByParticipant:    make([]ParticipantTally, len(participants)),
		ParticipantCount: len(participants),
	}

	for i, c := range candidates {
		summary.ByCandidate[i] = CandidateTally{CandidateID: c.ID}
		byCandidate[c.ID] = &summary.ByCandidate[i]
	}
	for i, p := range participants {
		summary.ByParticipant[i] = ParticipantTally{ParticipantID: p.ID}
		byParticipant[p.ID] = &summary.ByParticipant[i]
	}

	for _, r := range responses {
		ct, ok := byCandidate[r.CandidateID]
		if !ok {
			continue
		}
		pt, ok := byParticipant[r.ParticipantID]
		if !ok {
			continue
		}
		ct.add(r.Mark)
		pt.add(r.Mark)
	}

	for i := range summary.ByCandidate {
		summary.ByCandidate[i].Pending = summary.ParticipantCount - summary.ByCandidate[i].Total
	}

	return summary
}
