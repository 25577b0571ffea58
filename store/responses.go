// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/validate"
)

// CreateResponse records a participant's first mark for a candidate.
// Creation takes no expected version; an existing response for the same
// pair is a conflict carrying the current copy. Both foreign keys must
// resolve to live entities.
func (s *Store) CreateResponse(projectID, participantID, candidateID string, in models.ResponseInput) (models.Response, error) {
	if err := validate.Response(in); err != nil {
		return models.Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Response{}, err
	}
	if findParticipant(ps.participants, participantID) < 0 {
		return models.Response{}, models.NewNotFoundError(models.KindParticipant, participantID)
	}
	if findCandidate(ps.candidates, candidateID) < 0 {
		return models.Response{}, models.NewNotFoundError(models.KindCandidate, candidateID)
	}
	if i := findResponse(ps.responses, participantID, candidateID); i >= 0 {
		return models.Response{}, models.NewConflictError(models.KindResponse, ps.responses[i])
	}

	now := s.now()
	r := models.Response{
		ParticipantID: participantID,
		CandidateID:   candidateID,
		Mark:          in.Mark,
		Comment:       in.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}
	ps.responses = append(ps.responses, r)
	ps.responsesVersion++
	return r, nil
}

// UpdateResponse changes the mark or comment of an existing response,
// gated on its expected version.
func (s *Store) UpdateResponse(projectID, participantID, candidateID string, in models.ResponseInput) (models.Response, error) {
	if err := validate.Response(in); err != nil {
		return models.Response{}, err
	}
	if err := validate.Version(in.Version); err != nil {
		return models.Response{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Response{}, err
	}
	i := findResponse(ps.responses, participantID, candidateID)
	if i < 0 {
		return models.Response{}, models.NewNotFoundError(models.KindResponse, participantID+"/"+candidateID)
	}
	r := &ps.responses[i]
	if in.Version != r.Version {
		return models.Response{}, models.NewConflictError(models.KindResponse, *r)
	}

	r.Mark = in.Mark
	r.Comment = in.Comment
	r.UpdatedAt = s.now()
	r.Version++
	ps.responsesVersion++
	return *r, nil
}

// DeleteResponse removes a response, returning the pair to "pending".
func (s *Store) DeleteResponse(projectID, participantID, candidateID string, version int) error {
	if err := validate.Version(version); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return err
	}
	i := findResponse(ps.responses, participantID, candidateID)
	if i < 0 {
		return models.NewNotFoundError(models.KindResponse, participantID+"/"+candidateID)
	}
	if version != ps.responses[i].Version {
		return models.NewConflictError(models.KindResponse, ps.responses[i])
	}

	ps.responses = append(ps.responses[:i], ps.responses[i+1:]...)
	ps.responsesVersion++
	return nil
}

func findResponse(list []models.Response, participantID, candidateID string) int {
	for i := range list {
		if list[i].ParticipantID == participantID && list[i].CandidateID == candidateID {
			return i
		}
	}
	return -1
}
