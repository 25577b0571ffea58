// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ktanabe/meetslot/auth"
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/validate"
)

// AddParticipant creates a participant at version 1 with a fresh access
// token. Display names are unique case-insensitively within a project.
func (s *Store) AddParticipant(projectID string, in models.ParticipantInput) (models.Participant, error) {
	if in.Status == "" {
		in.Status = models.ParticipantActive
	}
	if err := validate.Participant(in); err != nil {
		return models.Participant{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Participant{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else if i := findParticipant(ps.participants, id); i >= 0 {
		return models.Participant{}, models.NewConflictError(models.KindParticipant, ps.participants[i])
	}

	if nameTaken(ps.participants, in.Name, "") {
		return models.Participant{}, models.NewValidationError("name")
	}

	token, err := auth.GenerateToken(auth.TokenLength)
	if err != nil {
		return models.Participant{}, err
	}

	now := s.now()
	p := models.Participant{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		Comment:     in.Comment,
		Status:      in.Status,
		AccessToken: token,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	ps.participants = append(ps.participants, p)
	ps.participantsVersion++
	ps.participantsListVersion++
	return p, nil
}

// UpdateParticipant replaces a participant's fields, gated on its
// expected version. Renames re-check name uniqueness, excluding the
// participant being updated.
func (s *Store) UpdateParticipant(projectID, participantID string, in models.ParticipantInput) (models.Participant, error) {
	if err := validate.Participant(in); err != nil {
		return models.Participant{}, err
	}
	if err := validate.Version(in.Version); err != nil {
		return models.Participant{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.Participant{}, err
	}
	i := findParticipant(ps.participants, participantID)
	if i < 0 {
		return models.Participant{}, models.NewNotFoundError(models.KindParticipant, participantID)
	}
	p := &ps.participants[i]
	if in.Version != p.Version {
		return models.Participant{}, models.NewConflictError(models.KindParticipant, *p)
	}
	if nameTaken(ps.participants, in.Name, participantID) {
		return models.Participant{}, models.NewValidationError("name")
	}

	p.Name = in.Name
	p.Email = in.Email
	p.Comment = in.Comment
	p.Status = in.Status
	p.UpdatedAt = s.now()
	p.Version++
	ps.participantsVersion++
	return *p, nil
}

// DeleteParticipant removes a participant and, atomically, every
// response referencing them.
func (s *Store) DeleteParticipant(projectID, participantID string, version int) error {
	if err := validate.Version(version); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return err
	}
	i := findParticipant(ps.participants, participantID)
	if i < 0 {
		return models.NewNotFoundError(models.KindParticipant, participantID)
	}
	if version != ps.participants[i].Version {
		return models.NewConflictError(models.KindParticipant, ps.participants[i])
	}

	ps.participants = append(ps.participants[:i], ps.participants[i+1:]...)
	ps.participantsVersion++
	ps.participantsListVersion++

	kept := ps.responses[:0]
	removed := false
	for _, r := range ps.responses {
		if r.ParticipantID == participantID {
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

// ReorderParticipants applies a pure reordering of the participant list,
// gated on the list-order version only.
func (s *Store) ReorderParticipants(projectID string, req models.ReorderRequest) error {
	if err := validate.Version(req.ListVersion); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return err
	}
	reordered, ok := reorderParticipants(ps.participants, req.OrderedIDs)
	if !ok {
		return models.NewValidationError("ordered_ids")
	}
	if req.ListVersion != ps.participantsListVersion {
		latest := make([]models.Participant, len(ps.participants))
		copy(latest, ps.participants)
		return models.NewConflictError(models.KindParticipant, latest)
	}
	ps.participants = reordered
	ps.participantsListVersion++
	return nil
}

func findParticipant(list []models.Participant, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether name is already used by a participant other
// than excludeID, comparing case-insensitively.
func nameTaken(list []models.Participant, name, excludeID string) bool {
	folded := strings.ToLower(name)
	for i := range list {
		if list[i].ID == excludeID {
			continue
		}
		if strings.ToLower(list[i].Name) == folded {
			return true
		}
	}
	return false
}

func reorderParticipants(list []models.Participant, ids []string) ([]models.Participant, bool) {
	if len(ids) != len(list) {
		return nil, false
	}
	out := make([]models.Participant, 0, len(list))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, false
		}
		seen[id] = true
		i := findParticipant(list, id)
		if i < 0 {
			return nil, false
		}
		out = append(out, list[i])
	}
	return out, true
}
