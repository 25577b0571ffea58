// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/validate"
)

// GenerateShareTokens issues any missing or revoked token slots. When
// both slots are already live this is a no-op returning the existing
// tokens unchanged; rotation is the explicit path to new tokens.
// Generate takes no expected version because it can never overwrite a
// live token.
func (s *Store) GenerateShareTokens(projectID, generatedBy string) (models.ShareTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.ShareTokens{}, err
	}

	issued := false
	if !tokenLive(ps.shareTokens.Admin) {
		t, err := s.issueTokenLocked(projectID, models.TokenAdmin, generatedBy)
		if err != nil {
			return models.ShareTokens{}, err
		}
		ps.shareTokens.Admin = t
		issued = true
	}
	if !tokenLive(ps.shareTokens.Participant) {
		t, err := s.issueTokenLocked(projectID, models.TokenParticipant, generatedBy)
		if err != nil {
			return models.ShareTokens{}, err
		}
		ps.shareTokens.Participant = t
		issued = true
	}
	if issued {
		ps.shareTokens.Version++
	}
	return ps.shareTokens.Clone(), nil
}

// RotateShareTokens replaces both tokens unconditionally, invalidating
// the old ones. Gated on the shared token version: concurrent rotations
// conflict rather than silently overwrite each other.
func (s *Store) RotateShareTokens(projectID, generatedBy string, version int) (models.ShareTokens, error) {
	if err := validate.Version(version); err != nil {
		return models.ShareTokens{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.ShareTokens{}, err
	}
	if version != ps.shareTokens.Version {
		return models.ShareTokens{}, models.NewConflictError(models.KindShareTokens, ps.shareTokens.Clone())
	}

	tokens, err := s.issueBothLocked(projectID, generatedBy)
	if err != nil {
		return models.ShareTokens{}, err
	}

	s.retireLocked(ps.shareTokens.Admin)
	s.retireLocked(ps.shareTokens.Participant)
	tokens.Version = ps.shareTokens.Version + 1
	ps.shareTokens = tokens
	return ps.shareTokens.Clone(), nil
}

// InvalidateShareToken revokes exactly one token slot, leaving the other
// intact. Gated on the shared token version.
func (s *Store) InvalidateShareToken(projectID, kind string, version int) (models.ShareTokens, error) {
	if kind != models.TokenAdmin && kind != models.TokenParticipant {
		return models.ShareTokens{}, models.NewValidationError("kind")
	}
	if err := validate.Version(version); err != nil {
		return models.ShareTokens{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.ShareTokens{}, err
	}
	if version != ps.shareTokens.Version {
		return models.ShareTokens{}, models.NewConflictError(models.KindShareTokens, ps.shareTokens.Clone())
	}

	slot := ps.shareTokens.Admin
	if kind == models.TokenParticipant {
		slot = ps.shareTokens.Participant
	}
	if !tokenLive(slot) {
		return models.ShareTokens{}, models.NewNotFoundError(models.KindShareTokens, kind)
	}

	s.retireLocked(slot)
	now := s.now()
	slot.RevokedAt = &now
	ps.shareTokens.Version++
	return ps.shareTokens.Clone(), nil
}

func tokenLive(t *models.ShareToken) bool {
	return t != nil && t.RevokedAt == nil
}

func (s *Store) retireLocked(t *models.ShareToken) {
	if t != nil {
		delete(s.tokens, t.Token)
	}
}
