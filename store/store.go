// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ktanabe/meetslot/auth"
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/tally"
	"github.com/ktanabe/meetslot/validate"
)

// Options configures a Store.
type Options struct {
	// BaseURL is the trusted base for constructed share URLs.
	BaseURL string

	// DefaultTimeZone fills in when a project or candidate payload
	// carries no zone.
	DefaultTimeZone string

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Store owns all project state and is its sole mutation authority.
// Every operation runs to completion under one mutex, the process-local
// equivalent of the single-threaded model the version checks rely on.
// A failed operation leaves state exactly as it was before the call.
type Store struct {
	mu       sync.Mutex
	opts     Options
	now      func() time.Time
	projects map[string]*projectState
	tokens   map[string]tokenRef
}

type tokenRef struct {
	projectID string
	kind      string
}

type projectState struct {
	meta         models.ProjectMeta
	candidates   []models.Candidate
	participants []models.Participant
	responses    []models.Response
	shareTokens  models.ShareTokens

	candidatesVersion       int
	candidatesListVersion   int
	participantsVersion     int
	participantsListVersion int
	responsesVersion        int
}

// New creates an empty store. Constructed once per process; projects are
// created on demand and never torn down mid-process.
func New(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		opts:     opts,
		now:      now,
		projects: make(map[string]*projectState),
		tokens:   make(map[string]tokenRef),
	}
}

// CreateProject creates a project with version-1 meta and freshly issued
// share tokens, and returns its full snapshot.
func (s *Store) CreateProject(req models.CreateProjectRequest) (models.ProjectSnapshot, error) {
	tz := req.DefaultTimeZone
	if tz == "" {
		tz = s.opts.DefaultTimeZone
	}
	in := models.MetaInput{Name: req.Name, Description: req.Description, DefaultTimeZone: tz}
	if err := validate.Meta(in); err != nil {
		return models.ProjectSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ps := &projectState{
		meta: models.ProjectMeta{
			ID:              uuid.NewString(),
			Name:            in.Name,
			Description:     in.Description,
			DefaultTimeZone: in.DefaultTimeZone,
			CreatedAt:       now,
			UpdatedAt:       now,
			Version:         1,
		},
		candidatesVersion:       1,
		candidatesListVersion:   1,
		participantsVersion:     1,
		participantsListVersion: 1,
		responsesVersion:        1,
	}

	tokens, err := s.issueBothLocked(ps.meta.ID, "")
	if err != nil {
		return models.ProjectSnapshot{}, err
	}
	tokens.Version = 1
	ps.shareTokens = tokens

	s.projects[ps.meta.ID] = ps
	return s.snapshotLocked(ps), nil
}

// Snapshot returns the full current state of a project plus every
// version counter, so subsequent writes can target them. Reads never
// take a version.
func (s *Store) Snapshot(projectID string) (models.ProjectSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.ProjectSnapshot{}, err
	}
	return s.snapshotLocked(ps), nil
}

// ResolveToken maps a live share token to its project and kind
// ("admin" or "participant").
func (s *Store) ResolveToken(token string) (projectID, kind string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.tokens[token]
	if !ok {
		return "", "", models.NewNotFoundError(models.KindProject, token)
	}
	return ref.projectID, ref.kind, nil
}

// Tallies recomputes the derived aggregates for a project.
func (s *Store) Tallies(projectID string) (tally.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return tally.Summary{}, err
	}
	return tally.Compute(ps.candidates, ps.participants, ps.responses), nil
}

// UpdateMeta replaces the project meta whole, gated on its expected
// version. Validation runs before the version check.
func (s *Store) UpdateMeta(projectID string, in models.MetaInput) (models.ProjectMeta, error) {
	if err := validate.Meta(in); err != nil {
		return models.ProjectMeta{}, err
	}
	if err := validate.Version(in.Version); err != nil {
		return models.ProjectMeta{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.projectLocked(projectID)
	if err != nil {
		return models.ProjectMeta{}, err
	}
	if in.Version != ps.meta.Version {
		return models.ProjectMeta{}, models.NewConflictError(models.KindMeta, ps.meta)
	}

	ps.meta.Name = in.Name
	ps.meta.Description = in.Description
	ps.meta.DefaultTimeZone = in.DefaultTimeZone
	ps.meta.UpdatedAt = s.now()
	ps.meta.Version++
	return ps.meta, nil
}

func (s *Store) projectLocked(projectID string) (*projectState, error) {
	ps, ok := s.projects[projectID]
	if !ok {
		return nil, models.NewNotFoundError(models.KindProject, projectID)
	}
	return ps, nil
}

func (s *Store) snapshotLocked(ps *projectState) models.ProjectSnapshot {
	snap := models.ProjectSnapshot{
		Meta:         ps.meta,
		Candidates:   ps.candidates,
		Participants: ps.participants,
		Responses:    ps.responses,
		ShareTokens:  ps.shareTokens,
		Versions:     s.versionsLocked(ps),
	}
	// Detach from store-owned memory.
	return snap.Clone()
}

func (s *Store) versionsLocked(ps *projectState) models.Versions {
	return models.Versions{
		Meta:             ps.meta.Version,
		Candidates:       ps.candidatesVersion,
		CandidatesList:   ps.candidatesListVersion,
		Participants:     ps.participantsVersion,
		ParticipantsList: ps.participantsListVersion,
		Responses:        ps.responsesVersion,
		ShareTokens:      ps.shareTokens.Version,
	}
}

func (s *Store) issueTokenLocked(projectID, kind, generatedBy string) (*models.ShareToken, error) {
	token, err := auth.GenerateToken(auth.TokenLength)
	if err != nil {
		return nil, err
	}
	s.tokens[token] = tokenRef{projectID: projectID, kind: kind}
	return &models.ShareToken{
		Token:           token,
		URL:             auth.BuildShareURL(s.opts.BaseURL, kind, token),
		IssuedAt:        s.now(),
		LastGeneratedBy: generatedBy,
	}, nil
}

func (s *Store) issueBothLocked(projectID, generatedBy string) (models.ShareTokens, error) {
	admin, err := s.issueTokenLocked(projectID, models.TokenAdmin, generatedBy)
	if err != nil {
		return models.ShareTokens{}, err
	}
	participant, err := s.issueTokenLocked(projectID, models.TokenParticipant, generatedBy)
	if err != nil {
		delete(s.tokens, admin.Token)
		return models.ShareTokens{}, err
	}
	return models.ShareTokens{Admin: admin, Participant: participant}, nil
}
