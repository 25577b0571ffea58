// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ktanabe/meetslot/cliparse"
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/store"
)

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3320,
		BaseURL:         "http://localhost:3320",
		DefaultTimeZone: "Asia/Tokyo",
	}
}

// NewTestStore creates a fresh store matching GetTestConfig
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	cfg := GetTestConfig()
	return store.New(store.Options{
		BaseURL:         cfg.BaseURL,
		DefaultTimeZone: cfg.DefaultTimeZone,
	})
}

// CreateTestProject creates a project and returns its snapshot plus both
// share tokens
func CreateTestProject(t *testing.T, s *store.Store) (snap models.ProjectSnapshot, adminToken, participantToken string) {
	t.Helper()

	snap, err := s.CreateProject(models.CreateProjectRequest{
		Name:        "Test Project",
		Description: "A test scheduling project",
	})
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return snap, snap.ShareTokens.Admin.Token, snap.ShareTokens.Participant.Token
}

// AddTestCandidate adds a candidate slot with a one-hour time range
// starting at the given offset from a fixed base date
func AddTestCandidate(t *testing.T, s *store.Store, projectID, summary string, dayOffset int) models.Candidate {
	t.Helper()

	start := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset)
	end := start.Add(time.Hour)
	c, err := s.AddCandidate(projectID, models.CandidateInput{
		Summary: summary,
		Start:   &start,
		End:     &end,
	})
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// AddTestParticipant adds an active participant
func AddTestParticipant(t *testing.T, s *store.Store, projectID, name string) models.Participant {
	t.Helper()

	p, err := s.AddParticipant(projectID, models.ParticipantInput{Name: name})
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return p
}

// SetTestResponse records a mark for a participant/candidate pair
func SetTestResponse(t *testing.T, s *store.Store, projectID, participantID, candidateID, mark string) models.Response {
	t.Helper()

	r, err := s.CreateResponse(projectID, participantID, candidateID, models.ResponseInput{Mark: mark})
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return r
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
