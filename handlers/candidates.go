// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ktanabe/meetslot/cliparse"
	"github.com/ktanabe/meetslot/middleware"
	"github.com/ktanabe/meetslot/models"
	"github.com/ktanabe/meetslot/store"
)

type CandidateHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewCandidateHandler(s *store.Store, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{store: s, cfg: cfg}
}

// Add handles POST /p/{token}/candidates
func (h *CandidateHandler) Add(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req models.CandidateInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.store.AddCandidate(projectID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("candidate added", "project_id", projectID, "candidate_id", c.ID)
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// Update handles PUT /p/{token}/candidates/{id}
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}
	candidateID := r.PathValue("id")

	var req models.CandidateInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.store.UpdateCandidate(projectID, candidateID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("candidate updated", "project_id", projectID, "candidate_id", c.ID, "version", c.Version)
	middleware.JSONResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /p/{token}/candidates/{id}
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}
	candidateID := r.PathValue("id")

	var req models.VersionedRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.DeleteCandidate(projectID, candidateID, req.Version); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("candidate deleted", "project_id", projectID, "candidate_id", candidateID)
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /p/{token}/candidates/order
func (h *CandidateHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req models.ReorderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.ReorderCandidates(projectID, req); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("candidates reordered", "project_id", projectID)
	w.WriteHeader(http.StatusNoContent)
}
