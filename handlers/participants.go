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

type ParticipantHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewParticipantHandler(s *store.Store, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{store: s, cfg: cfg}
}

// Add handles POST /p/{token}/participants
// Participants register themselves, so the participant token is enough.
func (h *ParticipantHandler) Add(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}

	var req models.ParticipantInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.store.AddParticipant(projectID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("participant added", "project_id", projectID, "participant_id", p.ID, "name", p.Name)

	// The access token is returned once, at creation.
	middleware.JSONResponse(w, http.StatusCreated, struct {
		models.Participant
		AccessToken string `json:"access_token"`
	}{p, p.AccessToken})
}

// Update handles PUT /p/{token}/participants/{id}
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}
	participantID := r.PathValue("id")

	var req models.ParticipantInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.store.UpdateParticipant(projectID, participantID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("participant updated", "project_id", projectID, "participant_id", p.ID, "version", p.Version)
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Delete handles DELETE /p/{token}/participants/{id}
func (h *ParticipantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}
	participantID := r.PathValue("id")

	var req models.VersionedRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.DeleteParticipant(projectID, participantID, req.Version); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("participant deleted", "project_id", projectID, "participant_id", participantID)
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /p/{token}/participants/order
func (h *ParticipantHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req models.ReorderRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.ReorderParticipants(projectID, req); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("participants reordered", "project_id", projectID)
	w.WriteHeader(http.StatusNoContent)
}
