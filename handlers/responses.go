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

type ResponseHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewResponseHandler(s *store.Store, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{store: s, cfg: cfg}
}

// Create handles POST /p/{token}/responses/{participantID}/{candidateID}
func (h *ResponseHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}
	participantID := r.PathValue("participantID")
	candidateID := r.PathValue("candidateID")

	var req models.ResponseInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.store.CreateResponse(projectID, participantID, candidateID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("response created",
		"project_id", projectID,
		"participant_id", participantID,
		"candidate_id", candidateID,
		"mark", resp.Mark,
	)
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// Update handles PUT /p/{token}/responses/{participantID}/{candidateID}
func (h *ResponseHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}
	participantID := r.PathValue("participantID")
	candidateID := r.PathValue("candidateID")

	var req models.ResponseInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.store.UpdateResponse(projectID, participantID, candidateID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("response updated",
		"project_id", projectID,
		"participant_id", participantID,
		"candidate_id", candidateID,
		"mark", resp.Mark,
		"version", resp.Version,
	)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Delete handles DELETE /p/{token}/responses/{participantID}/{candidateID}
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}
	participantID := r.PathValue("participantID")
	candidateID := r.PathValue("candidateID")

	var req models.VersionedRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.DeleteResponse(projectID, participantID, candidateID, req.Version); err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("response deleted",
		"project_id", projectID,
		"participant_id", participantID,
		"candidate_id", candidateID,
	)
	w.WriteHeader(http.StatusNoContent)
}
