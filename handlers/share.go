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

type ShareHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewShareHandler(s *store.Store, cfg cliparse.Config) *ShareHandler {
	return &ShareHandler{store: s, cfg: cfg}
}

// Generate handles POST /p/{token}/share/generate
// Issues any missing or revoked token slots; a no-op when both are live.
func (h *ShareHandler) Generate(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	tokens, err := h.store.GenerateShareTokens(projectID, models.TokenAdmin)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tokens)
}

// Rotate handles POST /p/{token}/share/rotate
// Replaces both tokens; the URL used to reach this endpoint stops working.
func (h *ShareHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req models.VersionedRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tokens, err := h.store.RotateShareTokens(projectID, models.TokenAdmin, req.Version)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("share tokens rotated", "project_id", projectID, "version", tokens.Version)
	middleware.JSONResponse(w, http.StatusOK, tokens)
}

// Invalidate handles POST /p/{token}/share/invalidate
// Revokes exactly one token kind, leaving the other intact.
func (h *ShareHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req struct {
		Kind    string `json:"kind"`
		Version int    `json:"version"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	tokens, err := h.store.InvalidateShareToken(projectID, req.Kind, req.Version)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("share token invalidated", "project_id", projectID, "kind", req.Kind)
	middleware.JSONResponse(w, http.StatusOK, tokens)
}
