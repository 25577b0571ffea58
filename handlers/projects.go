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

type ProjectHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewProjectHandler(s *store.Store, cfg cliparse.Config) *ProjectHandler {
	return &ProjectHandler{store: s, cfg: cfg}
}

// resolveToken maps the {token} path value to a project and token kind.
// Writes a 404 and returns ok=false when the token is unknown.
func resolveToken(w http.ResponseWriter, r *http.Request, s *store.Store) (projectID, kind string, ok bool) {
	token := r.PathValue("token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "token is required")
		return "", "", false
	}
	projectID, kind, err := s.ResolveToken(token)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Project not found")
		return "", "", false
	}
	return projectID, kind, true
}

// requireAdmin rejects organizer operations addressed with the
// participant token.
func requireAdmin(w http.ResponseWriter, kind string) bool {
	if kind != models.TokenAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin token required")
		return false
	}
	return true
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	snap, err := h.store.CreateProject(req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("project created", "project_id", snap.Meta.ID, "name", snap.Meta.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProjectResponse{
		Snapshot: snap,
		AdminURL: snap.ShareTokens.Admin.URL,
		ShareURL: snap.ShareTokens.Participant.URL,
	})
}

// GetSnapshot handles GET /p/{token}
func (h *ProjectHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}

	snap, err := h.store.Snapshot(projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// The participant view never sees the admin token.
	if kind != models.TokenAdmin {
		snap.ShareTokens.Admin = nil
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// GetTallies handles GET /p/{token}/tallies
func (h *ProjectHandler) GetTallies(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}

	summary, err := h.store.Tallies(projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summary)
}

// UpdateMeta handles PUT /p/{token}/meta
func (h *ProjectHandler) UpdateMeta(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req models.MetaInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	meta, err := h.store.UpdateMeta(projectID, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("meta updated", "project_id", projectID, "version", meta.Version)
	middleware.JSONResponse(w, http.StatusOK, meta)
}
