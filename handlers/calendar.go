// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/ktanabe/meetslot/cliparse"
	"github.com/ktanabe/meetslot/ics"
	"github.com/ktanabe/meetslot/middleware"
	"github.com/ktanabe/meetslot/store"
)

// maxImportBytes caps uploaded calendar documents.
const maxImportBytes = 1 << 20

type CalendarHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewCalendarHandler(s *store.Store, cfg cliparse.Config) *CalendarHandler {
	return &CalendarHandler{store: s, cfg: cfg}
}

// Export handles GET /p/{token}/calendar.ics
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	projectID, _, ok := resolveToken(w, r, h.store)
	if !ok {
		return
	}

	data, err := h.store.ExportCalendar(projectID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meetslot.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write calendar export", "error", err)
	}
}

// ImportPreview handles POST /p/{token}/import/preview
// Produces the reconciliation decision list without mutating anything.
func (h *CalendarHandler) ImportPreview(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read calendar data")
		return
	}
	defer r.Body.Close()

	plan, err := h.store.PlanImport(projectID, data)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calendar document")
		return
	}

	slog.Info("import planned",
		"project_id", projectID,
		"entries", len(plan.Entries),
		"skipped_no_uid", plan.Stats.SkippedNoUID,
		"skipped_no_dtstamp", plan.Stats.SkippedNoDTStamp,
	)
	middleware.JSONResponse(w, http.StatusOK, plan)
}

// ImportCommit handles POST /p/{token}/import/commit
// Applies the entries the caller accepted, in one atomic pass.
func (h *CalendarHandler) ImportCommit(w http.ResponseWriter, r *http.Request) {
	projectID, kind, ok := resolveToken(w, r, h.store)
	if !ok || !requireAdmin(w, kind) {
		return
	}

	var req struct {
		Entries []ics.PlanEntry `json:"entries"`
	}
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.store.CommitImport(projectID, req.Entries)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("import committed", "project_id", projectID, "added", result.Added, "updated", result.Updated)
	middleware.JSONResponse(w, http.StatusOK, result)
}
