// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ktanabe/meetslot/middleware"
	"github.com/ktanabe/meetslot/models"
)

// writeStoreError maps the store's error taxonomy onto HTTP statuses:
// ValidationError → 422, ConflictError → 409, NotFoundError → 404.
// Conflict bodies carry the authoritative entity so clients can
// resynchronize without an extra read.
func writeStoreError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: ve.Error(),
			Fields:  ve.Fields,
		})
		return
	}

	var ce *models.ConflictError
	if errors.As(err, &ce) {
		middleware.JSONResponse(w, http.StatusConflict, models.ErrorResponse{
			Error:   http.StatusText(http.StatusConflict),
			Message: "Your change could not be applied because something changed elsewhere; refresh and retry",
			Kind:    ce.Kind,
			Reason:  ce.Reason,
			Latest:  ce.Latest,
		})
		return
	}

	var nf *models.NotFoundError
	if errors.As(err, &nf) {
		middleware.JSONResponse(w, http.StatusNotFound, models.ErrorResponse{
			Error:   http.StatusText(http.StatusNotFound),
			Message: nf.ID,
			Kind:    nf.Kind,
		})
		return
	}

	slog.Error("store operation failed", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
}
