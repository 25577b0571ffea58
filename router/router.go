// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/ktanabe/meetslot/cliparse"
	"github.com/ktanabe/meetslot/handlers"
	"github.com/ktanabe/meetslot/middleware"
	"github.com/ktanabe/meetslot/store"
)

func NewRouter(s *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(s, cfg)
	candidateHandler := handlers.NewCandidateHandler(s, cfg)
	participantHandler := handlers.NewParticipantHandler(s, cfg)
	responseHandler := handlers.NewResponseHandler(s, cfg)
	shareHandler := handlers.NewShareHandler(s, cfg)
	calendarHandler := handlers.NewCalendarHandler(s, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Project lifecycle
	mux.HandleFunc("POST /projects", middleware.WithLogging(projectHandler.CreateProject))
	mux.HandleFunc("GET /p/{token}", middleware.WithLogging(projectHandler.GetSnapshot))
	mux.HandleFunc("GET /p/{token}/tallies", middleware.WithLogging(projectHandler.GetTallies))
	mux.HandleFunc("PUT /p/{token}/meta", middleware.WithLogging(projectHandler.UpdateMeta))

	// Candidates (admin operations)
	mux.HandleFunc("POST /p/{token}/candidates", middleware.WithLogging(candidateHandler.Add))
	mux.HandleFunc("PUT /p/{token}/candidates/order", middleware.WithLogging(candidateHandler.Reorder))
	mux.HandleFunc("PUT /p/{token}/candidates/{id}", middleware.WithLogging(candidateHandler.Update))
	mux.HandleFunc("DELETE /p/{token}/candidates/{id}", middleware.WithLogging(candidateHandler.Delete))

	// Participants
	mux.HandleFunc("POST /p/{token}/participants", middleware.WithLogging(participantHandler.Add))
	mux.HandleFunc("PUT /p/{token}/participants/order", middleware.WithLogging(participantHandler.Reorder))
	mux.HandleFunc("PUT /p/{token}/participants/{id}", middleware.WithLogging(participantHandler.Update))
	mux.HandleFunc("DELETE /p/{token}/participants/{id}", middleware.WithLogging(participantHandler.Delete))

	// Responses
	mux.HandleFunc("POST /p/{token}/responses/{participantID}/{candidateID}", middleware.WithLogging(responseHandler.Create))
	mux.HandleFunc("PUT /p/{token}/responses/{participantID}/{candidateID}", middleware.WithLogging(responseHandler.Update))
	mux.HandleFunc("DELETE /p/{token}/responses/{participantID}/{candidateID}", middleware.WithLogging(responseHandler.Delete))

	// Share tokens (admin operations)
	mux.HandleFunc("POST /p/{token}/share/generate", middleware.WithLogging(shareHandler.Generate))
	mux.HandleFunc("POST /p/{token}/share/rotate", middleware.WithLogging(shareHandler.Rotate))
	mux.HandleFunc("POST /p/{token}/share/invalidate", middleware.WithLogging(shareHandler.Invalidate))

	// Calendar
	mux.HandleFunc("GET /p/{token}/calendar.ics", middleware.WithLogging(calendarHandler.Export))
	mux.HandleFunc("POST /p/{token}/import/preview", middleware.WithLogging(calendarHandler.ImportPreview))
	mux.HandleFunc("POST /p/{token}/import/commit", middleware.WithLogging(calendarHandler.ImportCommit))

	// Root endpoint; {$} keeps this from swallowing unmatched GET paths
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("meetslot API v1"))
	})

	return mux
}
