// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the MeetSlot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(s, cfg)

# Endpoints

Health:

	GET /health

Project lifecycle:

	POST /projects           - Create project
	GET  /p/{token}          - Project snapshot
	GET  /p/{token}/tallies  - Availability tallies
	PUT  /p/{token}/meta     - Update project metadata (admin)

Candidates (admin):

	POST   /p/{token}/candidates        - Add candidate slot
	PUT    /p/{token}/candidates/order  - Reorder candidates
	PUT    /p/{token}/candidates/{id}   - Update candidate
	DELETE /p/{token}/candidates/{id}   - Delete candidate

Participants:

	POST   /p/{token}/participants        - Add participant
	PUT    /p/{token}/participants/order  - Reorder participants (admin)
	PUT    /p/{token}/participants/{id}   - Update participant
	DELETE /p/{token}/participants/{id}   - Delete participant (admin)

Responses:

	POST   /p/{token}/responses/{participantID}/{candidateID} - Record mark
	PUT    /p/{token}/responses/{participantID}/{candidateID} - Change mark
	DELETE /p/{token}/responses/{participantID}/{candidateID} - Clear mark

Share tokens (admin):

	POST /p/{token}/share/generate   - Issue missing share URLs
	POST /p/{token}/share/rotate     - Replace both share URLs
	POST /p/{token}/share/invalidate - Revoke one share URL

Calendar:

	GET  /p/{token}/calendar.ics   - Export candidates as iCalendar
	POST /p/{token}/import/preview - Classify an uploaded calendar
	POST /p/{token}/import/commit  - Apply a reviewed import plan

# Handler Initialization

The router creates handler instances with dependency injection:

	projectHandler := handlers.NewProjectHandler(s, cfg)
	candidateHandler := handlers.NewCandidateHandler(s, cfg)
	participantHandler := handlers.NewParticipantHandler(s, cfg)
	responseHandler := handlers.NewResponseHandler(s, cfg)
	shareHandler := handlers.NewShareHandler(s, cfg)
	calendarHandler := handlers.NewCalendarHandler(s, cfg)

All handlers receive the store and configuration.
*/
package router
