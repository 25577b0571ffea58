// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"regexp"

	"github.com/ktanabe/meetslot/models"
)

var (
	// Area/City zone names, e.g. "Asia/Tokyo" or "America/Argentina/Ushuaia".
	tzNamePattern = regexp.MustCompile(`^[A-Za-z_]+(?:/[A-Za-z0-9_+\-]+)+$`)

	// Private zone identifiers carried through the vendor extension.
	tzCustomPattern = regexp.MustCompile(`^X-MEETSLOT-[A-Za-z0-9_\-]+$`)

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// TimeZoneName reports whether tz is an acceptable zone identifier:
// either an Area/City name or a private X-MEETSLOT-* identifier.
func TimeZoneName(tz string) bool {
	return tzNamePattern.MatchString(tz) || tzCustomPattern.MatchString(tz)
}

// Version rejects a missing or non-positive expected version. The field
// name is reported as "version" regardless of the entity kind.
func Version(v int) error {
	if v <= 0 {
		return models.NewValidationError("version")
	}
	return nil
}

// Meta validates a project-meta payload.
func Meta(in models.MetaInput) error {
	var fields []string
	if in.Name == "" {
		fields = append(fields, "name")
	}
	if in.DefaultTimeZone == "" || !TimeZoneName(in.DefaultTimeZone) {
		fields = append(fields, "default_time_zone")
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// Candidate validates a candidate payload. End must be strictly after
// Start when both are set.
func Candidate(in models.CandidateInput) error {
	var fields []string
	if in.Summary == "" {
		fields = append(fields, "summary")
	}
	switch in.Status {
	case models.StatusConfirmed, models.StatusTentative, models.StatusCancelled:
	default:
		fields = append(fields, "status")
	}
	if in.Start != nil && in.End != nil && !in.End.After(*in.Start) {
		fields = append(fields, "end")
	}
	if in.TimeZone != "" && !TimeZoneName(in.TimeZone) {
		fields = append(fields, "time_zone")
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// Participant validates a participant payload. Name uniqueness is a
// store-level rule, not checked here.
func Participant(in models.ParticipantInput) error {
	var fields []string
	if in.Name == "" {
		fields = append(fields, "name")
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		fields = append(fields, "email")
	}
	switch in.Status {
	case models.ParticipantActive, models.ParticipantArchived:
	default:
		fields = append(fields, "status")
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}

// Response validates a response payload.
func Response(in models.ResponseInput) error {
	switch in.Mark {
	case models.MarkAttend, models.MarkMaybe, models.MarkDecline:
		return nil
	}
	return models.NewValidationError("mark")
}
