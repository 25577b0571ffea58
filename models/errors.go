// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"fmt"
	"strings"
)

// ReasonVersionMismatch is the only conflict reason the store produces:
// a stale expected version, or a duplicate identity on create.
const ReasonVersionMismatch = "version_mismatch"

// ValidationError reports a malformed or missing field. It is produced
// before any state is touched, so a failed validation never mutates.
type ValidationError struct {
	Fields []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return "invalid field(s): " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a ValidationError for the named fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ConflictError reports a rejected mutation caused by a stale expected
// version or a duplicate identity on create. Latest always carries the
// authoritative current copy of the entity (or collection) so the caller
// can resynchronize without a second round trip.
type ConflictError struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
	Latest any    `json:"latest"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Kind, e.Reason)
}

// NewConflictError builds a version_mismatch conflict for the given
// entity kind, carrying the authoritative copy.
func NewConflictError(kind string, latest any) *ConflictError {
	return &ConflictError{Kind: kind, Reason: ReasonVersionMismatch, Latest: latest}
}

// NotFoundError reports a reference to an entity id that does not exist.
type NotFoundError struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NewNotFoundError builds a NotFoundError for the given kind and id.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}
