package service

import "errors"

var (
	// ErrInvalidInput marks caller mistakes: missing references, bad field values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAmbiguousProject is returned when a UUID prefix matches several projects.
	ErrAmbiguousProject = errors.New("ambiguous project reference")
)
