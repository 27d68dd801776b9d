package estimate

import "errors"

var (
	// ErrInvalidSnapshot indicates the project snapshot cannot be reduced to features
	// (missing dates, end before start, negative counts or amounts).
	ErrInvalidSnapshot = errors.New("invalid project snapshot")

	// ErrModelUnavailable indicates no model artifact exists at the configured path.
	ErrModelUnavailable = errors.New("model artifact unavailable")

	// ErrPrediction indicates the model could not produce a probability
	// (corrupt artifact, feature mismatch, inference failure).
	ErrPrediction = errors.New("model prediction failed")
)
