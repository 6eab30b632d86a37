// Package review implements tag-constrained review generation: a structured
// tag selection plus optional persona attributes is turned into a bounded
// natural-language review, with best-effort usage accounting.
package review

import (
	"errors"
	"fmt"
)

// Base error definitions for the generation pipeline.
var (
	// ErrMissingConfiguration means the completion backend credentials are
	// absent. Checked eagerly, before any prompt is composed.
	ErrMissingConfiguration = errors.New("completion backend is not configured")

	// ErrEmptySelection means the effective tag selection is empty after
	// none-flags are applied. The caller must resubmit with a selection.
	ErrEmptySelection = errors.New("no effective tags selected")

	// ErrUpstream means the completion backend failed: transport error,
	// timeout, or an unusable response.
	ErrUpstream = errors.New("completion backend failure")
)

// ErrorClass represents the category of error for response status mapping.
type ErrorClass int

const (
	// ErrorClassClient covers caller mistakes: empty selection, bad input.
	ErrorClassClient ErrorClass = iota

	// ErrorClassServer covers configuration and upstream failures.
	ErrorClassServer

	// ErrorClassUnknown covers anything unclassified; treated as server-side.
	ErrorClassUnknown
)

// String returns the string representation of ErrorClass.
func (e ErrorClass) String() string {
	switch e {
	case ErrorClassClient:
		return "client"
	case ErrorClassServer:
		return "server"
	default:
		return "unknown"
	}
}

// Classify maps an error from Generate to its response class.
func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrEmptySelection):
		return ErrorClassClient
	case errors.Is(err, ErrMissingConfiguration), errors.Is(err, ErrUpstream):
		return ErrorClassServer
	default:
		return ErrorClassUnknown
	}
}

// upstreamError wraps a backend failure so callers can match ErrUpstream
// while internal logs keep the full detail.
func upstreamError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}
