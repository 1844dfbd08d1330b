// Package errs defines the error taxonomy shared by the resolution pipeline,
// the format layer, and the transport client.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrVideoUnavailable indicates that the requested video cannot be accessed.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrPrivate indicates that the video is private and cannot be resolved.
	ErrPrivate = errors.New("video is private")
	// ErrAgeRestricted indicates that the video has an age restriction.
	ErrAgeRestricted = errors.New("age restricted")
	// ErrCipherFailed indicates failure during signature deciphering.
	ErrCipherFailed = errors.New("cipher failed")
	// ErrGeoBlocked indicates the video is not available in the current region.
	ErrGeoBlocked = errors.New("geo blocked")
	// ErrRateLimited indicates throttling or rate limiting by the remote service.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoVideoID indicates that no video id could be derived from the input.
	ErrNoVideoID = errors.New("no video id found")
	// ErrInvalidID indicates the id does not match the expected 11-character format.
	ErrInvalidID = errors.New("video id does not match expected format")
	// ErrNotYouTubeDomain indicates a URL that does not belong to a known host.
	ErrNotYouTubeDomain = errors.New("not a youtube domain")

	// ErrNoFormats indicates that resolution left zero usable formats.
	ErrNoFormats = errors.New("no formats found")
	// ErrNoMetadata indicates that every metadata endpoint was exhausted.
	ErrNoMetadata = errors.New("unable to retrieve video metadata")
	// ErrNoPlayerScript indicates the player script URL could not be located
	// while at least one format required deciphering.
	ErrNoPlayerScript = errors.New("unable to find player script")
)

// UnrecoverableError marks failures that must abort the endpoint pipeline
// immediately: explicit playability errors, private videos, identity token
// problems. It is never retried and never falls through to another endpoint.
type UnrecoverableError struct {
	Reason string
	// Err optionally names the sentinel category of the failure.
	Err error
}

func (e *UnrecoverableError) Error() string {
	return e.Reason
}

func (e *UnrecoverableError) Unwrap() error {
	return e.Err
}

// NewUnrecoverable creates an UnrecoverableError with the given reason.
func NewUnrecoverable(reason string) *UnrecoverableError {
	return &UnrecoverableError{Reason: reason}
}

// Unrecoverable wraps a sentinel with a reason while keeping errors.Is
// against the sentinel working.
func Unrecoverable(err error, reason string) *UnrecoverableError {
	return &UnrecoverableError{Reason: reason, Err: err}
}

// IsUnrecoverable reports whether err is (or wraps) an UnrecoverableError.
func IsUnrecoverable(err error) bool {
	var ue *UnrecoverableError
	return errors.As(err, &ue)
}

// StatusError is a typed transport error carrying the final HTTP status code.
// It distinguishes client errors (do not retry) from server errors (retryable).
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// IsClientError reports whether the status is a 4xx.
func (e *StatusError) IsClientError() bool {
	return e.Code >= 400 && e.Code < 500
}

// Retryable reports whether the failure may succeed on a later attempt.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}

// IsRetryable reports whether err may be retried: unrecoverable errors and
// 4xx transport errors are terminal, everything else is worth another attempt.
func IsRetryable(err error) bool {
	if IsUnrecoverable(err) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

// NoFormatError reports that no format matched the requested selection policy.
type NoFormatError struct {
	Quality string
}

func (e *NoFormatError) Error() string {
	return fmt.Sprintf("no such format found: %s", e.Quality)
}
