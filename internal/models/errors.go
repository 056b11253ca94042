package models

import (
	"errors"
	"fmt"
	"time"
)

// Custom errors
var (
	ErrInvalidRequest   = errors.New("invalid investment request")
	ErrInsufficientData = errors.New("insufficient price data")
	ErrUpstreamData     = errors.New("upstream data error")
	ErrRiskUnavailable  = errors.New("risk data unavailable")
	ErrNotFound         = errors.New("instrument not found")
)

// InsufficientDataError reports a series with no usable observation for the
// requested window.
type InsufficientDataError struct {
	InstrumentID string
	Start        time.Time
	End          time.Time
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price data for %s between %s and %s",
		e.InstrumentID, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// NewInsufficientDataError creates a new insufficient data error
func NewInsufficientDataError(instrumentID string, start, end time.Time) *InsufficientDataError {
	return &InsufficientDataError{InstrumentID: instrumentID, Start: start, End: end}
}

// UpstreamDataError reports a provider call that failed or returned malformed
// data, as opposed to a legitimate gap in the data itself.
type UpstreamDataError struct {
	Provider string
	Key      string
	Cause    error
}

func (e *UpstreamDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: upstream error for %q: %v", e.Provider, e.Key, e.Cause)
	}
	return fmt.Sprintf("%s: upstream error for %q", e.Provider, e.Key)
}

func (e *UpstreamDataError) Unwrap() error {
	return ErrUpstreamData
}

// NewUpstreamDataError creates a new upstream data error
func NewUpstreamDataError(provider, key string, cause error) *UpstreamDataError {
	return &UpstreamDataError{Provider: provider, Key: key, Cause: cause}
}

// InvalidRequestError reports a request rejected before simulation begins.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

func (e *InvalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

// NewInvalidRequestError creates a new invalid request error
func NewInvalidRequestError(field, reason string) *InvalidRequestError {
	return &InvalidRequestError{Field: field, Reason: reason}
}
