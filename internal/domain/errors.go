package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("source unavailable")
	ErrNotFound    = errors.New("release not found")
	ErrCorrupt     = errors.New("document corrupt")
	ErrNoEntries   = errors.New("no entries segmented")
)

// FetchError reports a failed retrieval. Kind is ErrUnavailable or ErrNotFound.
type FetchError struct {
	Kind   error
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %v", e.Source, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Is(target error) bool { return target == e.Kind }
func (e *FetchError) Unwrap() error        { return e.Err }

// ExtractError reports content that could not be normalized.
type ExtractError struct {
	Kind   error
	Source string
	Err    error
}

func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("extract %s: %v", e.Source, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractError) Is(target error) bool { return target == e.Kind }
func (e *ExtractError) Unwrap() error        { return e.Err }

// ParseError reports a template the parser could not segment.
type ParseError struct {
	Kind   error
	Source string
	Lines  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v (%d lines)", e.Source, e.Kind, e.Lines)
}

func (e *ParseError) Is(target error) bool { return target == e.Kind }

// Unavailable builds a FetchError for an unreachable source.
func Unavailable(source string, err error) error {
	return &FetchError{Kind: ErrUnavailable, Source: source, Err: err}
}

// NotFound builds a FetchError for a missing document.
func NotFound(source string, err error) error {
	return &FetchError{Kind: ErrNotFound, Source: source, Err: err}
}

// Corrupt builds an ExtractError.
func Corrupt(source string, err error) error {
	return &ExtractError{Kind: ErrCorrupt, Source: source, Err: err}
}
