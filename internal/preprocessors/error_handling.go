// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"author-scan/internal/docparse"
	"author-scan/internal/document"
)

// ErrorType classifies acquisition failures for presentation
type ErrorType string

const (
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeDecode            ErrorType = "decode_failed"
	ErrorTypeParsingFailed     ErrorType = "parsing_failed"
	ErrorTypeTimeout           ErrorType = "timeout"
	ErrorTypeCancelled         ErrorType = "cancelled"
	ErrorTypeUnknown           ErrorType = "unknown"
)

var (
	// ErrUnsupportedFormat matches UnsupportedFormatError
	ErrUnsupportedFormat = document.ErrUnsupportedFormat
	// ErrDecode matches DecodeError
	ErrDecode = errors.New("invalid UTF-8 text")
	// ErrParse matches ParseError and ParseTimeoutError
	ErrParse = errors.New("document could not be parsed")
	// ErrParseTimeout matches ParseTimeoutError
	ErrParseTimeout = errors.New("document parse timed out")
)

// UnsupportedFormatError is raised before any parsing for an unknown format tag
type UnsupportedFormatError = document.UnsupportedFormatError

// DecodeError reports the first invalid UTF-8 sequence of a text document
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid byte sequence at offset %d", ErrDecode, e.Offset)
}

// Is lets errors.Is(err, ErrDecode) match
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// ParseError carries the diagnostics of both the primary and the fallback
// attempt for a format
type ParseError struct {
	Format         document.Format
	PrimaryMethod  string
	Primary        error
	FallbackMethod string
	Fallback       error
}

func (e *ParseError) Error() string {
	var parts []string
	if e.Primary != nil {
		parts = append(parts, fmt.Sprintf("primary (%s): %v", e.PrimaryMethod, e.Primary))
	}
	if e.Fallback != nil {
		parts = append(parts, fmt.Sprintf("fallback (%s): %v", e.FallbackMethod, e.Fallback))
	}
	return fmt.Sprintf("failed to parse %s document: %s", e.Format, strings.Join(parts, "; "))
}

// Unwrap exposes both causes to errors.Is and errors.As
func (e *ParseError) Unwrap() []error {
	var errs []error
	if e.Primary != nil {
		errs = append(errs, e.Primary)
	}
	if e.Fallback != nil {
		errs = append(errs, e.Fallback)
	}
	return errs
}

// Is lets errors.Is(err, ErrParse) match
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// TimedOut reports whether either attempt hit the parse timeout
func (e *ParseError) TimedOut() bool {
	return errors.Is(e.Primary, docparse.ErrTimeout) || errors.Is(e.Fallback, docparse.ErrTimeout)
}

// ParseTimeoutError is a ParseError where at least one attempt timed out
type ParseTimeoutError struct {
	Format  document.Format
	Timeout time.Duration
	Cause   *ParseError
}

func (e *ParseTimeoutError) Error() string {
	msg := fmt.Sprintf("parsing %s document timed out after %s", e.Format, e.Timeout)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the combined parse diagnostic
func (e *ParseTimeoutError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Is lets errors.Is(err, ErrParseTimeout) match
func (e *ParseTimeoutError) Is(target error) bool {
	return target == ErrParseTimeout
}

// ClassifyError maps an acquisition error to its ErrorType
func ClassifyError(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrorTypeUnsupportedFormat
	case errors.Is(err, ErrDecode):
		return ErrorTypeDecode
	case errors.Is(err, ErrParseTimeout):
		return ErrorTypeTimeout
	case errors.Is(err, ErrParse):
		return ErrorTypeParsingFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeCancelled
	default:
		return ErrorTypeUnknown
	}
}
