// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the declared format tag of an uploaded document
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatEPUB Format = "epub"
	FormatTXT  Format = "txt"
)

// SupportedFormats lists the accepted format tags in display order
var SupportedFormats = []Format{FormatPDF, FormatEPUB, FormatTXT}

// ErrUnsupportedFormat is matched by every UnsupportedFormatError via errors.Is
var ErrUnsupportedFormat = errors.New("unsupported file format")

// UnsupportedFormatError is returned before any parsing when the format tag
// (or filename extension) is not one of pdf, epub or txt
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("%s: missing file extension (expected one of %s)", ErrUnsupportedFormat, supportedList())
	}
	return fmt.Sprintf("%s %q (expected one of %s)", ErrUnsupportedFormat, e.Format, supportedList())
}

// Is lets errors.Is(err, ErrUnsupportedFormat) match
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// Document is an uploaded file: raw bytes plus the declared format.
// It is consumed once by text acquisition and never retained.
type Document struct {
	Name   string
	Format Format
	Data   []byte
}

// New builds a Document from a filename and its content, resolving the
// format from the extension
func New(name string, data []byte) (*Document, error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:   filepath.Base(name),
		Format: format,
		Data:   data,
	}, nil
}

// FormatFromFilename maps a filename extension to its format tag
func FormatFromFilename(name string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return ParseFormat(ext)
}

// ParseFormat validates a bare format tag
func ParseFormat(tag string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(tag))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatEPUB:
		return FormatEPUB, nil
	case FormatTXT:
		return FormatTXT, nil
	default:
		return "", &UnsupportedFormatError{Format: tag}
	}
}

// Extensions returns the accepted filename extensions, e.g. for an upload form
func Extensions() []string {
	exts := make([]string, 0, len(SupportedFormats))
	for _, f := range SupportedFormats {
		exts = append(exts, "."+string(f))
	}
	return exts
}

func supportedList() string {
	return strings.Join(Extensions(), ", ")
}
