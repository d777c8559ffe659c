// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package docparse is a general-purpose in-process document parser. It sniffs
// the content type of a byte stream and returns its plain text.
package docparse

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"author-scan/internal/htmltext"
)

// Content types reported in Result.ContentType
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeEPUB = "application/epub+zip"
	ContentTypeZIP  = "application/zip"
	ContentTypeText = "text/plain; charset=utf-8"
)

// DefaultTimeout bounds a single parse
const DefaultTimeout = 60 * time.Second

var (
	// ErrTimeout is returned when a parse exceeds the configured timeout
	ErrTimeout = errors.New("document parse timed out")
	// ErrNoText is returned when a document parses but holds no text
	ErrNoText = errors.New("no text content")
	// ErrUnknownContent is returned when the content type cannot be sniffed
	ErrUnknownContent = errors.New("unrecognized document content")
)

// Result is the single tagged output of a parse
type Result struct {
	ContentType string
	Text        string
	Metadata    map[string]string
}

// Options configures a Service
type Options struct {
	// Timeout bounds each parse; zero disables the bound
	Timeout time.Duration
}

// Service parses documents held in memory or on disk
type Service struct {
	timeout time.Duration
}

// NewService creates a parsing service
func NewService(opts Options) *Service {
	return &Service{timeout: opts.Timeout}
}

// Timeout returns the per-parse bound
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// ParseFile reads and parses a document from disk
func (s *Service) ParseFile(ctx context.Context, filePath string) (*Result, error) {
	return WithTimeout(ctx, s.timeout, func() (*Result, error) {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(filePath), err)
		}
		return parse(data)
	})
}

// ParseBytes parses an in-memory document
func (s *Service) ParseBytes(ctx context.Context, data []byte) (*Result, error) {
	return WithTimeout(ctx, s.timeout, func() (*Result, error) {
		return parse(data)
	})
}

// WithTimeout runs fn under the timeout and returns ErrTimeout when it
// expires. A zero timeout only honours ctx cancellation. fn keeps running in
// its goroutine after a timeout; its result is discarded.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("parser panic: %v", r)}
			}
		}()
		v, err := fn()
		done <- outcome{value: v, err: err}
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return zero, ctx.Err()
	}
}

// Sniff returns the content type of data, or "" when it is not recognized
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return ContentTypePDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		if hasEPUBMimetype(data) {
			return ContentTypeEPUB
		}
		return ContentTypeZIP
	case utf8.Valid(data):
		return ContentTypeText
	}
	return ""
}

// hasEPUBMimetype checks the first local file header for the OCF mimetype
// entry, which is stored first and uncompressed
func hasEPUBMimetype(data []byte) bool {
	const header = 30
	if len(data) < header {
		return false
	}
	nameLen := int(binary.LittleEndian.Uint16(data[26:28]))
	extraLen := int(binary.LittleEndian.Uint16(data[28:30]))
	start := header + nameLen + extraLen
	if len(data) < start || string(data[header:header+nameLen]) != "mimetype" {
		return false
	}
	return bytes.HasPrefix(data[start:], []byte(ContentTypeEPUB))
}

func parse(data []byte) (*Result, error) {
	contentType := Sniff(data)

	var (
		res *Result
		err error
	)
	switch contentType {
	case ContentTypePDF:
		res, err = parsePDF(data)
	case ContentTypeEPUB, ContentTypeZIP:
		res, err = parseArchive(data)
	case ContentTypeText:
		res = &Result{Text: strings.TrimPrefix(string(data), "\uFEFF"), Metadata: map[string]string{}}
	default:
		return nil, ErrUnknownContent
	}
	if err != nil {
		return nil, err
	}
	if res.ContentType == "" {
		res.ContentType = contentType
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, ErrNoText
	}
	return res, nil
}

func parsePDF(data []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("error reading PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("error reading PDF text: %w", err)
	}

	return &Result{
		Text: buf.String(),
		Metadata: map[string]string{
			"pages": strconv.Itoa(r.NumPage()),
		},
	}, nil
}

func parseArchive(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}

	var (
		parts   []string
		members int
		isEPUB  bool
	)
	for _, f := range zr.File {
		if f.Name == "mimetype" {
			if body, err := readMember(f); err == nil && strings.TrimSpace(string(body)) == ContentTypeEPUB {
				isEPUB = true
			}
			continue
		}
		if !isContentMember(f.Name) {
			continue
		}
		body, err := readMember(f)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", f.Name, err)
		}
		text, err := htmltext.Extract(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("error converting %s: %w", f.Name, err)
		}
		members++
		if text != "" {
			parts = append(parts, text)
		}
	}

	contentType := ContentTypeZIP
	if isEPUB {
		contentType = ContentTypeEPUB
	}
	return &Result{
		ContentType: contentType,
		Text:        strings.Join(parts, " "),
		Metadata: map[string]string{
			"members": strconv.Itoa(members),
		},
	}, nil
}

// isContentMember reports whether an archive entry is a markup content
// document rather than container or package metadata
func isContentMember(name string) bool {
	if strings.HasPrefix(name, "META-INF/") || strings.HasSuffix(name, "/") {
		return false
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".html", ".htm", ".xml":
		return true
	}
	return false
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
