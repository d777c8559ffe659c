// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"author-scan/internal/docparse"
	"author-scan/internal/document"
	"author-scan/internal/observability"
	textextractepublib "author-scan/internal/preprocessors/text-extractors/text-extract-epublib"
	textextractpdftextlib "author-scan/internal/preprocessors/text-extractors/text-extract-pdftextlib"
)

// Methods recorded in Acquisition.Method
const (
	MethodDirect   = "direct"
	MethodPrimary  = "primary"
	MethodFallback = "fallback"
)

// Extractor names recorded per attempt
const (
	ExtractorUTF8         = "utf-8 decoder"
	ExtractorDocParser    = "document parser"
	ExtractorPageText     = "page text layer"
	ExtractorEPUBPackage  = "epub container"
	ExtractorDocParserTmp = "document parser (temporary file)"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options configures text acquisition
type Options struct {
	// ParseTimeout bounds every parse attempt; zero disables the bound
	ParseTimeout time.Duration
	// TempDir holds the temporary EPUB copy; empty uses the system default
	TempDir string
	// MaxPDFPages caps the page-by-page fallback; zero reads every page
	MaxPDFPages int
	// PageWorkers bounds concurrent page extraction
	PageWorkers int
}

// DefaultOptions returns the acquisition defaults
func DefaultOptions() Options {
	return Options{ParseTimeout: docparse.DefaultTimeout}
}

// Attempt records one extraction attempt
type Attempt struct {
	Method    string        `json:"method"`
	Extractor string        `json:"extractor"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Acquisition is the text of a document and how it was obtained
type Acquisition struct {
	Text      string
	Method    string
	Extractor string
	Attempts  []Attempt
}

type extractFunc func(ctx context.Context, data []byte) (string, error)

// step is one extractor in a primary/fallback chain. A selfBounded step
// enforces the parse timeout itself so that its cleanup runs before it
// returns.
type step struct {
	name        string
	fn          extractFunc
	selfBounded bool
}

// Acquirer turns raw document bytes into one plain-text string, applying
// the primary/fallback policy of each format
type Acquirer struct {
	opts     Options
	parser   *docparse.Service
	observer *observability.StandardObserver

	pdfPrimary   extractFunc
	pdfFallback  extractFunc
	epubPrimary  extractFunc
	epubFromFile func(ctx context.Context, path string) (string, error)
}

// NewAcquirer creates an acquirer backed by the document parsing service,
// the page text-layer extractor and the EPUB container extractor
func NewAcquirer(opts Options) *Acquirer {
	a := &Acquirer{
		opts:   opts,
		parser: docparse.NewService(docparse.Options{Timeout: opts.ParseTimeout}),
	}

	a.pdfPrimary = func(ctx context.Context, data []byte) (string, error) {
		res, err := a.parser.ParseBytes(ctx, data)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}
	a.pdfFallback = func(ctx context.Context, data []byte) (string, error) {
		content, err := textextractpdftextlib.ExtractText(ctx, data, textextractpdftextlib.Options{
			MaxPages: a.opts.MaxPDFPages,
			Workers:  a.opts.PageWorkers,
		})
		if err != nil {
			return "", err
		}
		return content.Text, nil
	}
	a.epubPrimary = func(_ context.Context, data []byte) (string, error) {
		content, err := textextractepublib.ExtractText(data)
		if err != nil {
			return "", err
		}
		return content.Text, nil
	}
	a.epubFromFile = func(ctx context.Context, path string) (string, error) {
		res, err := a.parser.ParseFile(ctx, path)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}

	return a
}

// SetObserver sets the observability component
func (a *Acquirer) SetObserver(observer *observability.StandardObserver) {
	a.observer = observer
}

// AcquireText validates the format tag and returns the document text
func (a *Acquirer) AcquireText(ctx context.Context, data []byte, formatTag string) (string, error) {
	format, err := document.ParseFormat(formatTag)
	if err != nil {
		return "", err
	}
	acq, err := a.acquire(ctx, data, format)
	if err != nil {
		return "", err
	}
	return acq.Text, nil
}

// Acquire extracts the text of a document and records how it was obtained
func (a *Acquirer) Acquire(ctx context.Context, doc *document.Document) (*Acquisition, error) {
	format, err := document.ParseFormat(string(doc.Format))
	if err != nil {
		return nil, err
	}

	var finishStep func(bool, string)
	if a.observer != nil && a.observer.DebugObserver != nil {
		finishStep = a.observer.DebugObserver.StartStep("text_acquisition", "acquire_"+string(format), doc.Name)
	}
	finishTiming := a.observer.StartTiming("text_acquisition", "acquire_"+string(format), doc.Name)

	acq, err := a.acquire(ctx, doc.Data, format)

	metadata := map[string]interface{}{
		"format":     string(format),
		"size_bytes": len(doc.Data),
		"error_type": string(ClassifyError(err)),
	}
	if err != nil {
		metadata["error"] = err.Error()
	} else {
		metadata["method"] = acq.Method
		metadata["extractor"] = acq.Extractor
		metadata["char_count"] = utf8.RuneCountInString(acq.Text)
	}
	finishTiming(err == nil, metadata)
	if finishStep != nil {
		if err != nil {
			finishStep(false, err.Error())
		} else {
			finishStep(true, fmt.Sprintf("%s via %s (%d chars)", acq.Method, acq.Extractor, len(acq.Text)))
		}
	}

	return acq, err
}

func (a *Acquirer) acquire(ctx context.Context, data []byte, format document.Format) (*Acquisition, error) {
	switch format {
	case document.FormatTXT:
		start := time.Now()
		text, err := DecodeUTF8(data)
		attempt := Attempt{Method: MethodDirect, Extractor: ExtractorUTF8, Duration: time.Since(start)}
		if err != nil {
			return nil, err
		}
		return &Acquisition{Text: text, Method: MethodDirect, Extractor: ExtractorUTF8, Attempts: []Attempt{attempt}}, nil

	case document.FormatPDF:
		return a.withFallback(ctx, format, data,
			step{name: ExtractorDocParser, fn: a.pdfPrimary},
			step{name: ExtractorPageText, fn: a.pdfFallback})

	case document.FormatEPUB:
		return a.withFallback(ctx, format, data,
			step{name: ExtractorEPUBPackage, fn: a.epubPrimary},
			step{name: ExtractorDocParserTmp, fn: a.epubViaTempFile, selfBounded: true})
	}

	return nil, &UnsupportedFormatError{Format: string(format)}
}

// withFallback runs the primary extractor and, on any failure including a
// timeout, the fallback. No partial text survives a double failure.
func (a *Acquirer) withFallback(ctx context.Context, format document.Format, data []byte, primary, fallback step) (*Acquisition, error) {
	acq := &Acquisition{}

	text, err := a.attempt(ctx, acq, MethodPrimary, primary, data)
	if err == nil {
		acq.Text, acq.Method, acq.Extractor = text, MethodPrimary, primary.name
		return acq, nil
	}
	primaryErr := err

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if a.observer != nil && a.observer.DebugObserver != nil {
		a.observer.DebugObserver.LogDetail("text_acquisition", fmt.Sprintf("%s failed, trying %s: %v", primary.name, fallback.name, primaryErr))
	}

	text, err = a.attempt(ctx, acq, MethodFallback, fallback, data)
	if err == nil {
		acq.Text, acq.Method, acq.Extractor = text, MethodFallback, fallback.name
		return acq, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	parseErr := &ParseError{
		Format:         format,
		PrimaryMethod:  primary.name,
		Primary:        primaryErr,
		FallbackMethod: fallback.name,
		Fallback:       err,
	}
	if parseErr.TimedOut() {
		return nil, &ParseTimeoutError{Format: format, Timeout: a.opts.ParseTimeout, Cause: parseErr}
	}
	return nil, parseErr
}

// attempt runs one extractor under the parse timeout. Blank text counts as
// a failure.
func (a *Acquirer) attempt(ctx context.Context, acq *Acquisition, method string, s step, data []byte) (string, error) {
	start := time.Now()

	var (
		text string
		err  error
	)
	if s.selfBounded {
		text, err = s.fn(ctx, data)
	} else {
		text, err = docparse.WithTimeout(ctx, a.opts.ParseTimeout, func() (string, error) {
			return s.fn(ctx, data)
		})
	}
	if err == nil && strings.TrimSpace(text) == "" {
		err = docparse.ErrNoText
	}

	rec := Attempt{Method: method, Extractor: s.name, Duration: time.Since(start)}
	if err != nil {
		rec.Error = err.Error()
	}
	acq.Attempts = append(acq.Attempts, rec)
	return text, err
}

// epubViaTempFile hands an on-disk copy to the document parser. The copy is
// removed when this returns, including after a timeout.
func (a *Acquirer) epubViaTempFile(ctx context.Context, data []byte) (string, error) {
	f, err := os.CreateTemp(a.opts.TempDir, "author-scan-*.epub")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	return docparse.WithTimeout(ctx, a.opts.ParseTimeout, func() (string, error) {
		return a.epubFromFile(ctx, name)
	})
}

// DecodeUTF8 decodes text bytes strictly, dropping a leading byte order mark.
// The reported offset is relative to the original bytes.
func DecodeUTF8(data []byte) (string, error) {
	offset := 0
	if bytes.HasPrefix(data, utf8BOM) {
		data = data[len(utf8BOM):]
		offset = len(utf8BOM)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", &DecodeError{Offset: offset + i}
		}
		i += size
	}
	return string(data), nil
}
