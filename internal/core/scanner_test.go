// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"author-scan/internal/aggregator"
	"author-scan/internal/config"
	"author-scan/internal/document"
	"author-scan/internal/metadata"
	"author-scan/internal/observability"
	"author-scan/internal/preprocessors"
	"author-scan/internal/recognizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// occurrences returns a recognizer that reports every occurrence of names
func occurrences(names ...string) recognizer.Recognizer {
	return recognizer.Func(func(_ context.Context, text string) ([]recognizer.PersonSpan, error) {
		var spans []recognizer.PersonSpan
		for _, name := range names {
			for i := 0; i < strings.Count(text, name); i++ {
				spans = append(spans, recognizer.PersonSpan{Text: name})
			}
		}
		return spans, nil
	})
}

func newTestScanner(min int, rec recognizer.Recognizer) *Scanner {
	return NewScanner(Options{
		MinMentions: min,
		Acquisition: preprocessors.DefaultOptions(),
		Recognizer:  rec,
	})
}

func txtDoc(t *testing.T, text string) *document.Document {
	t.Helper()
	doc, err := document.New("input.txt", []byte(text))
	require.NoError(t, err)
	return doc
}

func TestRun_RecognizerAndPatternCombine(t *testing.T) {
	rec := recognizer.Func(func(_ context.Context, text string) ([]recognizer.PersonSpan, error) {
		return []recognizer.PersonSpan{{Text: "Albert Camus"}}, nil
	})
	s := newTestScanner(1, rec)

	report, err := s.Run(context.Background(),
		txtDoc(t, "According to Albert Camus, life is absurd. Albert Camus wrote extensively on this."))
	require.NoError(t, err)

	assert.Contains(t, report.Authors, aggregator.AuthorCount{Name: "Albert Camus", Mentions: 2})
	assert.Equal(t, "input.txt", report.Source)
	assert.Equal(t, document.FormatTXT, report.Format)
	assert.Equal(t, 1, report.MinMentions)
	assert.Equal(t, preprocessors.MethodDirect, report.Stats.Method)
	assert.Equal(t, 1, report.Stats.PersonSpans)
	assert.Equal(t, 1, report.Stats.PatternMatches)
	assert.Equal(t, 1, report.Stats.Candidates)
}

func TestRun_ProseModel_CueAndBareMentionCountOnce(t *testing.T) {
	rec, err := recognizer.Shared(recognizer.Options{})
	require.NoError(t, err)

	report, err := newTestScanner(1, rec).Run(context.Background(),
		txtDoc(t, "According to Albert Camus life is absurd. Albert Camus wrote extensively on this."))
	require.NoError(t, err)

	assert.Contains(t, report.Authors, aggregator.AuthorCount{Name: "Albert Camus", Mentions: 2})
	assert.Equal(t, 0, report.Stats.PatternMatches, "cue running into lowercase words is discarded")
}

func TestRun_ProseModel_Threshold(t *testing.T) {
	rec, err := recognizer.Shared(recognizer.Options{})
	require.NoError(t, err)
	text := "Plato wrote dialogues. Plato taught in Athens. Plato founded the Academy. Plato died old."

	spans, err := rec.RecognizePersons(context.Background(), text)
	require.NoError(t, err)
	n := 0
	for _, span := range spans {
		if span.Text == "Plato" {
			n++
		}
	}
	require.Positive(t, n)
	assert.LessOrEqual(t, n, 4)

	report, err := newTestScanner(n, rec).Run(context.Background(), txtDoc(t, text))
	require.NoError(t, err)
	assert.Contains(t, report.Authors, aggregator.AuthorCount{Name: "Plato", Mentions: n})

	report, err = newTestScanner(n+1, rec).Run(context.Background(), txtDoc(t, text))
	require.NoError(t, err)
	for _, a := range report.Authors {
		assert.NotEqual(t, "Plato", a.Name)
	}
}

func TestRun_NothingNameShaped(t *testing.T) {
	s := newTestScanner(1, recognizer.Nop{})

	report, err := s.Run(context.Background(), txtDoc(t, "the of and it was so very much in to"))
	require.NoError(t, err)
	assert.NotNil(t, report.Authors)
	assert.Empty(t, report.Authors)
}

func TestRun_MalformedPDF(t *testing.T) {
	doc, err := document.New("broken.pdf", []byte("%PDF-1.4\nthis is not a real pdf body"))
	require.NoError(t, err)

	report, err := newTestScanner(1, recognizer.Nop{}).Run(context.Background(), doc)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, preprocessors.ErrParse))

	var parseErr *preprocessors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, document.FormatPDF, parseErr.Format)
}

func TestRun_Threshold(t *testing.T) {
	text := "Plato taught. Plato wrote. Plato argued. Plato died."
	rec := occurrences("Plato")

	report, err := newTestScanner(5, rec).Run(context.Background(), txtDoc(t, text))
	require.NoError(t, err)
	assert.Empty(t, report.Authors)

	report, err = newTestScanner(5, rec).WithMinMentions(4).Run(context.Background(), txtDoc(t, text))
	require.NoError(t, err)
	assert.Equal(t, []aggregator.AuthorCount{{Name: "Plato", Mentions: 4}}, report.Authors)
}

func TestRun_ThresholdMonotonic(t *testing.T) {
	text := "Plato Plato Plato Plato Kant Kant Kant Hume Hume Locke"
	base := newTestScanner(1, occurrences("Plato", "Kant", "Hume", "Locke"))

	previous := -1
	for min := 1; min <= 5; min++ {
		report, err := base.WithMinMentions(min).Run(context.Background(), txtDoc(t, text))
		require.NoError(t, err)
		if previous >= 0 {
			assert.LessOrEqual(t, len(report.Authors), previous)
		}
		previous = len(report.Authors)
		for _, a := range report.Authors {
			assert.GreaterOrEqual(t, a.Mentions, min)
		}
	}
	assert.Equal(t, 0, previous)
}

func TestRun_RecognizerFailureAborts(t *testing.T) {
	boom := errors.New("model exploded")
	rec := recognizer.Func(func(context.Context, string) ([]recognizer.PersonSpan, error) {
		return nil, boom
	})

	report, err := newTestScanner(1, rec).Run(context.Background(), txtDoc(t, "Albert Camus"))
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, boom)
}

func TestRun_TextHasPlaceholderMetadata(t *testing.T) {
	report, err := newTestScanner(1, recognizer.Nop{}).Run(context.Background(), txtDoc(t, "plain words"))
	require.NoError(t, err)
	assert.Equal(t, metadata.UnknownTitle, report.Metadata.Title)
	assert.Equal(t, metadata.UnknownAuthor, report.Metadata.Author)
	assert.Equal(t, metadata.NoCover, report.Metadata.Cover)
}

func TestRun_NilDocument(t *testing.T) {
	_, err := newTestScanner(1, nil).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestRun_DebugObserverRecordsSteps(t *testing.T) {
	var buf bytes.Buffer
	s := NewScanner(Options{
		MinMentions: 1,
		Acquisition: preprocessors.DefaultOptions(),
		Observer:    observability.New(true, &buf),
	})

	_, err := s.Run(context.Background(), txtDoc(t, "According to Albert Camus life is absurd"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "match_patterns")
}

func TestNewScannerFromConfig(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Recognizer.Enabled = false

	s, err := NewScannerFromConfig(cfg, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, s.MinMentions())
	assert.IsType(t, recognizer.Nop{}, s.recognizer)

	_, err = NewScannerFromConfig(cfg, 0, nil)
	assert.Error(t, err)
	_, err = NewScannerFromConfig(cfg, 21, nil)
	assert.Error(t, err)
}

func TestAcquisitionOptions(t *testing.T) {
	assert.Equal(t, preprocessors.DefaultOptions(), AcquisitionOptions(nil))

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Acquisition.MaxPDFPages = 12
	opts := AcquisitionOptions(cfg)
	assert.Equal(t, 12, opts.MaxPDFPages)
	assert.Equal(t, config.DefaultParseTimeout, opts.ParseTimeout)
}
