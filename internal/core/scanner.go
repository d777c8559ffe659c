// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"unicode/utf8"

	"author-scan/internal/aggregator"
	"author-scan/internal/document"
	"author-scan/internal/metadata"
	"author-scan/internal/normalize"
	"author-scan/internal/observability"
	"author-scan/internal/patterns"
	"author-scan/internal/preprocessors"
	"author-scan/internal/recognizer"
)

// Options configures a Scanner
type Options struct {
	MinMentions int
	Acquisition preprocessors.Options
	// Recognizer finds person spans; nil disables recognition
	Recognizer recognizer.Recognizer
	Observer   *observability.StandardObserver
}

// Stats describes how a report was produced
type Stats struct {
	Method          string `json:"method" yaml:"method"`
	Extractor       string `json:"extractor" yaml:"extractor"`
	RawChars        int    `json:"raw_chars" yaml:"raw_chars"`
	NormalizedChars int    `json:"normalized_chars" yaml:"normalized_chars"`
	PersonSpans     int    `json:"person_spans" yaml:"person_spans"`
	PatternMatches  int    `json:"pattern_matches" yaml:"pattern_matches"`
	Candidates      int    `json:"candidates" yaml:"candidates"`
}

// Report is the outcome of one pipeline run
type Report struct {
	Source      string                   `json:"source" yaml:"source"`
	Format      document.Format          `json:"format" yaml:"format"`
	MinMentions int                      `json:"min_mentions" yaml:"min_mentions"`
	Authors     []aggregator.AuthorCount `json:"authors" yaml:"authors"`
	Metadata    metadata.Display         `json:"metadata" yaml:"metadata"`
	Stats       Stats                    `json:"stats" yaml:"stats"`
}

// Scanner runs acquisition, normalization, recognition, pattern matching
// and aggregation over one document
type Scanner struct {
	minMentions int
	acquirer    *preprocessors.Acquirer
	recognizer  recognizer.Recognizer
	matcher     *patterns.Matcher
	observer    *observability.StandardObserver
}

// NewScanner creates a scanner
func NewScanner(opts Options) *Scanner {
	rec := opts.Recognizer
	if rec == nil {
		rec = recognizer.Nop{}
	}

	acquirer := preprocessors.NewAcquirer(opts.Acquisition)
	acquirer.SetObserver(opts.Observer)

	return &Scanner{
		minMentions: opts.MinMentions,
		acquirer:    acquirer,
		recognizer:  rec,
		matcher:     patterns.NewMatcher(),
		observer:    opts.Observer,
	}
}

// MinMentions returns the threshold used by Run
func (s *Scanner) MinMentions() int {
	return s.minMentions
}

// WithMinMentions returns a scanner sharing s's components with another threshold
func (s *Scanner) WithMinMentions(n int) *Scanner {
	c := *s
	c.minMentions = n
	return &c
}

// Run processes one document. Acquisition and recognition failures abort
// the run; metadata failures only fall back to placeholders.
func (s *Scanner) Run(ctx context.Context, doc *document.Document) (*Report, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document")
	}

	finishTiming := s.observer.StartTiming("scanner", "run", doc.Name)
	report, err := s.run(ctx, doc)

	meta := map[string]interface{}{"min_mentions": s.minMentions}
	if err != nil {
		meta["error"] = err.Error()
	} else {
		meta["authors"] = len(report.Authors)
	}
	finishTiming(err == nil, meta)

	return report, err
}

func (s *Scanner) run(ctx context.Context, doc *document.Document) (*Report, error) {
	acq, err := s.acquirer.Acquire(ctx, doc)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		Method:    acq.Method,
		Extractor: acq.Extractor,
		RawChars:  utf8.RuneCountInString(acq.Text),
	}

	finish := s.step("normalize", doc.Name)
	text := normalize.Normalize(acq.Text)
	stats.NormalizedChars = utf8.RuneCountInString(text)
	finish(true, fmt.Sprintf("%d chars", stats.NormalizedChars))

	finish = s.step("recognize", doc.Name)
	spans, err := s.recognizer.RecognizePersons(ctx, text)
	if err != nil {
		finish(false, err.Error())
		return nil, fmt.Errorf("entity recognition failed: %w", err)
	}
	stats.PersonSpans = len(spans)
	finish(true, fmt.Sprintf("%d person spans", len(spans)))

	finish = s.step("match_patterns", doc.Name)
	matches := s.matcher.MatchPatterns(text)
	stats.PatternMatches = len(matches)
	finish(true, fmt.Sprintf("%d pattern matches", len(matches)))

	personSurfaces := recognizer.Surfaces(spans)
	matchSurfaces := patterns.Surfaces(matches)
	stats.Candidates = countDistinct(personSurfaces, matchSurfaces)

	finish = s.step("finalize", doc.Name)
	authors := aggregator.Finalize(personSurfaces, matchSurfaces, s.minMentions)
	finish(true, fmt.Sprintf("%d of %d candidates kept", len(authors), stats.Candidates))

	finish = s.step("metadata", doc.Name)
	md := metadata.Extract(doc)
	failures := md.Errors()
	for field, ferr := range failures {
		s.logDetail(fmt.Sprintf("metadata %s unavailable: %v", field, ferr))
	}
	finish(true, fmt.Sprintf("%d fields failed", len(failures)))

	if authors == nil {
		authors = []aggregator.AuthorCount{}
	}

	return &Report{
		Source:      doc.Name,
		Format:      doc.Format,
		MinMentions: s.minMentions,
		Authors:     authors,
		Metadata:    metadata.Resolve(md),
		Stats:       stats,
	}, nil
}

// step starts a debug step when step-by-step output is enabled
func (s *Scanner) step(name, filePath string) func(success bool, details string) {
	if s.observer == nil || s.observer.DebugObserver == nil {
		return func(bool, string) {}
	}
	return s.observer.DebugObserver.StartStep("scanner", name, filePath)
}

func (s *Scanner) logDetail(detail string) {
	if s.observer == nil || s.observer.DebugObserver == nil {
		return
	}
	s.observer.DebugObserver.LogDetail("scanner", detail)
}

func countDistinct(sequences ...[]string) int {
	seen := make(map[string]bool)
	for _, sequence := range sequences {
		for _, s := range sequence {
			if s != "" {
				seen[s] = true
			}
		}
	}
	return len(seen)
}
