// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// PersonLabel is the entity label the model assigns to people
const PersonLabel = "PERSON"

// PersonSpan is a span of normalized text the model labeled as a person
type PersonSpan struct {
	Text string
}

// Entity is one labeled span produced by the model
type Entity struct {
	Text  string
	Label string
}

// Recognizer finds person names in normalized text
type Recognizer interface {
	RecognizePersons(ctx context.Context, text string) ([]PersonSpan, error)
}

// Options configures the statistical model
type Options struct {
	// ModelDir loads a custom prose model from disk; empty uses the bundled one
	ModelDir string
}

// ProseRecognizer wraps a prose NER model. The model is not documented as
// safe for concurrent use, so calls are serialized.
type ProseRecognizer struct {
	mu        sync.Mutex
	model     *prose.Model
	stopWords map[string]bool
}

// NewProseRecognizer loads the model and the stop-word list
func NewProseRecognizer(opts Options) (*ProseRecognizer, error) {
	words, err := LoadStopWords()
	if err != nil {
		return nil, fmt.Errorf("failed to load stop words: %w", err)
	}

	r := &ProseRecognizer{stopWords: words}
	if opts.ModelDir != "" {
		r.model = prose.ModelFromDisk(opts.ModelDir)
		if r.model == nil {
			return nil, fmt.Errorf("failed to load NER model from %s", opts.ModelDir)
		}
	}
	return r, nil
}

var (
	sharedOnce sync.Once
	shared     *ProseRecognizer
	sharedErr  error
)

// Shared returns the process-wide recognizer, loading it on first use.
// Options passed after the first call are ignored.
func Shared(opts Options) (*ProseRecognizer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = NewProseRecognizer(opts)
	})
	return shared, sharedErr
}

// RecognizePersons runs the model over the full text and keeps the person
// spans that pass FilterPersons
func (r *ProseRecognizer) RecognizePersons(ctx context.Context, text string) ([]PersonSpan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities, err := r.entities(text)
	if err != nil {
		return nil, fmt.Errorf("entity recognition failed: %w", err)
	}
	return FilterPersons(entities, r.stopWords), nil
}

func (r *ProseRecognizer) entities(text string) ([]Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	opts := []prose.DocOpt{prose.WithSegmentation(false)}
	if r.model != nil {
		opts = append(opts, prose.UsingModel(r.model))
	}

	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, err
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		out = append(out, Entity{Text: ent.Text, Label: ent.Label})
	}
	return out, nil
}

// FilterPersons keeps PERSON entities. A single-word span survives only when
// it is not a stop word and is longer than two characters; multi-word spans
// always survive.
func FilterPersons(entities []Entity, stopWords map[string]bool) []PersonSpan {
	var spans []PersonSpan
	for _, ent := range entities {
		if ent.Label != PersonLabel {
			continue
		}
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		if len(strings.Fields(text)) == 1 {
			if stopWords[strings.ToLower(text)] || utf8.RuneCountInString(text) <= 2 {
				continue
			}
		}
		spans = append(spans, PersonSpan{Text: text})
	}
	return spans
}

// Surfaces returns the span texts only, in order
func Surfaces(spans []PersonSpan) []string {
	out := make([]string, len(spans))
	for i, span := range spans {
		out[i] = span.Text
	}
	return out
}

// Nop is used when recognition is disabled
type Nop struct{}

func (Nop) RecognizePersons(ctx context.Context, text string) ([]PersonSpan, error) {
	return nil, nil
}

// Func adapts a function to the Recognizer interface
type Func func(ctx context.Context, text string) ([]PersonSpan, error)

func (f Func) RecognizePersons(ctx context.Context, text string) ([]PersonSpan, error) {
	return f(ctx, text)
}
