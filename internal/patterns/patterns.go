// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"regexp"
	"strings"

	"author-scan/internal/normalize"
)

// nameWord is one word of a name: Camus, García, O'Brien, Jean-Paul,
// McCarthy. Patterns are compiled case-insensitively, so capitalization is
// checked afterwards; only the letter after an apostrophe stays
// case-sensitive, which keeps a possessive 's out of the word.
const nameWord = `[A-ZÀ-ÖØ-Þ](?:'(?-i:[A-ZÀ-ÖØ-Þ]))?[a-zß-öø-ÿ]+(?:[A-ZÀ-ÖØ-Þ][a-zß-öø-ÿ]+|-[A-Za-zÀ-ÖØ-öø-ÿ]+|'(?-i:[A-ZÀ-ÖØ-Þ])[a-zß-öø-ÿ]+)*`

// namePhrase is two or more capitalized words
const namePhrase = `(` + nameWord + `(?:\s+` + nameWord + `)+)`

// NamePattern represents a compiled contextual pattern with metadata.
// Group 1 of Pattern is always the captured name phrase.
type NamePattern struct {
	Pattern     *regexp.Regexp
	Name        string
	Description string
}

// PatternMatch is a surface string captured by one of the patterns
type PatternMatch struct {
	Text    string
	Pattern string
}

// Matcher applies the fixed, ordered set of authorial-cue patterns
type Matcher struct {
	patterns []NamePattern
}

// NewMatcher creates a matcher with all patterns compiled
func NewMatcher() *Matcher {
	m := &Matcher{}
	m.compileAllPatterns()
	return m
}

// compileAllPatterns compiles the cue patterns case-insensitively. A phrase
// that runs on into lowercase words is captured whole and then rejected by
// allWordsCapitalized.
func (m *Matcher) compileAllPatterns() {
	patternDefinitions := []struct {
		name        string
		pattern     string
		description string
	}{
		{
			name:        "cue_prefixed",
			pattern:     `\b(?:according to|stated by|argued by|noted by|writes|by|in|from)\s+` + namePhrase,
			description: "Name after an authorial cue: according to Albert Camus",
		},
		{
			name:        "possessive",
			pattern:     namePhrase + `'s\s+(?:work|book|essay|theory|view|concept|idea)\b`,
			description: "Possessive before a work noun: Albert Camus's essay",
		},
		{
			name:        "role_prefixed",
			pattern:     `\b(?:author|writer|poet|novelist|philosopher)\s+` + namePhrase,
			description: "Name after a role noun: novelist Virginia Woolf",
		},
	}

	m.patterns = make([]NamePattern, len(patternDefinitions))
	for i, def := range patternDefinitions {
		m.patterns[i] = NamePattern{
			Pattern:     regexp.MustCompile("(?i)" + def.pattern),
			Name:        def.name,
			Description: def.description,
		}
	}
}

// GetPatterns returns all compiled patterns in application order
func (m *Matcher) GetPatterns() []NamePattern {
	return m.patterns
}

// MatchPatterns runs every pattern over the whole text and returns the
// captured phrases in discovery order: pattern order, then position
func (m *Matcher) MatchPatterns(text string) []PatternMatch {
	var matches []PatternMatch

	for _, pattern := range m.patterns {
		for _, groups := range pattern.Pattern.FindAllStringSubmatch(text, -1) {
			if len(groups) < 2 {
				continue
			}
			phrase := groups[1]
			if !allWordsCapitalized(phrase) {
				continue
			}
			matches = append(matches, PatternMatch{
				Text:    phrase,
				Pattern: pattern.Name,
			})
		}
	}

	return matches
}

// Surfaces returns the matched strings only, in order
func Surfaces(matches []PatternMatch) []string {
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.Text
	}
	return out
}

// allWordsCapitalized requires every whitespace-delimited word to start with
// an uppercase Latin or accented-Latin letter
func allWordsCapitalized(phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}
	for _, word := range words {
		if !normalize.StartsWithUpperLatin(word) {
			return false
		}
	}
	return true
}
