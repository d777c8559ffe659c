// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_PatternOrder(t *testing.T) {
	m := NewMatcher()
	names := []string{}
	for _, p := range m.GetPatterns() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"cue_prefixed", "possessive", "role_prefixed"}, names)
}

func TestMatcher_CuePrefixed(t *testing.T) {
	m := NewMatcher()
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"according to", "According to Albert Camus, life is absurd", []string{"Albert Camus"}},
		{"lowercase cue", "as argued by Simone Weil.", []string{"Simone Weil"}},
		{"uppercase cue", "STATED BY Hannah Arendt", []string{"Hannah Arendt"}},
		{"by", "a novel by Gabriel García Márquez", []string{"Gabriel García Márquez"}},
		{"from", "a line from Flann O'Brien.", []string{"Flann O'Brien"}},
		{"writes", "as Jean-Paul Sartre writes Being And Nothingness", []string{"Being And Nothingness"}},
		{"single word ignored", "according to Plato the soul", nil},
		{"lowercase phrase ignored", "according to the author", nil},
		{"name running into lowercase words ignored", "written by Jane Austen and others", nil},
		{"name running into lowercase sentence ignored", "According to Albert Camus life is absurd", nil},
		{"cue inside word ignored", "within Albert Camus", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Surfaces(filterByPattern(m.MatchPatterns(tc.text), "cue_prefixed"))
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatcher_Possessive(t *testing.T) {
	m := NewMatcher()

	got := filterByPattern(m.MatchPatterns("Albert Camus's essay matters. Simone Weil's idea too."), "possessive")
	require.Len(t, got, 2)
	assert.Equal(t, "Albert Camus", got[0].Text)
	assert.Equal(t, "Simone Weil", got[1].Text)

	assert.Empty(t, filterByPattern(m.MatchPatterns("Plato's theory"), "possessive"),
		"possessive form requires two or more words")
	assert.Empty(t, filterByPattern(m.MatchPatterns("Albert Camus's car"), "possessive"))
}

func TestMatcher_RolePrefixed(t *testing.T) {
	m := NewMatcher()

	got := filterByPattern(m.MatchPatterns("the novelist Virginia Woolf. The Philosopher Søren Kierkegaard."), "role_prefixed")
	require.Len(t, got, 2)
	assert.Equal(t, "Virginia Woolf", got[0].Text)
	assert.Equal(t, "Søren Kierkegaard", got[1].Text, "role cue is case-insensitive")

	got = filterByPattern(m.MatchPatterns("the poet Émile Verhaeren."), "role_prefixed")
	require.Len(t, got, 1)
	assert.Equal(t, "Émile Verhaeren", got[0].Text)
}

func TestMatcher_AccumulatesAcrossPatterns(t *testing.T) {
	m := NewMatcher()
	text := "According to Albert Camus. The writer Albert Camus. Albert Camus's work endures"

	got := m.MatchPatterns(text)
	assert.Equal(t, []string{"Albert Camus", "Albert Camus", "Albert Camus"}, Surfaces(got))
	assert.Equal(t, "cue_prefixed", got[0].Pattern)
	assert.Equal(t, "possessive", got[1].Pattern)
	assert.Equal(t, "role_prefixed", got[2].Pattern)
}

func TestMatcher_PossessiveSuffixNotPartOfName(t *testing.T) {
	m := NewMatcher()

	got := Surfaces(m.MatchPatterns("The essay by Albert Camus's own hand"))
	assert.Equal(t, []string{"Albert Camus"}, got)
	assert.NotContains(t, got, "Albert Camus's")

	got = Surfaces(m.MatchPatterns("according to Albert Camus's essay"))
	assert.Equal(t, []string{"Albert Camus"}, got)

	got = Surfaces(m.MatchPatterns("a poem by Seán O'Casey."))
	assert.Equal(t, []string{"Seán O'Casey"}, got, "apostrophe before an uppercase letter stays in the word")
}

func TestMatcher_NoMatches(t *testing.T) {
	m := NewMatcher()
	assert.Empty(t, m.MatchPatterns(""))
	assert.Empty(t, m.MatchPatterns("the quick brown fox jumps over the lazy dog"))
}

func TestAllWordsCapitalized(t *testing.T) {
	assert.True(t, allWordsCapitalized("Albert Camus"))
	assert.True(t, allWordsCapitalized("Émile Zola"))
	assert.False(t, allWordsCapitalized("Albert camus"))
	assert.False(t, allWordsCapitalized(""))
}

func filterByPattern(matches []PatternMatch, name string) []PatternMatch {
	var out []PatternMatch
	for _, match := range matches {
		if match.Pattern == name {
			out = append(out, match)
		}
	}
	return out
}
