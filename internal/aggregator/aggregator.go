// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aggregator

import (
	"sort"
	"strings"

	"author-scan/internal/normalize"
)

// AuthorCount is one row of the ranked author list
type AuthorCount struct {
	Name     string `json:"author" yaml:"author"`
	Mentions int    `json:"mentions" yaml:"mentions"`
}

// Finalize merges recognizer spans and pattern matches into one multiset,
// counts exact surface strings and returns the entries that survive the
// threshold, deny-list and name-shape filters, most mentioned first.
// Entries with equal counts keep first-discovery order (spans before
// pattern matches, each in input order).
func Finalize(personSpans, patternMatches []string, minMentions int) []AuthorCount {
	if minMentions < 1 {
		minMentions = 1
	}

	candidates := countCandidates(personSpans, patternMatches)

	ranked := make([]AuthorCount, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Mentions < minMentions {
			continue
		}
		if IsDenied(candidate.Name) {
			continue
		}
		if !hasNameShape(candidate.Name) {
			continue
		}
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Mentions > ranked[j].Mentions
	})

	return ranked
}

// countCandidates counts occurrences per distinct string, preserving the
// order in which each string was first seen
func countCandidates(sequences ...[]string) []AuthorCount {
	index := make(map[string]int)
	var candidates []AuthorCount

	for _, sequence := range sequences {
		for _, name := range sequence {
			if name == "" {
				continue
			}
			if i, seen := index[name]; seen {
				candidates[i].Mentions++
				continue
			}
			index[name] = len(candidates)
			candidates = append(candidates, AuthorCount{Name: name, Mentions: 1})
		}
	}

	return candidates
}

// hasNameShape accepts any multi-word candidate and single words that begin
// with an uppercase Latin or accented-Latin letter
func hasNameShape(name string) bool {
	if len(strings.Fields(name)) > 1 {
		return true
	}
	return normalize.StartsWithUpperLatin(name)
}
