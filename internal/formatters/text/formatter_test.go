// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"strings"
	"testing"

	"author-scan/internal/aggregator"
	"author-scan/internal/core"
	"author-scan/internal/formatters"
	"author-scan/internal/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_TableAndChart(t *testing.T) {
	report := &core.Report{
		MinMentions: 1,
		Authors: []aggregator.AuthorCount{
			{Name: "Albert Camus", Mentions: 8},
			{Name: "Plato", Mentions: 4},
			{Name: "Kant", Mentions: 1},
		},
	}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{NoColor: true, TopN: 2})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "AUTHOR       MENTIONS", lines[0])
	assert.Equal(t, "Albert Camus        8", lines[2])
	assert.Equal(t, "Kant                1", lines[4])
	assert.Contains(t, out, "Top 2 authors by mentions")
	assert.Contains(t, out, "Albert Camus "+strings.Repeat(barGlyph, barWidth)+" 8")
	assert.Contains(t, out, "Plato        "+strings.Repeat(barGlyph, barWidth/2))
	assert.Equal(t, 2+1, strings.Count(out, "Kant")+strings.Count(out, "Plato"))
}

func TestFormat_Empty(t *testing.T) {
	out, err := NewFormatter().Format(&core.Report{MinMentions: 3}, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Equal(t, "No authors mentioned at least 3 times.\n", out)
}

func TestFormat_Verbose(t *testing.T) {
	report := &core.Report{
		Source:      "book.pdf",
		MinMentions: 3,
		Metadata:    metadata.Display{Title: "Essays", Author: metadata.UnknownAuthor, Pages: 12, Cover: metadata.NoCover},
		Stats:       core.Stats{Method: "fallback", Extractor: "page text layer"},
	}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)
	assert.Contains(t, out, "Title:     Essays")
	assert.Contains(t, out, "Pages:     12")
	assert.Contains(t, out, "fallback (page text layer)")
}

func TestBarLength(t *testing.T) {
	assert.Equal(t, barWidth, barLength(10, 10))
	assert.Equal(t, 1, barLength(1, 1000))
	assert.Equal(t, 0, barLength(1, 0))
}
