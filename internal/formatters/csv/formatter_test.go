// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	stdcsv "encoding/csv"
	"strings"
	"testing"

	"author-scan/internal/aggregator"
	"author-scan/internal/core"
	"author-scan/internal/formatters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	report := &core.Report{Authors: []aggregator.AuthorCount{
		{Name: "Albert Camus", Mentions: 4},
		{Name: "Émile Zola", Mentions: 3},
		{Name: "Oates, Joyce Carol", Mentions: 2},
	}}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Author,Mentions\nAlbert Camus,4\nÉmile Zola,3\n\"Oates, Joyce Carol\",2\n", out)

	records, err := stdcsv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Author", "Mentions"},
		{"Albert Camus", "4"},
		{"Émile Zola", "3"},
		{"Oates, Joyce Carol", "2"},
	}, records)
}

func TestFormat_Empty(t *testing.T) {
	out, err := NewFormatter().Format(&core.Report{}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Author,Mentions\n", out)
}

func TestEscapeCSVField(t *testing.T) {
	f := NewFormatter()
	tests := []struct {
		in, want string
	}{
		{"Plato", "Plato"},
		{`Say "Hi"`, `"Say ""Hi"""`},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"a\nb", "\"a\nb\""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.escapeCSVField(tt.in), tt.in)
	}
}
