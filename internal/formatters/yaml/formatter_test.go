// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"testing"

	"author-scan/internal/aggregator"
	"author-scan/internal/core"
	"author-scan/internal/formatters"
	"author-scan/internal/formatters/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormat(t *testing.T) {
	report := &core.Report{
		Source:      "notes.txt",
		Format:      "txt",
		MinMentions: 1,
		Authors: []aggregator.AuthorCount{
			{Name: "Simone de Beauvoir", Mentions: 2},
			{Name: "Kant", Mentions: 1},
		},
	}

	out, err := NewFormatter().Format(report, formatters.FormatterOptions{Verbose: true})
	require.NoError(t, err)

	var decoded shared.Response
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "notes.txt", decoded.Source)
	assert.Equal(t, report.Authors, decoded.Authors)
	require.NotNil(t, decoded.Stats)
	require.NotNil(t, decoded.Metadata)
}
