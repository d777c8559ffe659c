// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"author-scan/internal/aggregator"
	"author-scan/internal/core"
	"author-scan/internal/formatters"
	"author-scan/internal/metadata"
)

// Response is the top-level structure of JSON and YAML output
type Response struct {
	Source      string                   `json:"source" yaml:"source"`
	Format      string                   `json:"format" yaml:"format"`
	MinMentions int                      `json:"min_mentions" yaml:"min_mentions"`
	Authors     []aggregator.AuthorCount `json:"authors" yaml:"authors"`
	Metadata    *metadata.Display        `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Stats       *core.Stats              `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// ConvertReport builds the structured view of a report. Metadata and
// statistics are only included in verbose mode.
func ConvertReport(report *core.Report, options formatters.FormatterOptions) Response {
	authors := report.Authors
	if authors == nil {
		authors = []aggregator.AuthorCount{}
	}

	response := Response{
		Source:      report.Source,
		Format:      string(report.Format),
		MinMentions: report.MinMentions,
		Authors:     authors,
	}
	if options.Verbose {
		md := report.Metadata
		stats := report.Stats
		response.Metadata = &md
		response.Stats = &stats
	}
	return response
}
