// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"author-scan/internal/core"
	"author-scan/internal/formatters"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	barWidth       = 40
	barGlyph       = "█"
	maxNameWidth   = 40
	mentionsHeader = "MENTIONS"
	authorHeader   = "AUTHOR"
)

// Formatter implements text-based output: a ranked table followed by a
// horizontal bar chart of the most mentioned authors
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable table and bar chart with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(report *core.Report, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder

	if options.Verbose {
		f.appendMetadata(&builder, report, options)
	}

	if len(report.Authors) == 0 {
		builder.WriteString(fmt.Sprintf("No authors mentioned at least %d times.\n", report.MinMentions))
		return builder.String(), nil
	}

	nameWidth := f.calculateNameColumnWidth(report)
	f.appendHeaders(&builder, nameWidth, options)
	for _, author := range report.Authors {
		builder.WriteString(fmt.Sprintf("%s %*d\n",
			runewidth.FillRight(runewidth.Truncate(author.Name, nameWidth, "…"), nameWidth),
			len(mentionsHeader), author.Mentions))
	}

	builder.WriteString("\n")
	f.appendChart(&builder, report, nameWidth, options)

	return builder.String(), nil
}

// paint colors s unless colors are disabled
func (f *Formatter) paint(name, s string, options formatters.FormatterOptions) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func (f *Formatter) calculateNameColumnWidth(report *core.Report) int {
	width := runewidth.StringWidth(authorHeader)
	for _, author := range report.Authors {
		if w := runewidth.StringWidth(author.Name); w > width {
			width = w
		}
	}
	if width > maxNameWidth {
		width = maxNameWidth
	}
	return width
}

func (f *Formatter) appendHeaders(builder *strings.Builder, nameWidth int, options formatters.FormatterOptions) {
	header := fmt.Sprintf("%s %s", runewidth.FillRight(authorHeader, nameWidth), mentionsHeader)
	builder.WriteString(f.paint("white", header, options))
	builder.WriteString("\n")
	builder.WriteString(f.paint("white", strings.Repeat("-", nameWidth+1+len(mentionsHeader)), options))
	builder.WriteString("\n")
}

// appendChart draws the top N authors as bars scaled to the largest count
func (f *Formatter) appendChart(builder *strings.Builder, report *core.Report, nameWidth int, options formatters.FormatterOptions) {
	top := report.Authors[:options.ChartSize(len(report.Authors))]

	builder.WriteString(f.paint("white", fmt.Sprintf("Top %d authors by mentions", len(top)), options))
	builder.WriteString("\n")

	maxMentions := top[0].Mentions
	for _, author := range top {
		length := barLength(author.Mentions, maxMentions)
		bar := f.paint("cyan", strings.Repeat(barGlyph, length), options)
		builder.WriteString(fmt.Sprintf("%s %s%s %d\n",
			runewidth.FillRight(runewidth.Truncate(author.Name, nameWidth, "…"), nameWidth),
			bar, strings.Repeat(" ", barWidth-length), author.Mentions))
	}
}

// barLength scales mentions to the chart width; every author gets at least one cell
func barLength(mentions, maxMentions int) int {
	if maxMentions <= 0 {
		return 0
	}
	length := mentions * barWidth / maxMentions
	if length < 1 {
		length = 1
	}
	return length
}

func (f *Formatter) appendMetadata(builder *strings.Builder, report *core.Report, options formatters.FormatterOptions) {
	md := report.Metadata
	rows := [][2]string{
		{"Source", report.Source},
		{"Title", md.Title},
		{"Author", md.Author},
		{"Language", md.Language},
		{"Subject", md.Subject},
		{"Creator", md.Creator},
		{"Producer", md.Producer},
		{"Publisher", md.Publisher},
		{"Pages", fmt.Sprintf("%d", md.Pages)},
		{"Cover", md.Cover},
	}
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("%s %s\n", f.paint("green", fmt.Sprintf("%-10s", row[0]+":"), options), row[1]))
	}

	stats := report.Stats
	builder.WriteString(f.paint("yellow", fmt.Sprintf(
		"Text acquired by %s (%s): %d chars, %d after normalization; %d person spans, %d pattern matches, %d candidates; threshold %d",
		stats.Method, stats.Extractor, stats.RawChars, stats.NormalizedChars,
		stats.PersonSpans, stats.PatternMatches, stats.Candidates, report.MinMentions), options))
	builder.WriteString("\n\n")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
