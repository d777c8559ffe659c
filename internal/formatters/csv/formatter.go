// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"strconv"
	"strings"

	"author-scan/internal/core"
	"author-scan/internal/formatters"
)

// Header is the first row of every CSV export
var Header = []string{"Author", "Mentions"}

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Author,Mentions table for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

// Format writes one row per surviving author, most mentioned first
func (f *Formatter) Format(report *core.Report, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder
	builder.WriteString(strings.Join(Header, ","))
	builder.WriteString("\n")

	for _, author := range report.Authors {
		builder.WriteString(f.escapeCSVField(author.Name))
		builder.WriteString(",")
		builder.WriteString(strconv.Itoa(author.Mentions))
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	// If field contains comma, quote, or newline, wrap in quotes and escape internal quotes
	if strings.ContainsAny(field, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
	}
	return field
}

// sanitizeFormulaInjection prefixes fields that spreadsheets would evaluate as formulas
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
