// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"author-scan/internal/core"
	"author-scan/internal/formatters"
	"author-scan/internal/formatters/shared"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML output for configuration files and human-readable structured data"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(report *core.Report, options formatters.FormatterOptions) (string, error) {
	// Same structure as the JSON formatter
	response := shared.ConvertReport(report, options)

	yamlData, err := yaml.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return string(yamlData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
