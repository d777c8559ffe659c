// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// DebugObserver provides detailed step-by-step debugging
type DebugObserver struct {
	*StandardObserver
	writer io.Writer
	mu     sync.Mutex
	indent int
}

// NewDebugObserver creates a debug observer with step-by-step logging
func NewDebugObserver(writer io.Writer) *DebugObserver {
	if writer == nil {
		writer = io.Discard
	}
	return &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		writer:           writer,
	}
}

// StartStep begins a processing step with indentation
func (d *DebugObserver) StartStep(component, step, filePath string) func(success bool, details string) {
	start := time.Now()

	d.mu.Lock()
	fmt.Fprintf(d.writer, "%s🔄 %s: %s (%s)\n", strings.Repeat("  ", d.indent), component, step, filePath)
	d.indent++
	d.mu.Unlock()

	return func(success bool, details string) {
		d.mu.Lock()
		defer d.mu.Unlock()

		if d.indent > 0 {
			d.indent--
		}
		duration := time.Since(start)
		indentStr := strings.Repeat("  ", d.indent)

		if success {
			fmt.Fprintf(d.writer, "%s✅ %s: %s completed (%dms) %s\n",
				indentStr, component, step, duration.Milliseconds(), details)
		} else {
			fmt.Fprintf(d.writer, "%s❌ %s: %s failed (%dms) %s\n",
				indentStr, component, step, duration.Milliseconds(), details)
		}
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   → %s: %s\n", strings.Repeat("  ", d.indent), component, detail)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   📊 %s: %s = %v\n", strings.Repeat("  ", d.indent), component, metric, value)
}
