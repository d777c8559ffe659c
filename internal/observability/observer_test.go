// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserver_OffWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityOff, &buf)

	obs.StartTiming("normalizer", "normalize", "a.txt")(false, map[string]interface{}{"error": "boom"})
	assert.Empty(t, buf.String())
}

func TestStandardObserver_MetricsLogsFailuresOnly(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)

	obs.StartTiming("text_acquisition", "acquire_pdf", "book.pdf")(true, nil)
	assert.Empty(t, buf.String(), "successful operations are not logged at metrics level")

	obs.StartTiming("text_acquisition", "acquire_pdf", "book.pdf")(false, map[string]interface{}{"error": "bad xref"})
	require.NotEmpty(t, buf.String())

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "text_acquisition", record["component"])
	assert.Equal(t, "bad xref", record["error"])
	assert.Equal(t, "book.pdf", record["file_path"])
	assert.True(t, strings.HasPrefix(record["request_id"].(string), "req-"))
}

func TestStandardObserver_NilSafe(t *testing.T) {
	var obs *StandardObserver
	assert.NotPanics(t, func() {
		obs.LogOperation(StandardObservabilityData{Component: "x"})
	})
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	obs := New(true, &buf)
	require.NotNil(t, obs.DebugObserver)

	done := obs.DebugObserver.StartStep("pipeline", "run", "camus.txt")
	obs.DebugObserver.LogDetail("pipeline", "normalized 120 chars")
	obs.DebugObserver.LogMetric("aggregator", "authors", 3)
	done(true, "ok")

	out := buf.String()
	assert.Contains(t, out, "pipeline: run (camus.txt)")
	assert.Contains(t, out, "normalized 120 chars")
	assert.Contains(t, out, "authors = 3")
	assert.Contains(t, out, "run completed")
}
