// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StandardObserver implements observability for all pipeline components
type StandardObserver struct {
	level         ObservabilityLevel
	logger        *logrus.Logger
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component writing JSON records to writer
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = io.Discard
	}

	logger := logrus.New()
	logger.SetOutput(writer)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	switch level {
	case ObservabilityDebug:
		logger.SetLevel(logrus.DebugLevel)
	case ObservabilityMetrics:
		logger.SetLevel(logrus.WarnLevel)
	default:
		logger.SetLevel(logrus.PanicLevel)
	}

	return &StandardObserver{
		level:  level,
		logger: logger,
	}
}

// Level returns the configured observability level
func (o *StandardObserver) Level() ObservabilityLevel {
	return o.level
}

// Logger exposes the underlying structured logger
func (o *StandardObserver) Logger() *logrus.Logger {
	return o.logger
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}
		if metadata != nil {
			if msg, ok := metadata["error"].(string); ok {
				data.Error = msg
			}
		}

		o.LogOperation(data)
	}
}

// LogOperation logs operation data. Failures are recorded at the metrics
// level, everything else only in debug mode.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	data.RequestID = "req-" + uuid.NewString()

	entry := o.logger.WithFields(logrus.Fields{
		"component":   data.Component,
		"operation":   data.Operation,
		"request_id":  data.RequestID,
		"success":     data.Success,
		"duration_ms": data.DurationMs,
	})
	if data.FilePath != "" {
		entry = entry.WithField("file_path", data.FilePath)
	}
	if data.ContentLength > 0 {
		entry = entry.WithField("content_length", data.ContentLength)
	}
	if data.MatchCount > 0 {
		entry = entry.WithField("match_count", data.MatchCount)
	}
	for k, v := range data.Metadata {
		if k == "error" {
			continue
		}
		entry = entry.WithField(k, v)
	}

	if !data.Success {
		if data.Error != "" {
			entry = entry.WithField("error", data.Error)
		}
		entry.Warn(data.Operation + " failed")
		return
	}
	entry.Debug(data.Operation)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	RequestID     string                 `json:"request_id"`
	FilePath      string                 `json:"file_path,omitempty"`
	DurationMs    int64                  `json:"duration_ms,omitempty"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	ContentLength int                    `json:"content_length,omitempty"`
	MatchCount    int                    `json:"match_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// New builds the observer used by the CLI and web server: metrics level by
// default, step-by-step debug output when debug is set
func New(debug bool, writer io.Writer) *StandardObserver {
	if debug {
		debugObs := NewDebugObserver(writer)
		observer := debugObs.StandardObserver
		observer.DebugObserver = debugObs
		return observer
	}
	return NewStandardObserver(ObservabilityMetrics, writer)
}
