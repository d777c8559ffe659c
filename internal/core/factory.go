// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"author-scan/internal/config"
	"author-scan/internal/observability"
	"author-scan/internal/preprocessors"
	"author-scan/internal/recognizer"
)

// AcquisitionOptions maps the acquisition section of cfg onto the
// acquirer's options
func AcquisitionOptions(cfg *config.Config) preprocessors.Options {
	if cfg == nil {
		return preprocessors.DefaultOptions()
	}
	return preprocessors.Options{
		ParseTimeout: cfg.Acquisition.ParseTimeout,
		TempDir:      cfg.Acquisition.TempDir,
		MaxPDFPages:  cfg.Acquisition.MaxPDFPages,
		PageWorkers:  cfg.Acquisition.PageWorkers,
	}
}

// BuildRecognizer returns the shared NER model, or a recognizer that finds
// nothing when recognition is disabled
func BuildRecognizer(cfg *config.Config) (recognizer.Recognizer, error) {
	if cfg != nil && !cfg.Recognizer.Enabled {
		return recognizer.Nop{}, nil
	}

	var opts recognizer.Options
	if cfg != nil {
		opts.ModelDir = cfg.Recognizer.ModelDir
	}
	rec, err := recognizer.Shared(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load entity recognizer: %w", err)
	}
	return rec, nil
}

// NewScannerFromConfig builds the scanner shared by the CLI and the web
// server. minMentions is validated against the accepted range first.
func NewScannerFromConfig(cfg *config.Config, minMentions int, observer *observability.StandardObserver) (*Scanner, error) {
	if err := config.ValidateMinMentions(minMentions); err != nil {
		return nil, err
	}

	rec, err := BuildRecognizer(cfg)
	if err != nil {
		return nil, err
	}

	return NewScanner(Options{
		MinMentions: minMentions,
		Acquisition: AcquisitionOptions(cfg),
		Recognizer:  rec,
		Observer:    observer,
	}), nil
}
