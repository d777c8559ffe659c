// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"bufio"
	"bytes"
	"compress/gzip"
	_ "embed"
	"fmt"
	"strings"
	"sync"
)

// Embedded compressed English stop-word list
//
//go:embed data/stop_words.txt.gz
var stopWordsDataGZ []byte

var (
	stopWords     map[string]bool
	stopWordsOnce sync.Once
	stopWordsErr  error
)

// LoadStopWords decompresses the embedded stop-word list once
func LoadStopWords() (map[string]bool, error) {
	stopWordsOnce.Do(func() {
		stopWords, stopWordsErr = loadWords(stopWordsDataGZ)
	})
	return stopWords, stopWordsErr
}

// loadWords decompresses gzip data and loads one lowercase word per line
func loadWords(compressedData []byte) (map[string]bool, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressedData))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer reader.Close()

	words := make(map[string]bool, 320)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words[strings.ToLower(word)] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading decompressed data: %w", err)
	}

	return words, nil
}
