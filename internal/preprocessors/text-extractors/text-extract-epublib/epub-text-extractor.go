// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractepublib

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"author-scan/internal/htmltext"
)

// ErrNoDocuments is returned when the manifest lists no content documents
var ErrNoDocuments = errors.New("no content documents in manifest")

// ErrNoText is returned when the content documents hold no text
var ErrNoText = errors.New("content documents contain no text")

// TextContent is the text of an EPUB publication
type TextContent struct {
	Text      string
	Title     string
	Documents int
}

// ExtractText reads the OCF container, walks the content documents in
// reading order and joins their text with single spaces
func ExtractText(data []byte) (*TextContent, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening EPUB container: %w", err)
	}

	pkg, err := OpenPackage(zr)
	if err != nil {
		return nil, err
	}

	docs := pkg.ContentDocuments()
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	parts := make([]string, 0, len(docs))
	for _, item := range docs {
		raw, err := ReadMember(zr, pkg.ItemPath(item))
		if err != nil {
			return nil, fmt.Errorf("manifest item %q: %w", item.ID, err)
		}
		text, err := htmltext.Extract(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("manifest item %q: %w", item.ID, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	content := &TextContent{
		Text:      strings.Join(parts, " "),
		Documents: len(docs),
	}
	if len(pkg.Metadata.Titles) > 0 {
		content.Title = pkg.Metadata.Titles[0]
	}
	if content.Text == "" {
		return nil, ErrNoText
	}
	return content, nil
}
