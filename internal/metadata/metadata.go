// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package metadata extracts display-only document properties. Every property
// is read independently and a failure never affects the others.
package metadata

import (
	"errors"
	"fmt"
	"strings"

	"author-scan/internal/document"
	metaextractepublib "author-scan/internal/preprocessors/meta-extractors/meta-extract-epublib"
	metaextractpdflib "author-scan/internal/preprocessors/meta-extractors/meta-extract-pdflib"
)

// Placeholders shown in place of unavailable properties
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
	Unknown       = "Unknown"
	NoCover       = "No cover"
)

var (
	// ErrMissing marks a property the document does not declare
	ErrMissing = errors.New("property not present")
	// ErrNotApplicable marks a property the format cannot carry
	ErrNotApplicable = errors.New("property not available for this format")
)

// Field is one property read: a value or the error that replaced it
type Field[T any] struct {
	Value T
	Err   error
}

// OK reports whether the property was read
func (f Field[T]) OK() bool {
	return f.Err == nil
}

// Or returns the value, or fallback when the read failed
func (f Field[T]) Or(fallback T) T {
	if f.Err != nil {
		return fallback
	}
	return f.Value
}

func stringField(v string) Field[string] {
	v = strings.TrimSpace(v)
	if v == "" {
		return Field[string]{Err: ErrMissing}
	}
	return Field[string]{Value: v}
}

func failed[T any](err error) Field[T] {
	return Field[T]{Err: err}
}

// DocumentMetadata holds every property with its own outcome
type DocumentMetadata struct {
	Title     Field[string]
	Author    Field[string]
	Language  Field[string]
	Subject   Field[string]
	Creator   Field[string]
	Producer  Field[string]
	Publisher Field[string]
	Pages     Field[int]
	Cover     Field[string]
}

// Display is the resolved, placeholder-filled view of DocumentMetadata
type Display struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Language  string `json:"language" yaml:"language"`
	Subject   string `json:"subject" yaml:"subject"`
	Creator   string `json:"creator" yaml:"creator"`
	Producer  string `json:"producer" yaml:"producer"`
	Publisher string `json:"publisher" yaml:"publisher"`
	Pages     int    `json:"pages" yaml:"pages"`
	Cover     string `json:"cover" yaml:"cover"`
}

// Resolve replaces every failed property with its placeholder
func Resolve(md DocumentMetadata) Display {
	return Display{
		Title:     md.Title.Or(UnknownTitle),
		Author:    md.Author.Or(UnknownAuthor),
		Language:  md.Language.Or(Unknown),
		Subject:   md.Subject.Or(Unknown),
		Creator:   md.Creator.Or(Unknown),
		Producer:  md.Producer.Or(Unknown),
		Publisher: md.Publisher.Or(Unknown),
		Pages:     md.Pages.Or(0),
		Cover:     md.Cover.Or(NoCover),
	}
}

// Errors lists the failed properties by name, skipping those the document
// simply does not carry
func (md DocumentMetadata) Errors() map[string]error {
	out := make(map[string]error)
	add := func(name string, err error) {
		if err != nil && !errors.Is(err, ErrMissing) && !errors.Is(err, ErrNotApplicable) {
			out[name] = err
		}
	}
	add("title", md.Title.Err)
	add("author", md.Author.Err)
	add("language", md.Language.Err)
	add("subject", md.Subject.Err)
	add("creator", md.Creator.Err)
	add("producer", md.Producer.Err)
	add("publisher", md.Publisher.Err)
	add("pages", md.Pages.Err)
	add("cover", md.Cover.Err)
	return out
}

// allFailed marks every property with err
func allFailed(err error) DocumentMetadata {
	return DocumentMetadata{
		Title:     failed[string](err),
		Author:    failed[string](err),
		Language:  failed[string](err),
		Subject:   failed[string](err),
		Creator:   failed[string](err),
		Producer:  failed[string](err),
		Publisher: failed[string](err),
		Pages:     failed[int](err),
		Cover:     failed[string](err),
	}
}

// Extract reads the properties of a document. It never fails; problems are
// recorded per property.
func Extract(doc *document.Document) (md DocumentMetadata) {
	if doc == nil {
		return allFailed(ErrNotApplicable)
	}
	defer func() {
		if r := recover(); r != nil {
			md = allFailed(fmt.Errorf("metadata extraction panic: %v", r))
		}
	}()

	switch doc.Format {
	case document.FormatPDF:
		return fromPDF(doc.Data)
	case document.FormatEPUB:
		return fromEPUB(doc.Data)
	default:
		return allFailed(ErrNotApplicable)
	}
}

func fromPDF(data []byte) DocumentMetadata {
	pm, err := metaextractpdflib.ExtractMetadata(data)
	if err != nil {
		return allFailed(err)
	}

	md := DocumentMetadata{
		Title:     stringField(pm.Title),
		Author:    stringField(pm.Author),
		Language:  failed[string](ErrNotApplicable),
		Subject:   stringField(pm.Subject),
		Creator:   stringField(pm.Creator),
		Producer:  stringField(pm.Producer),
		Publisher: failed[string](ErrNotApplicable),
		Cover:     failed[string](ErrNotApplicable),
	}
	if pm.PageCount > 0 {
		md.Pages = Field[int]{Value: pm.PageCount}
	} else {
		md.Pages = failed[int](ErrMissing)
	}
	return md
}

func fromEPUB(data []byte) DocumentMetadata {
	em, err := metaextractepublib.ExtractMetadata(data)
	if err != nil {
		return allFailed(err)
	}

	md := DocumentMetadata{
		Title:     stringField(em.Title),
		Author:    stringField(em.Author()),
		Language:  stringField(em.Language),
		Subject:   stringField(em.Subject),
		Creator:   failed[string](ErrNotApplicable),
		Producer:  failed[string](ErrNotApplicable),
		Publisher: stringField(em.Publisher),
		Pages:     failed[int](ErrNotApplicable),
	}
	if em.CoverErr != nil {
		md.Cover = failed[string](em.CoverErr)
	} else {
		md.Cover = Field[string]{Value: DescribeCover(em.Cover)}
	}
	return md
}

// DescribeCover renders a one-line cover description
func DescribeCover(c *metaextractepublib.Cover) string {
	if c == nil {
		return NoCover
	}
	desc := fmt.Sprintf("%s %dx%d", strings.ToUpper(c.Format), c.Width, c.Height)
	if c.Artist != "" {
		desc += ", artist " + c.Artist
	}
	return desc
}
