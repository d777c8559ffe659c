// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"author-scan/internal/document"
	metaextractepublib "author-scan/internal/preprocessors/meta-extractors/meta-extract-epublib"
	"author-scan/internal/preprocessors/text-extractors/text-extract-epublib/epubtest"
)

func TestResolve_Placeholders(t *testing.T) {
	boom := errors.New("boom")
	md := DocumentMetadata{
		Title:     Field[string]{Value: "Republic"},
		Author:    Field[string]{Err: boom},
		Language:  Field[string]{Err: ErrMissing},
		Subject:   Field[string]{Err: boom},
		Creator:   Field[string]{Err: boom},
		Producer:  Field[string]{Value: "Typesetter"},
		Publisher: Field[string]{Err: ErrNotApplicable},
		Pages:     Field[int]{Err: boom},
		Cover:     Field[string]{Err: boom},
	}

	got := Resolve(md)
	assert.Equal(t, Display{
		Title:     "Republic",
		Author:    UnknownAuthor,
		Language:  Unknown,
		Subject:   Unknown,
		Creator:   Unknown,
		Producer:  "Typesetter",
		Publisher: Unknown,
		Pages:     0,
		Cover:     NoCover,
	}, got)

	errs := md.Errors()
	assert.Len(t, errs, 5)
	assert.NotContains(t, errs, "language")
	assert.NotContains(t, errs, "publisher")
}

func TestExtract_Text(t *testing.T) {
	doc, err := document.New("notes.txt", []byte("Plato"))
	require.NoError(t, err)

	display := Resolve(Extract(doc))
	assert.Equal(t, UnknownTitle, display.Title)
	assert.Equal(t, UnknownAuthor, display.Author)
	assert.Equal(t, 0, display.Pages)
	assert.Equal(t, NoCover, display.Cover)
}

func TestExtract_EPUB(t *testing.T) {
	var cover bytes.Buffer
	require.NoError(t, png.Encode(&cover, image.NewRGBA(image.Rect(0, 0, 30, 45))))

	data := epubtest.Book{
		Title:    "The Rebel",
		Creators: []string{"Albert Camus"},
		Language: "en",
		Chapters: []epubtest.Chapter{{ID: "c", Href: "c.xhtml", Body: "<p>x</p>"}},
		Cover:    &epubtest.Cover{Href: "cover.png", MediaType: "image/png", Data: cover.Bytes()},
	}.MustBytes()
	doc, err := document.New("rebel.epub", data)
	require.NoError(t, err)

	md := Extract(doc)
	display := Resolve(md)
	assert.Equal(t, "The Rebel", display.Title)
	assert.Equal(t, "Albert Camus", display.Author)
	assert.Equal(t, "en", display.Language)
	assert.Equal(t, "PNG 30x45", display.Cover)
	assert.Equal(t, Unknown, display.Subject)
	assert.Empty(t, md.Errors())
}

func TestExtract_EPUBBrokenCoverKeepsOtherFields(t *testing.T) {
	data := epubtest.Book{
		Title:    "The Fall",
		Chapters: []epubtest.Chapter{{ID: "c", Href: "c.xhtml", Body: "<p>x</p>"}},
		Cover:    &epubtest.Cover{Href: "cover.png", MediaType: "image/png", Data: []byte("junk")},
	}.MustBytes()
	doc, err := document.New("fall.epub", data)
	require.NoError(t, err)

	md := Extract(doc)
	assert.True(t, md.Title.OK())
	assert.False(t, md.Cover.OK())
	assert.Equal(t, "The Fall", Resolve(md).Title)
	assert.Equal(t, NoCover, Resolve(md).Cover)
	assert.Contains(t, md.Errors(), "cover")
}

func TestExtract_MalformedPDF(t *testing.T) {
	doc, err := document.New("broken.pdf", []byte("%PDF-1.4\nnothing useful"))
	require.NoError(t, err)

	md := Extract(doc)
	display := Resolve(md)
	assert.Equal(t, UnknownTitle, display.Title)
	assert.Equal(t, 0, display.Pages)
	assert.Len(t, md.Errors(), 9)
}

func TestDescribeCover(t *testing.T) {
	assert.Equal(t, NoCover, DescribeCover(nil))
	assert.Equal(t, "JPEG 8x12, artist Jane", DescribeCover(&metaextractepublib.Cover{Format: "jpeg", Width: 8, Height: 12, Artist: "Jane"}))
}
