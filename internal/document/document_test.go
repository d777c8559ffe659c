// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want Format
	}{
		{"book.pdf", FormatPDF},
		{"Book.PDF", FormatPDF},
		{"novel.epub", FormatEPUB},
		{"/tmp/notes.txt", FormatTXT},
		{"archive.tar.txt", FormatTXT},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatFromFilename(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatFromFilename_Unsupported(t *testing.T) {
	for _, name := range []string{"report.docx", "README", "image.png"} {
		t.Run(name, func(t *testing.T) {
			_, err := FormatFromFilename(name)
			require.Error(t, err)

			var ufe *UnsupportedFormatError
			assert.True(t, errors.As(err, &ufe))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestNew(t *testing.T) {
	doc, err := New("/uploads/essay.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "essay.txt", doc.Name)
	assert.Equal(t, FormatTXT, doc.Format)
	assert.Equal(t, []byte("hello"), doc.Data)

	_, err = New("essay.docx", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnsupportedFormatError_Message(t *testing.T) {
	err := &UnsupportedFormatError{Format: "docx"}
	assert.Contains(t, err.Error(), `"docx"`)
	assert.Contains(t, err.Error(), ".pdf, .epub, .txt")

	missing := &UnsupportedFormatError{}
	assert.Contains(t, missing.Error(), "missing file extension")
}
