// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const damagedPDF = `%PDF-1.4
1 0 obj
<< /Title (The Myth of Sisyphus) /Author (Albert Camus) /Producer <FEFF00410042> /Creator (Writer \(v2\)) >>
endobj
2 0 obj
<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>
endobj
3 0 obj
<< /Type /Page /Parent 2 0 R >>
endobj
4 0 obj
<< /Type /Page /Parent 2 0 R >>
endobj
trailer
<< /Root 5 0 R /Info 1 0 R >>
%%EOF
`

func TestExtractMetadata_ScanFallback(t *testing.T) {
	md, err := ExtractMetadata([]byte(damagedPDF))
	require.NoError(t, err)

	assert.Equal(t, "The Myth of Sisyphus", md.Title)
	assert.Equal(t, "Albert Camus", md.Author)
	assert.Equal(t, "AB", md.Producer)
	assert.Equal(t, "Writer (v2)", md.Creator)
	assert.Equal(t, 2, md.PageCount)
	assert.Equal(t, "1.4", md.Version)
	assert.False(t, md.Encrypted)
}

func TestExtractMetadata_Failures(t *testing.T) {
	_, err := ExtractMetadata([]byte("not a pdf"))
	assert.Error(t, err)

	_, err = ExtractMetadata([]byte("%PDF-1.4\ngarbage without objects\n%%EOF"))
	assert.Error(t, err)
}

func TestExtractStringField(t *testing.T) {
	tests := []struct {
		name  string
		dict  string
		field string
		want  string
	}{
		{"literal", "/Title (Hello)", "Title", "Hello"},
		{"escaped parens", `/Title (A \(B\) C)`, "Title", "A (B) C"},
		{"hex latin", "/Author <4A616E65>", "Author", "Jane"},
		{"hex utf16", "/Author <FEFF00C9006D0069006C0065>", "Author", "Émile"},
		{"missing", "/Title (Hello)", "Author", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractStringField(tt.dict, tt.field))
		})
	}
}

func TestCleanField(t *testing.T) {
	assert.Equal(t, "Plato", cleanField("  Plato "))
	assert.Equal(t, "", cleanField("\x01\x02\x03a"))
	assert.Equal(t, "Søren", cleanField("Søren"))
	assert.Equal(t, "", cleanField(""))
}

func TestCountPagesAndEncryption(t *testing.T) {
	assert.Equal(t, 7, countPages([]byte("<< /Type /Pages /Count 7 >>")))
	assert.Equal(t, 0, countPages([]byte("nothing")))
	assert.True(t, isEncrypted([]byte("trailer << /Encrypt 9 0 R >>")))
	assert.Equal(t, "1.7", extractPDFVersion([]byte("%PDF-1.7\n")))
	assert.Equal(t, "", extractPDFVersion([]byte("PK")))
}
