// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructRowText(t *testing.T) {
	tests := []struct {
		name     string
		elements []pdf.Text
		want     string
	}{
		{
			name: "glyphs without gaps form one word",
			elements: []pdf.Text{
				{S: "C", X: 10, W: 6, FontSize: 10},
				{S: "a", X: 16, W: 5, FontSize: 10},
				{S: "mus", X: 21, W: 15, FontSize: 10},
			},
			want: "Camus",
		},
		{
			name: "wide gap inserts a space",
			elements: []pdf.Text{
				{S: "Albert", X: 10, W: 30, FontSize: 10},
				{S: "Camus", X: 45, W: 28, FontSize: 10},
			},
			want: "Albert Camus",
		},
		{
			name: "elements are ordered by X",
			elements: []pdf.Text{
				{S: "Camus", X: 45, W: 28},
				{S: "Albert", X: 0, W: 30},
			},
			want: "Albert Camus",
		},
		{
			name:     "empty row",
			elements: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconstructRowText(tt.elements))
		})
	}
}

func TestOrderRows(t *testing.T) {
	rows := pdf.Rows{
		{Position: 1, Content: []pdf.Text{{S: "bottom", Y: 100}}},
		nil,
		{Position: 2, Content: nil},
		{Position: 3, Content: []pdf.Text{{S: "top", Y: 700}}},
		{Position: 4, Content: []pdf.Text{{S: "middle", Y: 400}}},
	}

	ordered := orderRows(rows)
	require.Len(t, ordered, 3)
	assert.Equal(t, "top", ordered[0].Content[0].S)
	assert.Equal(t, "middle", ordered[1].Content[0].S)
	assert.Equal(t, "bottom", ordered[2].Content[0].S)
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "one two three", joinPages([]string{"one", "", "  two\n", "three"}))
	assert.Equal(t, "", joinPages([]string{"", " "}))
	assert.Equal(t, "", joinPages(nil))
}

func TestGetAverageY(t *testing.T) {
	assert.Equal(t, 0.0, getAverageY(nil))
	assert.Equal(t, 15.0, getAverageY([]pdf.Text{{Y: 10}, {Y: 20}}))
}

func TestExtractText_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not a pdf", []byte("plain text")},
		{"truncated header", []byte("%PDF-1.4\n%%EOF")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := ExtractText(context.Background(), tt.data, Options{MaxPages: 5, Workers: 2})
			assert.Error(t, err)
			assert.Nil(t, content)
		})
	}
}
