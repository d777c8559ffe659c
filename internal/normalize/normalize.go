// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package normalize strips non-linguistic characters from extracted text
// while keeping everything an author name can contain: Latin letters
// (including the accented Latin-1 range), hyphens, apostrophes and periods.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	// Latin-1 letters: À-Ö, Ø-ö, ø-ÿ (skips × and ÷)
	nonNameChars  = regexp.MustCompile(`[^A-Za-zÀ-ÖØ-öø-ÿ\s\-'.]`)
	whitespaceRun = regexp.MustCompile(`\s+`)

	apostrophes = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")
)

// Normalize replaces every character that is not a Latin letter, whitespace,
// hyphen, apostrophe or period with a space, collapses whitespace runs and
// trims the result. It is pure and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = apostrophes.Replace(text)
	text = nonNameChars.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// IsUpperLatin reports whether r is an uppercase Latin or accented-Latin letter
func IsUpperLatin(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'À' && r <= 'Þ' && r != '×')
}

// StartsWithUpperLatin reports whether word begins with an uppercase Latin or
// accented-Latin letter
func StartsWithUpperLatin(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return r != utf8.RuneError && IsUpperLatin(r)
}
