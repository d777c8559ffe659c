// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package epubtest builds small EPUB publications in memory for tests.
package epubtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
)

// Chapter is one XHTML content document
type Chapter struct {
	ID   string
	Href string
	// Body is inserted verbatim inside <body>
	Body string
	// Unlisted chapters are in the manifest but not the spine
	Unlisted bool
}

// Cover describes the cover image
type Cover struct {
	Href      string
	MediaType string
	Data      []byte
	// EPUB2 declares the cover with <meta name="cover"> instead of properties
	EPUB2 bool
}

// Book describes a publication
type Book struct {
	Title     string
	Creators  []string
	Language  string
	Subject   string
	Publisher string
	Chapters  []Chapter
	Cover     *Cover
	// OPFDir is the directory holding the package document: "OEBPS" when
	// empty, the archive root when "."
	OPFDir string
	// Extra members are written verbatim
	Extra map[string]string
	// OmitContainer drops META-INF/container.xml
	OmitContainer bool
}

// Bytes renders the publication as an EPUB archive
func (b Book) Bytes() ([]byte, error) {
	prefix := "OEBPS/"
	switch b.OPFDir {
	case "":
	case ".":
		prefix = ""
	default:
		prefix = b.OPFDir + "/"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte("application/epub+zip")); err != nil {
		return nil, err
	}

	files := map[string]string{}
	order := []string{}
	add := func(name, body string) {
		files[name] = body
		order = append(order, name)
	}

	if !b.OmitContainer {
		add("META-INF/container.xml", fmt.Sprintf(`<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="%scontent.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`, prefix))
	}
	add(prefix+"content.opf", b.opf())
	for _, ch := range b.Chapters {
		add(prefix+ch.Href, fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>%s</title></head><body>%s</body></html>`,
			html.EscapeString(ch.ID), ch.Body))
	}
	if b.Cover != nil {
		add(prefix+b.Cover.Href, string(b.Cover.Data))
	}
	for name, body := range b.Extra {
		add(name, body)
	}

	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBytes is Bytes for fixtures that cannot fail
func (b Book) MustBytes() []byte {
	data, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return data
}

func (b Book) opf() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
`)
	if b.Title != "" {
		fmt.Fprintf(&sb, "    <dc:title>%s</dc:title>\n", html.EscapeString(b.Title))
	}
	for _, c := range b.Creators {
		fmt.Fprintf(&sb, "    <dc:creator>%s</dc:creator>\n", html.EscapeString(c))
	}
	if b.Language != "" {
		fmt.Fprintf(&sb, "    <dc:language>%s</dc:language>\n", b.Language)
	}
	if b.Subject != "" {
		fmt.Fprintf(&sb, "    <dc:subject>%s</dc:subject>\n", html.EscapeString(b.Subject))
	}
	if b.Publisher != "" {
		fmt.Fprintf(&sb, "    <dc:publisher>%s</dc:publisher>\n", html.EscapeString(b.Publisher))
	}
	if b.Cover != nil && b.Cover.EPUB2 {
		sb.WriteString(`    <meta name="cover" content="cover-img"/>` + "\n")
	}
	sb.WriteString("  </metadata>\n  <manifest>\n")
	for _, ch := range b.Chapters {
		fmt.Fprintf(&sb, `    <item id="%s" href="%s" media-type="application/xhtml+xml"/>`+"\n", ch.ID, ch.Href)
	}
	if b.Cover != nil {
		props := ` properties="cover-image"`
		if b.Cover.EPUB2 {
			props = ""
		}
		fmt.Fprintf(&sb, `    <item id="cover-img" href="%s" media-type="%s"%s/>`+"\n", b.Cover.Href, b.Cover.MediaType, props)
	}
	sb.WriteString("  </manifest>\n  <spine>\n")
	for _, ch := range b.Chapters {
		if !ch.Unlisted {
			fmt.Fprintf(&sb, `    <itemref idref="%s"/>`+"\n", ch.ID)
		}
	}
	sb.WriteString("  </spine>\n</package>\n")
	return sb.String()
}
