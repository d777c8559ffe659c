// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractepublib

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"

	epub "author-scan/internal/preprocessors/text-extractors/text-extract-epublib"
)

// ErrNoCover is returned when the package declares no cover image
var ErrNoCover = errors.New("no cover image declared")

// Metadata represents the Dublin Core properties of an EPUB package
type Metadata struct {
	Title     string
	Authors   []string
	Language  string
	Subject   string
	Publisher string
	Version   string

	// Cover is nil when CoverErr is set
	Cover    *Cover
	CoverErr error
}

// Cover describes the cover image of a publication
type Cover struct {
	Href      string
	MediaType string
	Format    string
	Width     int
	Height    int
	Size      int
	// Artist is the EXIF artist of a JPEG cover, when present
	Artist string
}

// Author joins the creators for display
func (m *Metadata) Author() string {
	return strings.Join(m.Authors, ", ")
}

// ExtractMetadata reads the package metadata. Cover problems are recorded in
// CoverErr and never fail the extraction.
func ExtractMetadata(data []byte) (*Metadata, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening EPUB container: %w", err)
	}

	pkg, err := epub.OpenPackage(zr)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Authors:   pkg.Metadata.Creators,
		Publisher: pkg.Metadata.Publisher,
		Version:   pkg.Version,
		Subject:   strings.Join(pkg.Metadata.Subjects, ", "),
	}
	if len(pkg.Metadata.Titles) > 0 {
		md.Title = pkg.Metadata.Titles[0]
	}
	if len(pkg.Metadata.Languages) > 0 {
		md.Language = pkg.Metadata.Languages[0]
	}

	md.Cover, md.CoverErr = extractCover(zr, pkg)
	return md, nil
}

// findCover returns the EPUB3 cover-image item, or the item named by the
// EPUB2 <meta name="cover"> element
func findCover(pkg *epub.Package) (epub.ManifestItem, bool) {
	for _, item := range pkg.Manifest {
		if item.HasProperty("cover-image") {
			return item, true
		}
	}
	if id := pkg.Metadata.Meta["cover"]; id != "" {
		return pkg.Item(id)
	}
	return epub.ManifestItem{}, false
}

func extractCover(zr *zip.Reader, pkg *epub.Package) (*Cover, error) {
	item, ok := findCover(pkg)
	if !ok {
		return nil, ErrNoCover
	}

	raw, err := epub.ReadMember(zr, pkg.ItemPath(item))
	if err != nil {
		return nil, fmt.Errorf("cover image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cover image %s: %w", item.Href, err)
	}

	cover := &Cover{
		Href:      item.Href,
		MediaType: item.MediaType,
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Size:      len(raw),
	}
	if format == "jpeg" {
		cover.Artist = exifArtist(raw)
	}
	return cover, nil
}

// exifArtist reads the Artist tag of a JPEG; missing EXIF yields ""
func exifArtist(raw []byte) string {
	x, err := exif.Decode(bytes.NewReader(raw))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return ""
	}
	tag, err := x.Get(exif.Artist)
	if err != nil {
		return ""
	}
	artist, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(artist)
}
