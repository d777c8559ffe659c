// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractepublib

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

const containerPath = "META-INF/container.xml"

// Document media types of content documents
const (
	MediaTypeXHTML = "application/xhtml+xml"
	MediaTypeHTML  = "text/html"
)

var (
	// ErrNoContainer is returned when META-INF/container.xml is missing
	ErrNoContainer = errors.New("missing META-INF/container.xml")
	// ErrNoPackage is returned when the container names no package document
	ErrNoPackage = errors.New("container lists no package document")
)

// Package represents the parsed OPF package document
type Package struct {
	Version  string
	Metadata Metadata
	// Manifest holds every item in document order
	Manifest []ManifestItem
	Spine    []SpineItem
	// Dir is the archive directory of the package document; hrefs resolve against it
	Dir string

	byID map[string]int
}

// Metadata contains the Dublin Core fields of the package
type Metadata struct {
	Titles    []string
	Creators  []string
	Languages []string
	Subjects  []string
	Publisher string
	// Meta maps EPUB2 <meta name= content=> pairs
	Meta map[string]string
}

// ManifestItem represents a file in the publication
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// SpineItem represents a content document in reading order
type SpineItem struct {
	IDRef  string
	Linear bool
}

// IsDocument reports whether the item is an (X)HTML content document
func (m ManifestItem) IsDocument() bool {
	mt := strings.ToLower(strings.TrimSpace(m.MediaType))
	return mt == MediaTypeXHTML || mt == MediaTypeHTML
}

// HasProperty reports whether the item carries the given manifest property
func (m ManifestItem) HasProperty(prop string) bool {
	for _, p := range m.Properties {
		if p == prop {
			return true
		}
	}
	return false
}

type containerXML struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfXML struct {
	Version  string `xml:"version,attr"`
	Metadata struct {
		Titles    []string `xml:"title"`
		Creators  []string `xml:"creator"`
		Languages []string `xml:"language"`
		Subjects  []string `xml:"subject"`
		Publisher string   `xml:"publisher"`
		Metas     []struct {
			Name    string `xml:"name,attr"`
			Content string `xml:"content,attr"`
		} `xml:"meta"`
	} `xml:"metadata"`
	Items []struct {
		ID         string `xml:"id,attr"`
		Href       string `xml:"href,attr"`
		MediaType  string `xml:"media-type,attr"`
		Properties string `xml:"properties,attr"`
	} `xml:"manifest>item"`
	ItemRefs []struct {
		IDRef  string `xml:"idref,attr"`
		Linear string `xml:"linear,attr"`
	} `xml:"spine>itemref"`
}

// OpenPackage locates the package document through the OCF container and
// parses it
func OpenPackage(zr *zip.Reader) (*Package, error) {
	raw, err := ReadMember(zr, containerPath)
	if err != nil {
		if errors.Is(err, errMemberNotFound) {
			return nil, ErrNoContainer
		}
		return nil, err
	}

	var container containerXML
	if err := xml.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("invalid container.xml: %w", err)
	}

	var opfPath string
	for _, rf := range container.Rootfiles {
		if rf.FullPath != "" {
			opfPath = rf.FullPath
			break
		}
	}
	if opfPath == "" {
		return nil, ErrNoPackage
	}

	raw, err = ReadMember(zr, opfPath)
	if err != nil {
		return nil, fmt.Errorf("package document: %w", err)
	}
	return ParsePackage(raw, path.Dir(opfPath))
}

// ParsePackage parses an OPF document whose hrefs are relative to dir
func ParsePackage(raw []byte, dir string) (*Package, error) {
	var opf opfXML
	if err := xml.Unmarshal(raw, &opf); err != nil {
		return nil, fmt.Errorf("invalid package document: %w", err)
	}

	if dir == "." {
		dir = ""
	}
	pkg := &Package{
		Version: opf.Version,
		Dir:     dir,
		Metadata: Metadata{
			Titles:    trimAll(opf.Metadata.Titles),
			Creators:  trimAll(opf.Metadata.Creators),
			Languages: trimAll(opf.Metadata.Languages),
			Subjects:  trimAll(opf.Metadata.Subjects),
			Publisher: strings.TrimSpace(opf.Metadata.Publisher),
			Meta:      make(map[string]string),
		},
		byID: make(map[string]int, len(opf.Items)),
	}

	for _, m := range opf.Metadata.Metas {
		if m.Name != "" {
			pkg.Metadata.Meta[m.Name] = m.Content
		}
	}

	for _, it := range opf.Items {
		pkg.byID[it.ID] = len(pkg.Manifest)
		pkg.Manifest = append(pkg.Manifest, ManifestItem{
			ID:         it.ID,
			Href:       it.Href,
			MediaType:  it.MediaType,
			Properties: strings.Fields(it.Properties),
		})
	}

	for _, ref := range opf.ItemRefs {
		pkg.Spine = append(pkg.Spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		})
	}

	return pkg, nil
}

// Item looks up a manifest item by ID
func (p *Package) Item(id string) (ManifestItem, bool) {
	i, ok := p.byID[id]
	if !ok {
		return ManifestItem{}, false
	}
	return p.Manifest[i], true
}

// ItemPath resolves an item href to its archive path
func (p *Package) ItemPath(item ManifestItem) string {
	href := item.Href
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	return strings.TrimPrefix(path.Join(p.Dir, href), "/")
}

// ContentDocuments returns the document items in spine order followed by
// any document items the spine does not reference, in manifest order
func (p *Package) ContentDocuments() []ManifestItem {
	seen := make(map[string]bool, len(p.Manifest))
	var docs []ManifestItem

	for _, ref := range p.Spine {
		item, ok := p.Item(ref.IDRef)
		if !ok || seen[item.ID] || !item.IsDocument() {
			continue
		}
		seen[item.ID] = true
		docs = append(docs, item)
	}
	for _, item := range p.Manifest {
		if seen[item.ID] || !item.IsDocument() {
			continue
		}
		seen[item.ID] = true
		docs = append(docs, item)
	}
	return docs
}

var errMemberNotFound = errors.New("archive member not found")

// ReadMember reads a whole archive member by name
func ReadMember(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", name, errMemberNotFound)
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
