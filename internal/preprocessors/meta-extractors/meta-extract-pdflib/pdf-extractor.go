// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Sources of the extracted properties
const (
	SourcePDFCPU = "pdfcpu"
	SourceScan   = "scan"
)

// Metadata represents PDF document properties
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	Creator   string
	Producer  string
	PageCount int
	Version   string
	Encrypted bool
	// Source records which reader produced the properties
	Source string
}

var disableConfigOnce sync.Once

// ExtractMetadata reads the document information dictionary through pdfcpu.
// Files pdfcpu rejects are scanned for a raw Info dictionary instead.
func ExtractMetadata(data []byte) (*Metadata, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("not a PDF file: invalid header")
	}

	metadata, err := readWithPDFCPU(data)
	if err == nil {
		return metadata, nil
	}

	scanned := scanInfoDictionary(data)
	if scanned.Title == "" && scanned.Author == "" && scanned.PageCount == 0 {
		return nil, fmt.Errorf("failed to read PDF properties: %w", err)
	}
	return scanned, nil
}

func readWithPDFCPU(data []byte) (metadata *Metadata, err error) {
	// pdfcpu must not create a configuration directory in the user's home
	disableConfigOnce.Do(api.DisableConfigDir)

	defer func() {
		if r := recover(); r != nil {
			metadata, err = nil, fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	return &Metadata{
		Title:     cleanField(ctx.Title),
		Author:    cleanField(ctx.Author),
		Subject:   cleanField(ctx.Subject),
		Creator:   cleanField(ctx.Creator),
		Producer:  cleanField(ctx.Producer),
		PageCount: ctx.PageCount,
		Version:   extractPDFVersion(data),
		Encrypted: isEncrypted(data),
		Source:    SourcePDFCPU,
	}, nil
}

var (
	pdfVersionPattern = regexp.MustCompile(`%PDF-(\d+\.\d+)`)
	infoRefPattern    = regexp.MustCompile(`/Info\s+(\d+)\s+\d+\s+R`)
	pagePattern       = regexp.MustCompile(`/Type\s*/Page[^s]`)
	countPattern      = regexp.MustCompile(`/Count\s+(\d+)`)
	encryptPattern    = regexp.MustCompile(`/Encrypt\s+\d+\s+\d+\s+R`)
)

// scanInfoDictionary locates the Info dictionary by its object reference and
// reads its string entries without parsing the cross-reference table
func scanInfoDictionary(data []byte) *Metadata {
	metadata := &Metadata{
		Version:   extractPDFVersion(data),
		PageCount: countPages(data),
		Encrypted: isEncrypted(data),
		Source:    SourceScan,
	}

	var dict string
	if m := infoRefPattern.FindSubmatch(data); len(m) >= 2 {
		objPattern := regexp.MustCompile(`(?s)\b` + string(m[1]) + `\s+\d+\s+obj\s*<<(.*?)>>`)
		if om := objPattern.FindSubmatch(data); len(om) >= 2 {
			dict = string(om[1])
		}
	}
	if dict == "" {
		return metadata
	}

	metadata.Title = cleanField(extractStringField(dict, "Title"))
	metadata.Author = cleanField(extractStringField(dict, "Author"))
	metadata.Subject = cleanField(extractStringField(dict, "Subject"))
	metadata.Creator = cleanField(extractStringField(dict, "Creator"))
	metadata.Producer = cleanField(extractStringField(dict, "Producer"))
	return metadata
}

// extractPDFVersion extracts the PDF version from the header
func extractPDFVersion(data []byte) string {
	size := len(data)
	if size > 1024 {
		size = 1024
	}
	if m := pdfVersionPattern.FindSubmatch(data[:size]); len(m) >= 2 {
		return string(m[1])
	}
	return ""
}

// extractStringField reads a literal or hex string entry of a dictionary
func extractStringField(dictionary, fieldName string) string {
	literal := regexp.MustCompile(`/` + fieldName + `\s*\(((?:\\.|[^\\()])*)\)`)
	if m := literal.FindStringSubmatch(dictionary); len(m) >= 2 {
		r := strings.NewReplacer(`\)`, ")", `\(`, "(", `\\`, `\`)
		return r.Replace(m[1])
	}

	hex := regexp.MustCompile(`/` + fieldName + `\s*<([0-9A-Fa-f\s]+)>`)
	if m := hex.FindStringSubmatch(dictionary); len(m) >= 2 {
		return decodeHexString(m[1])
	}

	return ""
}

// decodeHexString decodes a PDF hex string, honouring a UTF-16BE byte order mark
func decodeHexString(hexStr string) string {
	hexStr = strings.Join(strings.Fields(hexStr), "")
	raw := make([]byte, 0, len(hexStr)/2)
	for i := 0; i+1 < len(hexStr); i += 2 {
		if b, err := strconv.ParseUint(hexStr[i:i+2], 16, 8); err == nil {
			raw = append(raw, byte(b))
		}
	}

	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		var sb strings.Builder
		for i := 2; i+1 < len(raw); i += 2 {
			sb.WriteRune(rune(raw[i])<<8 | rune(raw[i+1]))
		}
		return sb.String()
	}
	return string(raw)
}

// countPages counts page objects, falling back to the page tree /Count
func countPages(data []byte) int {
	if matches := pagePattern.FindAll(data, -1); len(matches) > 0 {
		return len(matches)
	}
	if m := countPattern.FindSubmatch(data); len(m) >= 2 {
		if count, err := strconv.Atoi(string(m[1])); err == nil {
			return count
		}
	}
	return 0
}

// isEncrypted checks for an /Encrypt dictionary reference
func isEncrypted(data []byte) bool {
	return encryptPattern.Match(data)
}

// cleanField trims a property and drops values that are mostly unprintable,
// which is what encrypted strings look like without the key
func cleanField(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	if s == "" {
		return ""
	}

	nonPrintable, total := 0, 0
	for _, r := range s {
		total++
		if r < 32 || r == 0xFFFD {
			nonPrintable++
		}
	}
	if float64(nonPrintable)/float64(total) > 0.2 {
		return ""
	}
	return s
}
