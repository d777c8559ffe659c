// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

// ErrNoPageText is returned when no page yields any text
var ErrNoPageText = errors.New("no page contained extractable text")

// Options bounds the page walk
type Options struct {
	// MaxPages caps the number of pages read; zero reads every page
	MaxPages int
	// Workers is the number of pages extracted concurrently; zero uses GOMAXPROCS
	Workers int
}

// TextContent represents the text layer of a PDF, page by page
type TextContent struct {
	Text        string
	PageCount   int
	PagesRead   int
	FailedPages int
}

// ExtractText walks the text layer of every page and joins the page texts
// with a single space, in page order
func ExtractText(ctx context.Context, data []byte, opts Options) (*TextContent, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	content := &TextContent{PageCount: r.NumPage()}
	pages := content.PageCount
	if opts.MaxPages > 0 && pages > opts.MaxPages {
		pages = opts.MaxPages
	}
	content.PagesRead = pages

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pageTexts := make([]string, pages)
	pageErrs := make([]error, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 1; i <= pages; i++ {
		pageNum := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := extractPage(r, pageNum)
			pageTexts[pageNum-1] = text
			pageErrs[pageNum-1] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range pageErrs {
		if err != nil {
			content.FailedPages++
		}
	}

	content.Text = joinPages(pageTexts)
	if content.Text == "" {
		if content.FailedPages > 0 {
			return nil, fmt.Errorf("%w: %d of %d pages failed: %w",
				ErrNoPageText, content.FailedPages, pages, errors.Join(pageErrs...))
		}
		return nil, ErrNoPageText
	}

	return content, nil
}

// extractPage reads one page; the reader may panic on damaged content streams
func extractPage(r *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", pageNum, rec)
		}
	}()

	p := r.Page(pageNum)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d: null page", pageNum)
	}
	text, err = extractTextWithProperSpacing(p)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", pageNum, err)
	}
	return text, nil
}

// joinPages concatenates non-empty page texts with a separating space
func joinPages(pageTexts []string) string {
	parts := make([]string, 0, len(pageTexts))
	for _, text := range pageTexts {
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// extractTextWithProperSpacing extracts text using row-based positioning for better spacing
func extractTextWithProperSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	var lines []string
	for _, row := range orderRows(rows) {
		if rowText := strings.TrimSpace(reconstructRowText(row.Content)); rowText != "" {
			lines = append(lines, rowText)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// orderRows drops empty rows and sorts the rest top to bottom. PDF user
// space grows upwards, so the top row has the highest Y.
func orderRows(rows pdf.Rows) []*pdf.Row {
	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return getAverageY(sorted[i].Content) > getAverageY(sorted[j].Content)
	})
	return sorted
}

// getAverageY calculates the average Y coordinate for text elements in a row
func getAverageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}
	return totalY / float64(len(textElements))
}

// reconstructRowText rebuilds a row left to right, inserting a space where the
// gap between glyph runs exceeds a fifth of the font size
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)
	sort.SliceStable(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer
	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i < len(sortedElements)-1 {
			gap := sortedElements[i+1].X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}
			if gap > fontSize*0.2 {
				buf.WriteString(" ")
			}
		}
	}

	return buf.String()
}
