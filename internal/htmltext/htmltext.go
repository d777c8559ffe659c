// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package htmltext converts (X)HTML content documents to plain text.
package htmltext

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// elements whose content is never rendered as text
const hiddenSelector = "head, script, style, noscript, template, svg"

// blockElements are separated from their neighbours by whitespace
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// Extract returns the visible text of an HTML or XHTML document. Block
// elements are separated by whitespace; inline markup is dropped without
// splitting words.
func Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}
	return FromSelection(doc.Selection), nil
}

// ExtractString is Extract over an in-memory document
func ExtractString(markup string) (string, error) {
	return Extract(strings.NewReader(markup))
}

// FromSelection renders the text of an already parsed selection
func FromSelection(sel *goquery.Selection) string {
	sel.Find(hiddenSelector).Remove()

	var sb strings.Builder
	for _, node := range sel.Nodes {
		writeNode(&sb, node)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[strings.ToLower(n.Data)]
	if block {
		sb.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(sb, c)
	}
	if block {
		sb.WriteByte(' ')
	}
}
