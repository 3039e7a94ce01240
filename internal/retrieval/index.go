// Package retrieval supplies ranked grounding snippets from existing site
// content, so generated copy stays anchored to what the site actually says.
package retrieval

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is one indexed piece of site content.
type Document struct {
	Path  string
	Title string
	Text  string
}

// ContentIndex is an in-memory index over exported site pages. It is built
// once and read-only afterwards, so concurrent searches need no locking.
type ContentIndex struct {
	docs []Document
}

// NewIndex builds an index over pre-extracted documents.
func NewIndex(docs []Document) *ContentIndex {
	return &ContentIndex{docs: docs}
}

// LoadDir walks a directory of exported site content (.html/.htm parsed with
// goquery, .md/.txt taken as plain text) and indexes every readable file.
// Unreadable or unparseable files are skipped rather than failing the load.
func LoadDir(dir string) (*ContentIndex, error) {
	var docs []Document

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".html", ".htm", ".md", ".txt":
		default:
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}

		var doc Document
		var parseErr error
		if ext == ".html" || ext == ".htm" {
			doc, parseErr = parseHTML(rel, string(data))
		} else {
			doc = parseMarkdown(rel, string(data))
		}
		if parseErr != nil {
			return nil
		}

		if strings.TrimSpace(doc.Text) != "" {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk content directory %s: %w", dir, err)
	}

	return NewIndex(docs), nil
}

// parseHTML extracts the title and visible text from an HTML page.
func parseHTML(path, html string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse HTML %s: %w", path, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	var paragraphs []string
	body.Find("p, h1, h2, h3, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	text := strings.Join(paragraphs, "\n")
	if text == "" {
		text = strings.Join(strings.Fields(body.Text()), " ")
	}

	return Document{Path: path, Title: title, Text: text}, nil
}

// parseMarkdown treats the first heading as the title and the rest as text.
func parseMarkdown(path, content string) Document {
	title := ""
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			title = strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
			break
		}
	}
	return Document{Path: path, Title: title, Text: content}
}

// Documents returns the indexed documents in load order.
func (idx *ContentIndex) Documents() []Document {
	return idx.docs
}

// sortSnippetsDeterministic orders by score descending, then path, so equal
// scores always produce the same ranking.
func sortSnippetsDeterministic(snippets []scoredHit) {
	sort.Slice(snippets, func(i, j int) bool {
		if snippets[i].score != snippets[j].score {
			return snippets[i].score > snippets[j].score
		}
		return snippets[i].path < snippets[j].path
	})
}
