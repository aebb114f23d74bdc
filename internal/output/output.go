// Package output assembles the final text document returned by a scrape.
package output

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/webustler/internal/extract"
	"github.com/hyperifyio/webustler/internal/urlnorm"
)

// Section caps.
const (
	MaxInternalLinks = 100
	MaxExternalLinks = 50
	MaxImages        = 50
)

// Document is everything the assembler needs for one page.
type Document struct {
	Metadata *extract.Metadata
	Markdown string
	Links    extract.LinkSet
	Images   []string
}

// Format renders frontmatter, the markdown body and the link and image
// sections.
func Format(doc Document) string {
	lines := []string{"---"}
	if doc.Metadata != nil {
		for _, key := range doc.Metadata.Keys() {
			value, _ := doc.Metadata.Get(key)
			lines = append(lines, frontmatterLines(key, value)...)
		}
	}
	if n := len(doc.Links.Internal); n > 0 {
		lines = append(lines, fmt.Sprintf("internalLinksCount: %d", n))
	}
	if n := len(doc.Links.External); n > 0 {
		lines = append(lines, fmt.Sprintf("externalLinksCount: %d", n))
	}
	if n := len(doc.Images); n > 0 {
		lines = append(lines, fmt.Sprintf("imagesCount: %d", n))
	}
	lines = append(lines, "---\n", doc.Markdown)

	lines = appendSection(lines, "Internal Links", doc.Links.Internal, MaxInternalLinks)
	lines = appendSection(lines, "External Links", doc.Links.External, MaxExternalLinks)
	lines = appendSection(lines, "Images", doc.Images, MaxImages)
	return strings.Join(lines, "\n")
}

func frontmatterLines(key string, value any) []string {
	switch v := value.(type) {
	case *extract.Pairs:
		out := []string{key + ":"}
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			out = append(out, fmt.Sprintf("  %s: %s", k, val))
		}
		return out
	case []string:
		return []string{fmt.Sprintf("%s: %s", key, strings.Join(v, ", "))}
	default:
		return []string{fmt.Sprintf("%s: %v", key, v)}
	}
}

func appendSection(lines []string, title string, items []string, limit int) []string {
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, "\n\n---\n## "+title+"\n")
	for _, item := range items[:min(len(items), limit)] {
		lines = append(lines, "- "+item)
	}
	return lines
}

// FileNotice is returned instead of markdown when the URL serves a binary
// file.
func FileNotice(sourceURL, fileType string) string {
	filename := urlnorm.Filename(sourceURL)
	return fmt.Sprintf(`---
sourceURL: %[1]s
contentType: %[2]s
filename: %[3]s
isFile: true
---

# File Download Detected

The URL points to a **%[2]s** file rather than a web page.

| Property | Value |
|----------|-------|
| Type | %[2]s |
| Filename | %[3]s |
| URL | %[1]s |

This scraper is designed for web pages. Use a dedicated tool to process this file type.`, sourceURL, fileType, filename)
}
