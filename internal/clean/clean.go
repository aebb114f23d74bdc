// Package clean strips page furniture from a parsed document and picks the
// subtree that holds the main content.
package clean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Cleaner removes noise from a document in place. The zero value is not
// usable; use New or Default.
type Cleaner struct {
	Tags  []string
	Rules []Rule
}

// Default returns a Cleaner with the built-in tag and rule tables.
func Default() *Cleaner {
	return New(RemovableTags, RemovableRules)
}

func New(tags []string, rules []Rule) *Cleaner {
	return &Cleaner{Tags: tags, Rules: rules}
}

// Clean mutates doc. Extraction must already have run: removed elements
// (navigation, headers) are gone afterwards.
func (c *Cleaner) Clean(doc *goquery.Document) {
	if len(c.Tags) > 0 {
		doc.Find(strings.Join(c.Tags, ", ")).Remove()
	}
	for _, r := range c.Rules {
		doc.Find(r.Selector()).Remove()
	}
	doc.Find("img[src^='data:']").Remove()
	removeEmpty(doc)
}

// MainContent returns the first article, else main, else body. When the
// cleaner removed all of those the whole document is returned.
func MainContent(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"article", "main", "body"} {
		if s := doc.Find(tag).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Selection
}

// removeEmpty drops elements without visible text. Table structure is always
// kept, as are img/br/hr and any element that contains one of them.
func removeEmpty(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if tableTags[n.Data] || voidTags[n.Data] {
			return
		}
		if hasContent(n) {
			return
		}
		s.Remove()
	})
}

func hasContent(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return true
			}
		case html.ElementNode:
			if voidTags[c.Data] || hasContent(c) {
				return true
			}
		}
	}
	return false
}
