// Package extract pulls structured facts out of a parsed page before it is
// cleaned: frontmatter metadata, internal/external links and image URLs.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/webustler/internal/urlnorm"
)

// Result bundles everything extracted from one pristine document.
type Result struct {
	Metadata *Metadata
	Links    LinkSet
	Images   []string
}

// LinkSet holds sorted, de-duplicated absolute link URLs split by site.
type LinkSet struct {
	Internal []string
	External []string
}

// Parse builds the document tree shared by extraction and cleaning.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// FromDocument runs every extractor over doc. It must be called before the
// cleaner mutates doc.
func FromDocument(doc *goquery.Document, baseURL string, statusCode int) Result {
	return Result{
		Metadata: ExtractMetadata(doc, baseURL, statusCode),
		Links:    ExtractLinks(doc, baseURL),
		Images:   ExtractImages(doc, baseURL),
	}
}

// ExtractMetadata reads title, description, social cards and friends. A key
// is only present when its source element exists with non-empty content.
func ExtractMetadata(doc *goquery.Document, baseURL string, statusCode int) *Metadata {
	md := NewMetadata()
	md.Set("sourceURL", baseURL)
	md.Set("statusCode", statusCode)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		md.Set("title", title)
	} else if v := metaContent(doc, "meta[property='og:title']"); v != "" {
		md.Set("title", v)
	}

	if v := metaContent(doc, "meta[name='description']"); v != "" {
		md.Set("description", v)
	} else if v := metaContent(doc, "meta[property='og:description']"); v != "" {
		md.Set("description", v)
	}

	setIf(md, "author", metaContent(doc, "meta[name='author']"))
	setIf(md, "language", attr(doc.Find("html").First(), "lang"))
	setIf(md, "canonical", attr(doc.Find("link[rel~='canonical']").First(), "href"))

	if raw, ok := doc.Find("meta[name='keywords']").First().Attr("content"); ok {
		var keywords []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) > 0 {
			md.Set("keywords", keywords)
		}
	}

	setIf(md, "robots", metaContent(doc, "meta[name='robots']"))

	if og := prefixedPairs(doc, "meta[property^='og:']", "property", "og:"); og.Len() > 0 {
		md.Set("openGraph", og)
	}
	if tw := prefixedPairs(doc, "meta[name^='twitter:']", "name", "twitter:"); tw.Len() > 0 {
		md.Set("twitter", tw)
	}

	setIf(md, "publishedTime", metaContent(doc, "meta[property='article:published_time']"))
	setIf(md, "modifiedTime", metaContent(doc, "meta[property='article:modified_time']"))

	if href := attr(doc.Find("link[rel~='icon']").First(), "href"); href != "" {
		if abs, ok := urlnorm.Normalize(href, baseURL); ok {
			md.Set("favicon", abs)
		} else {
			md.Set("favicon", href)
		}
	}
	return md
}

// ExtractLinks collects every anchor href, split into links on the same host
// as baseURL and links elsewhere.
func ExtractLinks(doc *goquery.Document, baseURL string) LinkSet {
	baseDomain := urlnorm.DomainOf(baseURL)
	internal := map[string]struct{}{}
	external := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs, ok := urlnorm.Normalize(href, baseURL)
		if !ok {
			return
		}
		if urlnorm.DomainOf(abs) == baseDomain {
			internal[abs] = struct{}{}
		} else {
			external[abs] = struct{}{}
		}
	})
	return LinkSet{Internal: sortedKeys(internal), External: sortedKeys(external)}
}

// ExtractImages collects img src and srcset candidates, skipping inline
// data URIs.
func ExtractImages(doc *goquery.Document, baseURL string) []string {
	images := map[string]struct{}{}
	add := func(src string) {
		if strings.HasPrefix(src, "data:") {
			return
		}
		if abs, ok := urlnorm.Normalize(src, baseURL); ok {
			images[abs] = struct{}{}
		}
	}
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		add(src)
	})
	doc.Find("img[srcset]").Each(func(_ int, img *goquery.Selection) {
		srcset, _ := img.Attr("srcset")
		for _, candidate := range strings.Split(srcset, ",") {
			fields := strings.Fields(candidate)
			if len(fields) == 0 {
				continue
			}
			add(fields[0])
		}
	})
	return sortedKeys(images)
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc.Find(selector).First(), "content")
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

func setIf(md *Metadata, key, value string) {
	if value != "" {
		md.Set(key, value)
	}
}

func prefixedPairs(doc *goquery.Document, selector, attrName, prefix string) *Pairs {
	pairs := NewPairs()
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr(attrName)
		key := strings.TrimPrefix(name, prefix)
		content := attr(s, "content")
		if key == "" || content == "" {
			return
		}
		pairs.Set(key, content)
	})
	return pairs
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
