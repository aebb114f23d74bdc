// Package urlnorm resolves page references to absolute http(s) URLs and
// extracts hosts for same-site comparison.
package urlnorm

import (
	"net/url"
	"strings"
)

// skippedPrefixes mark references that never point at another page.
var skippedPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// Normalize resolves href against base and returns the absolute URL.
// ok is false for empty or in-page references, non-http(s) schemes and
// anything that fails to parse.
func Normalize(href, base string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	for _, p := range skippedPrefixes {
		if strings.HasPrefix(href, p) {
			return "", false
		}
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := baseURL.ResolveReference(ref)
	if !isHTTPScheme(abs) {
		return "", false
	}
	return abs.String(), true
}

// DomainOf returns the lowercased host (including any port) of rawURL, or ""
// when it cannot be parsed. An empty domain never matches a real one, so
// malformed URLs end up classified as external.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Filename returns the text after the last "/" in rawURL, or "unknown" when
// rawURL has no slash at all.
func Filename(rawURL string) string {
	i := strings.LastIndex(rawURL, "/")
	if i < 0 {
		return "unknown"
	}
	return rawURL[i+1:]
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
