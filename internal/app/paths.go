package app

import (
    "crypto/sha256"
    "encoding/hex"
    "net/url"
    "path/filepath"
    "regexp"
    "strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// documentPath returns a stable Markdown output path under dir for target.
// The filename is a slug of host and path plus a short hash of the full URL
// so that distinct URLs with the same slug do not collide.
func documentPath(dir, target string) string {
    base := target
    if u, err := url.Parse(target); err == nil && u.Host != "" {
        base = u.Host + u.Path
    }
    h := sha256.Sum256([]byte(strings.TrimSpace(target)))
    short := hex.EncodeToString(h[:])[:12]
    return filepath.Join(dir, slugify(base)+"-"+short+".md")
}

func slugify(s string) string {
    s = strings.ToLower(strings.TrimSpace(s))
    s = nonSlug.ReplaceAllString(s, "-")
    s = strings.Trim(s, "-")
    if len(s) > 80 { s = strings.TrimRight(s[:80], "-") }
    if s == "" { s = "page" }
    return s
}
