// Package classify decides whether a fetched body is a known binary file
// rather than a text/HTML document.
package classify

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	headerChars    = 16
	nullScanChars  = 1000
	ratioScanChars = 2000
	// maxControlRatio is the share of control characters above which a
	// sample is treated as binary.
	maxControlRatio = 0.1

	// Generic is reported when content looks binary but matches no signature.
	Generic = "Binary"
)

// Signature is a leading byte sequence identifying a file format.
type Signature struct {
	Magic []byte
	Name  string
}

// Signatures is checked in order; the first match wins.
var Signatures = []Signature{
	{Magic: []byte("%PDF"), Name: "PDF"},
	{Magic: []byte("\x89PNG"), Name: "PNG"},
	{Magic: []byte("\xff\xd8\xff"), Name: "JPEG"},
	{Magic: []byte("GIF8"), Name: "GIF"},
	{Magic: []byte("PK\x03\x04"), Name: "ZIP/Office"},
	{Magic: []byte("Rar!"), Name: "RAR"},
	{Magic: []byte("\x1f\x8b"), Name: "GZIP"},
}

// Result is the outcome of Classify. FileType is empty when IsBinary is false.
type Result struct {
	IsBinary bool
	FileType string
}

// Classify inspects a text sample. Bodies decoded from JSON carry binary
// bytes as code points 0-255, so the header is re-encoded as latin-1 before
// comparing it against Signatures. Samples that are not valid UTF-8 are
// compared byte for byte.
func Classify(content string) Result {
	if header, ok := latin1Header(content); ok {
		for _, sig := range Signatures {
			if bytes.HasPrefix(header, sig.Magic) {
				return Result{IsBinary: true, FileType: sig.Name}
			}
		}
	}

	if strings.ContainsRune(prefixRunes(content, nullScanChars), 0) {
		return Result{IsBinary: true, FileType: Generic}
	}

	sample := prefixRunes(content, ratioScanChars)
	total, control := 0, 0
	for _, r := range sample {
		total++
		if r < 32 && r != '\n' && r != '\r' && r != '\t' {
			control++
		}
	}
	if total > 0 && float64(control)/float64(total) > maxControlRatio {
		return Result{IsBinary: true, FileType: Generic}
	}
	return Result{}
}

// latin1Header returns the first headerChars characters as single bytes.
// ok is false when a character has no latin-1 representation.
func latin1Header(content string) ([]byte, bool) {
	head := prefixRunes(content, headerChars)
	if !utf8.ValidString(head) {
		return []byte(content[:min(len(content), headerChars)]), true
	}
	encoded, err := charmap.ISO8859_1.NewEncoder().String(head)
	if err != nil {
		return nil, false
	}
	return []byte(encoded), true
}

func prefixRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
