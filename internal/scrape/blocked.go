package scrape

import "strings"

// BlockSignatures appear in pages served by anti-bot and verification
// challenges. The primary service returns such pages with a 200 status.
var BlockSignatures = []string{
	"Verify you are human by completing the action below.",
	"Warning: Target URL returned error 403: Forbidden",
	"Verification is taking longer than expected. Check your Internet connection",
	"Warning: This page maybe requiring CAPTCHA, please make sure you are authorized to access this page.",
	"needs to review the security of your connection before proceeding.",
}

// IsBlocked reports whether body contains any block signature.
func IsBlocked(body string) bool {
	for _, sig := range BlockSignatures {
		if strings.Contains(body, sig) {
			return true
		}
	}
	return false
}
