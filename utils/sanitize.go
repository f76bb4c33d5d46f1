package utils

import "github.com/microcosm-cc/bluemonday"

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans HTML in user supplied content to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}

// StripHTML removes all markup. Memo and tagging contents are plain text.
func StripHTML(input string) string {
	return stripper.Sanitize(input)
}
