package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-supplied display strings and
// trims surrounding whitespace. Display names and descriptions are
// rendered into completion pages, so markup is never allowed through.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
