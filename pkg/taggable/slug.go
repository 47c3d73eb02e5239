package taggable

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify maps free-form text to its canonical slug form: lowercase, with
// every run of characters outside [a-z0-9] collapsed to a single hyphen and
// leading/trailing hyphens stripped. All-symbol input yields "".
func Slugify(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
