package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Salwar Kameez" → "salwar-kameez"
//   - "Modest Wear" → "modest-wear"
//   - "Hello   World!" → "hello-world"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Any run of non-alphanumerics becomes a single hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// Humanize turns a slug back into space separated words, keeping the
// original casing: "salwar-kameez" → "salwar kameez".
func Humanize(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return strings.Join(words, " ")
}

// Title humanizes the slug and upper-cases the first letter of each word:
// "new-arrivals" → "New Arrivals".
func Title(slug string) string {
	words := strings.Fields(Humanize(slug))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
