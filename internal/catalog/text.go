package catalog

import "strings"

// PlaceholderImage is served when a product image path is empty.
const PlaceholderImage = "/placeholder.png"

// TruncateText shortens text to at most max runes, trims trailing space and
// appends "...". Text that already fits is returned as is.
func TruncateText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max < 0 {
		max = 0
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// ImageURL returns path, or PlaceholderImage when path is empty.
func ImageURL(path string) string {
	if path == "" {
		return PlaceholderImage
	}
	return path
}
