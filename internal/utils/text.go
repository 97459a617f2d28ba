package utils

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// Slugify turns a title into a URL-safe identifier: lower-case, every run
// of characters outside [a-z0-9] collapsed into one hyphen, and no leading
// or trailing hyphen. Slugify(Slugify(s)) == Slugify(s).
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// NormalizeEmail trims and case-folds an address for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DigitsOnly strips everything but 0-9, e.g. "+62 812-3456" -> "628123456".
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
