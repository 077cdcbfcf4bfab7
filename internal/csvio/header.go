package csvio

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeaderFunc normalizes a header cell before it is used as a field name.
type HeaderFunc func(string) string

var (
	lowerCaser = cases.Lower(language.Und)
	whitespace = regexp.MustCompile(`\s+`)
)

// RawHeader keeps header cells as written.
func RawHeader(s string) string {
	return s
}

// LowerHeader lower-cases a header cell.
// The public website inventory is read with this normalization.
func LowerHeader(s string) string {
	return lowerCaser.String(s)
}

// SnakeHeader trims and lower-cases a header cell and replaces every run of
// whitespace with an underscore. "Domain Name" becomes "domain_name".
// The federal registry is read with this normalization.
func SnakeHeader(s string) string {
	return whitespace.ReplaceAllString(lowerCaser.String(strings.TrimSpace(s)), "_")
}
