package audit

import "regexp"

// EmptyToken is returned by DomainToken when no label can be extracted.
const EmptyToken = "empty"

var (
	domainTokenPattern  = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?([^./\s:]+)[./]`)
	baseGovPattern      = regexp.MustCompile(`(?i)^.*?([a-z0-9-]+\.gov)/?$`)
	schemePattern       = regexp.MustCompile(`(?i)^https?://`)
	unacceptableURLExpr = regexp.MustCompile(`\\|:|\?|www\.`)
)

// DomainToken returns the first DNS label of url after an optional scheme
// and "www." prefix. "https://www.example.gov/page" yields "example".
func DomainToken(url string) string {
	m := domainTokenPattern.FindStringSubmatch(url)
	if m == nil {
		return EmptyToken
	}
	return m[1]
}

// BaseGovDomain collapses s to its trailing "<label>.gov".
// Strings that do not end in .gov are returned unchanged. This is a string
// transform, not a URL parse.
func BaseGovDomain(s string) string {
	return baseGovPattern.ReplaceAllString(s, "$1")
}

// IsUnacceptableURL reports whether a website value contains a backslash,
// a colon, a question mark or "www.". The colon of a leading "http://" or
// "https://" scheme does not count.
func IsUnacceptableURL(website string) bool {
	return unacceptableURLExpr.MatchString(schemePattern.ReplaceAllString(website, ""))
}
