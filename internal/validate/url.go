package validate

import (
	"regexp"
	"slices"
)

// urlPattern is deliberately permissive: consecutive dots in the host and any
// characters after '/' or '#' are accepted. The host part is greedy, so the
// tld group only ever captures the final dot-separated segment.
var urlPattern = regexp.MustCompile(`^([a-zA-Z\d]+://)?[a-zA-Z\d\-\.]+(?P<tld>\.[a-zA-Z\d\.]+[a-zA-Z])([/#].*)?$`)

var tldIndex = urlPattern.SubexpIndex("tld")

// IsURL reports whether candidate matches the URL grammar as a whole and,
// when tldWhitelist is non-empty, whether its top-level domain (with the
// leading dot, e.g. ".com") is an exact member of the whitelist.
//
// Whitelist entries spanning several labels, such as ".pt.br", never match:
// "example.pt.br" captures ".br".
func IsURL(candidate string, tldWhitelist []string) bool {
	tld, ok := URLTLD(candidate)
	if !ok {
		return false
	}
	if len(tldWhitelist) == 0 {
		return true
	}
	return slices.Contains(tldWhitelist, tld)
}

// URLTLD returns the top-level domain captured from candidate, including its
// leading dot. ok is false if candidate does not match the grammar.
func URLTLD(candidate string) (tld string, ok bool) {
	m := urlPattern.FindStringSubmatch(candidate)
	if m == nil {
		return "", false
	}
	return m[tldIndex], true
}
