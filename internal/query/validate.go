package query

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Limits applied before a user-supplied string may influence query structure.
const (
	MaxPathLength     = 100
	MaxPathDepth      = 5 // maximum number of dots, i.e. at most 6 segments
	MaxValueLength    = 1000
	MaxContainsLength = 5000
)

// pathPattern allows one or more segments of ASCII letters, digits, and
// underscores joined by single dots. Anything outside this set (quotes,
// brackets, operators) is rejected outright rather than escaped, because the
// path controls which keys a query descends into.
var pathPattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\.[A-Za-z0-9_]+)*$`)

// ValidJSONPath reports whether path is a safe dotted key path.
// Empty paths, paths longer than MaxPathLength, paths with characters outside
// the allow-list, and paths deeper than MaxPathDepth dots are rejected.
func ValidJSONPath(path string) bool {
	if path == "" || len(path) > MaxPathLength {
		return false
	}
	if !pathPattern.MatchString(path) {
		return false
	}
	if strings.Count(path, ".") > MaxPathDepth {
		return false
	}
	return true
}

// ValidJSONString reports whether s is non-empty, within maxLen, and
// syntactically valid JSON. The parsed value is discarded; only validity
// matters here.
func ValidJSONString(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	return json.Valid([]byte(s))
}
