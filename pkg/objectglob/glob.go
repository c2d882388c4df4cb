// Package objectglob implements shell-style key matching and key validation
// for the listing stage of the fetch pipeline.
package objectglob

import (
	"fmt"
	"strings"
)

// Matcher holds a compiled glob pattern. A nil *Matcher matches everything;
// Compile returns one only when a non-empty pattern was supplied.
type Matcher struct {
	pattern string
}

// Compile compiles an optional shell-glob pattern ("*", "?", "[abc]") into a
// Matcher. An empty pattern returns a nil Matcher, which Match treats as
// "match everything" per objectglob's contract.
//
// path.Match and filepath.Match are deliberately not used here: both treat
// '/' as a path separator that '*' and '?' cannot cross, which contradicts
// spec.md §6's "'*' matches any run of non-empty characters including '/'"
// — a full-key glob, not a basename one. wildcardMatch below is a hand-
// rolled matcher with no separator awareness at all.
func Compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		return nil, nil
	}
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	return &Matcher{pattern: pattern}, nil
}

// Match reports whether key matches m. A nil Matcher matches every key.
func (m *Matcher) Match(key string) bool {
	if m == nil {
		return true
	}
	return wildcardMatch(m.pattern, key)
}

// validatePattern rejects a pattern that wildcardMatch cannot evaluate
// (an unterminated character class), so a bad pattern is caught at compile
// time rather than surfacing confusingly on the first key.
func validatePattern(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '[' {
			continue
		}
		end, ok := classEnd(pattern, i)
		if !ok {
			return fmt.Errorf("objectglob: unterminated character class in pattern %q", pattern)
		}
		i = end
	}
	return nil
}

// classEnd returns the index of the ']' closing the character class that
// opens at pattern[start] (which must be '['), and whether one was found.
// A ']' immediately after the opening bracket (or after a leading '^') is
// treated as a literal member of the class, matching shell glob convention.
func classEnd(pattern string, start int) (int, bool) {
	i := start + 1
	if i < len(pattern) && pattern[i] == '^' {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for i < len(pattern) {
		if pattern[i] == ']' {
			return i, true
		}
		i++
	}
	return 0, false
}

// wildcardMatch reports whether s matches pattern using shell-glob
// semantics over the full string: '*' matches any run of characters
// (including none, and including '/'), '?' matches exactly one character
// (including '/'), and '[set]'/'[^set]' matches one character against a
// class. Matching is a standard two-pointer scan with backtracking to the
// most recent '*' on a mismatch, the same algorithm shells use for
// argument globbing, generalized so no character is special-cased.
func wildcardMatch(pattern, s string) bool {
	var pi, si int
	starIdx, starMatchIdx := -1, -1

	for si < len(s) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			starIdx = pi
			starMatchIdx = si
			pi++
		case pi < len(pattern) && pattern[pi] == '?':
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '[':
			end, ok := classEnd(pattern, pi)
			if ok && matchClass(pattern[pi:end+1], s[si]) {
				pi = end + 1
				si++
				continue
			}
			if starIdx == -1 {
				return false
			}
			pi = starIdx + 1
			starMatchIdx++
			si = starMatchIdx
		case pi < len(pattern) && pattern[pi] == s[si]:
			pi++
			si++
		case starIdx != -1:
			pi = starIdx + 1
			starMatchIdx++
			si = starMatchIdx
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// matchClass reports whether c matches the bracketed class "[set]" or
// "[^set]" (class includes the enclosing brackets). Supports single
// members and 'a-z'-style ranges; no escaping, matching shell glob classes.
func matchClass(class string, c byte) bool {
	body := class[1 : len(class)-1]
	negate := false
	if strings.HasPrefix(body, "^") {
		negate = true
		body = body[1:]
	}

	matched := false
	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			if lo <= c && c <= hi {
				matched = true
			}
			i += 2
			continue
		}
		if body[i] == c {
			matched = true
		}
	}
	return matched != negate
}

// IsValidKey reports whether key is structurally usable as an object path:
// it must not be empty, start with '/', end with '/', or contain a "//" run.
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return false
	}
	return !strings.Contains(key, "//")
}

// ShouldRead reports whether a listed key should be turned into a read task:
// it must be a structurally valid key and, if m is non-nil, match it.
func ShouldRead(key string, m *Matcher) bool {
	return IsValidKey(key) && m.Match(key)
}
