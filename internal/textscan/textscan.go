// Package textscan provides primitives for isolating JSON values and code
// fragments inside semi-structured script and page bodies.
package textscan

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoOpeningBracket indicates the input does not start with { or [.
	ErrNoOpeningBracket = errors.New("textscan: input must begin with { or [")
	// ErrUnbalanced indicates end of input was reached with brackets still open.
	ErrUnbalanced = errors.New("textscan: no matching closing bracket found")
)

// Between returns the substring strictly between the first occurrence of left
// and the first subsequent occurrence of right. It returns "" when either
// delimiter is absent.
func Between(haystack, left, right string) string {
	pos := strings.Index(haystack, left)
	if pos == -1 {
		return ""
	}
	haystack = haystack[pos+len(left):]
	end := strings.Index(haystack, right)
	if end == -1 {
		return ""
	}
	return haystack[:end]
}

// BetweenRegex is Between with a pattern as the left delimiter: the slice
// starts right after the first match of left.
func BetweenRegex(haystack string, left *regexp.Regexp, right string) string {
	loc := left.FindStringIndex(haystack)
	if loc == nil {
		return ""
	}
	haystack = haystack[loc[1]:]
	end := strings.Index(haystack, right)
	if end == -1 {
		return ""
	}
	return haystack[:end]
}

// CutAfterJSON returns the shortest prefix of s that is a balanced JSON value.
// s must begin with { or [. Characters inside double-quoted strings, including
// backslash-escaped quotes, are non-structural.
func CutAfterJSON(s string) (string, error) {
	if s == "" {
		return "", ErrNoOpeningBracket
	}

	var open, close byte
	switch s[0] {
	case '[':
		open, close = '[', ']'
	case '{':
		open, close = '{', '}'
	default:
		return "", ErrNoOpeningBracket
	}

	inString := false
	escaped := false
	counter := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !escaped {
			inString = !inString
			continue
		}
		escaped = c == '\\' && !escaped
		if inString {
			continue
		}

		switch c {
		case open:
			counter++
		case close:
			counter--
		}
		if counter == 0 {
			return s[:i+1], nil
		}
	}
	return "", ErrUnbalanced
}

var abbrevNumberRe = regexp.MustCompile(`([\d,.]+)([MK]?)`)

// ParseAbbreviatedNumber converts strings like "1.2M" or "810K subscribers"
// into an absolute count. The second return value is false when no number is
// present.
func ParseAbbreviatedNumber(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	m := abbrevNumberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch m[2] {
	case "M":
		num *= 1_000_000
	case "K":
		num *= 1_000
	}
	return int64(math.Round(num)), true
}
