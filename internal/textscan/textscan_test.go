package textscan

import (
	"errors"
	"regexp"
	"testing"
)

func TestBetween(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		left     string
		right    string
		expected string
	}{
		{
			name:     "simple",
			haystack: `{"jsUrl":"/s/player/abc/base.js","other":1}`,
			left:     `"jsUrl":"`,
			right:    `"`,
			expected: "/s/player/abc/base.js",
		},
		{
			name:     "left missing",
			haystack: "abcdef",
			left:     "xyz",
			right:    "f",
			expected: "",
		},
		{
			name:     "right missing",
			haystack: "abcdef",
			left:     "abc",
			right:    "xyz",
			expected: "",
		},
		{
			name:     "empty match",
			haystack: "leftright",
			left:     "left",
			right:    "right",
			expected: "",
		},
		{
			name:     "first occurrence wins",
			haystack: "a[one]b[two]",
			left:     "[",
			right:    "]",
			expected: "one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Between(tt.haystack, tt.left, tt.right); got != tt.expected {
				t.Errorf("Between() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBetweenRegex(t *testing.T) {
	re := regexp.MustCompile(`\bytInitialPlayerResponse\s*=\s*`)
	body := `window.ytInitialPlayerResponse = {"videoDetails":{}};` + "\nvar x;"
	got := BetweenRegex(body, re, "\n")
	if got != `{"videoDetails":{}};` {
		t.Errorf("BetweenRegex() = %q", got)
	}
	if got := BetweenRegex("nothing here", re, "\n"); got != "" {
		t.Errorf("Expected empty result for absent pattern, got %q", got)
	}
}

func TestCutAfterJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "object with trailing data",
			input:    `{"a":1,"b":2}trailing`,
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "array",
			input:    `[1,[2,3],{"a":4}]rest`,
			expected: `[1,[2,3],{"a":4}]`,
		},
		{
			name:     "brackets inside string",
			input:    `{"a":"}{","b":"]["}tail`,
			expected: `{"a":"}{","b":"]["}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `{"a":"he said \"}\" loudly"}tail`,
			expected: `{"a":"he said \"}\" loudly"}`,
		},
		{
			name:     "double backslash before closing quote",
			input:    `{"a":"c:\\"}tail`,
			expected: `{"a":"c:\\"}`,
		},
		{
			name:     "nested objects",
			input:    `{"a":{"b":{"c":[]}}}...`,
			expected: `{"a":{"b":{"c":[]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CutAfterJSON(tt.input)
			if err != nil {
				t.Fatalf("CutAfterJSON() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("CutAfterJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCutAfterJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty input", input: "", want: ErrNoOpeningBracket},
		{name: "no opening bracket", input: `"a":1}`, want: ErrNoOpeningBracket},
		{name: "unbalanced object", input: `{"a":{"b":1}`, want: ErrUnbalanced},
		{name: "unbalanced array", input: `[1,2`, want: ErrUnbalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CutAfterJSON(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("CutAfterJSON() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseAbbreviatedNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		ok       bool
	}{
		{name: "plain", input: "1234", expected: 1234, ok: true},
		{name: "thousands", input: "810K", expected: 810_000, ok: true},
		{name: "millions fractional", input: "1.5M", expected: 1_500_000, ok: true},
		{name: "comma decimal", input: "1,5M", expected: 1_500_000, ok: true},
		{name: "with suffix text", input: "12K subscribers", expected: 12_000, ok: true},
		{name: "no number", input: "none", expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAbbreviatedNumber(tt.input)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseAbbreviatedNumber(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}
