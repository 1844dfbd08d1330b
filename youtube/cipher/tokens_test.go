package cipher

import "testing"

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		input  string
		want   string
	}{
		{
			name:   "reverse",
			tokens: []Token{{Op: OpReverse}},
			input:  "abcdef",
			want:   "fedcba",
		},
		{
			name:   "swap head",
			tokens: []Token{{Op: OpSwap, Arg: 3}},
			input:  "0123456789",
			want:   "3120456789",
		},
		{
			name:   "swap wraps past length",
			tokens: []Token{{Op: OpSwap, Arg: 13}},
			input:  "0123456789",
			want:   "3120456789",
		},
		{
			name:   "slice drops prefix",
			tokens: []Token{{Op: OpSlice, Arg: 2}},
			input:  "abcdef",
			want:   "cdef",
		},
		{
			name:   "splice drops prefix",
			tokens: []Token{{Op: OpSplice, Arg: 4}},
			input:  "abcdef",
			want:   "ef",
		},
		{
			name:   "slice past end empties",
			tokens: []Token{{Op: OpSlice, Arg: 99}},
			input:  "abc",
			want:   "",
		},
		{
			name: "chained sequence",
			tokens: []Token{
				{Op: OpSwap, Arg: 3},
				{Op: OpReverse},
				{Op: OpSlice, Arg: 2},
				{Op: OpSplice, Arg: 1},
			},
			input: "0123456789",
			want:  "6540213",
		},
		{
			name:   "empty input",
			tokens: []Token{{Op: OpReverse}, {Op: OpSwap, Arg: 5}},
			input:  "",
			want:   "",
		},
		{
			name:   "no tokens is identity",
			tokens: nil,
			input:  "abc",
			want:   "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.tokens, tt.input)
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyIdentities(t *testing.T) {
	const input = "dQw4w9WgXcQsig"

	t.Run("double reverse", func(t *testing.T) {
		got := Apply([]Token{{Op: OpReverse}, {Op: OpReverse}}, input)
		if got != input {
			t.Errorf("got %q, want input unchanged", got)
		}
	})

	t.Run("slice zero", func(t *testing.T) {
		got := Apply([]Token{{Op: OpSlice, Arg: 0}}, input)
		if got != input {
			t.Errorf("got %q, want input unchanged", got)
		}
	})

	t.Run("swap zero", func(t *testing.T) {
		got := Apply([]Token{{Op: OpSwap, Arg: 0}}, input)
		if got != input {
			t.Errorf("got %q, want input unchanged", got)
		}
	})
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpReverse, "reverse"},
		{OpSwap, "swap"},
		{OpSlice, "slice"},
		{OpSplice, "splice"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestTokensEmpty(t *testing.T) {
	var tok Tokens
	if !tok.Empty() {
		t.Error("zero Tokens should be empty")
	}
	tok.NTransform = []Token{{Op: OpReverse}}
	if tok.Empty() {
		t.Error("Tokens with an n-transform should not be empty")
	}
}
