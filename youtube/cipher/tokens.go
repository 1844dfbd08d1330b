package cipher

import "fmt"

// Op identifies one primitive transform operation.
type Op int

const (
	// OpReverse reverses the whole character sequence.
	OpReverse Op = iota
	// OpSwap swaps index 0 with index arg modulo length.
	OpSwap
	// OpSlice drops the first arg characters.
	OpSlice
	// OpSplice removes the first arg characters. Same effect as OpSlice for
	// this instruction set; kept distinct because the source grammar
	// distinguishes them.
	OpSplice
)

func (op Op) String() string {
	switch op {
	case OpReverse:
		return "reverse"
	case OpSwap:
		return "swap"
	case OpSlice:
		return "slice"
	case OpSplice:
		return "splice"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Token is one replayable transform step. Order within a sequence is
// significant and must be replayed exactly as extracted.
type Token struct {
	Op  Op
	Arg int
}

// Tokens holds both transform sequences extracted from one player script.
// A nil sequence means the corresponding structural search found nothing.
type Tokens struct {
	Decipher   []Token
	NTransform []Token
}

// Empty reports whether neither transform was extracted.
func (t Tokens) Empty() bool {
	return len(t.Decipher) == 0 && len(t.NTransform) == 0
}

// Apply replays tokens in order against input and returns the transformed
// string. It is total over any input: out-of-range swap indexes are taken
// modulo length and slice/splice counts are clamped, mirroring the
// modulo-protected operations in the source transforms.
func Apply(tokens []Token, input string) string {
	r := []rune(input)
	for _, tok := range tokens {
		switch tok.Op {
		case OpReverse:
			for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
				r[i], r[j] = r[j], r[i]
			}
		case OpSwap:
			if len(r) == 0 {
				continue
			}
			i := tok.Arg % len(r)
			if i < 0 {
				i += len(r)
			}
			r[0], r[i] = r[i], r[0]
		case OpSlice, OpSplice:
			n := tok.Arg
			if n < 0 {
				n = 0
			}
			if n > len(r) {
				n = len(r)
			}
			r = r[n:]
		}
	}
	return string(r)
}
