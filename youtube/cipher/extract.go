package cipher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/DjDeveloperr/ytdl-core/internal/logger"
)

const jsName = `[a-zA-Z0-9$_]+`

// decipherCallerRe matches the signature transform caller: a function that
// splits its argument, pipes it through helper-object calls, and joins it
// back. Backreferences tie every call site to the same parameter, which Go's
// regexp cannot express.
var decipherCallerRe = regexp2.MustCompile(
	`(?s)(?:function\s+`+jsName+`|`+jsName+`\s*=\s*function)\s*\(\s*(?<p>`+jsName+`)\s*\)\s*\{\s*`+
		`\k<p>\s*=\s*\k<p>\.split\(\s*(?:''|"")\s*\)\s*;\s*`+
		`(?<calls>(?:(?:\k<p>\s*=\s*)?`+jsName+`\.`+jsName+`\(\s*\k<p>\s*(?:,\s*\d+\s*)?\)\s*;\s*)+)`+
		`return\s+\k<p>\.join\(\s*(?:''|"")\s*\)\s*\}`,
	regexp2.None)

// nFuncRe matches the n-parameter transform: a function that splits into an
// array, loops over manipulations, and joins back into a string. The lazy
// body with a lookahead on the join call implements "extraction terminates at
// the join call".
var nFuncRe = regexp2.MustCompile(
	`(?s)(?:function\s+`+jsName+`|`+jsName+`\s*=\s*function)\s*\(\s*(?<p>`+jsName+`)\s*\)\s*\{\s*`+
		`(?:var\s+)?(?<arr>`+jsName+`)\s*=\s*\k<p>\.split\(\s*(?:''|"")\s*\)\s*[;,]`+
		`(?<body>.*?)(?=\k<arr>\.join\(\s*(?:''|"")\s*\))`,
	regexp2.None)

// Helper-object member shapes. Names rotate per release; these match the
// stable code shapes only. Each ties the member's parameters together with
// backreferences.
var (
	reverseShapeRe = regexp2.MustCompile(
		`(?<key>`+jsName+`|'[^']*'|"[^"]*")\s*:\s*function\s*\(\s*(?<a>`+jsName+`)\s*\)\s*\{\s*(?:return\s+)?\k<a>\.reverse\s*\(\s*\)\s*;?\s*\}`,
		regexp2.None)
	sliceShapeRe = regexp2.MustCompile(
		`(?<key>`+jsName+`|'[^']*'|"[^"]*")\s*:\s*function\s*\(\s*(?<a>`+jsName+`)\s*,\s*(?<b>`+jsName+`)\s*\)\s*\{\s*return\s+\k<a>\.slice\s*\(\s*\k<b>\s*\)\s*;?\s*\}`,
		regexp2.None)
	spliceShapeRe = regexp2.MustCompile(
		`(?<key>`+jsName+`|'[^']*'|"[^"]*")\s*:\s*function\s*\(\s*(?<a>`+jsName+`)\s*,\s*(?<b>`+jsName+`)\s*\)\s*\{\s*\k<a>\.splice\s*\(\s*0\s*,\s*\k<b>\s*\)\s*;?\s*\}`,
		regexp2.None)
	swapShapeRe = regexp2.MustCompile(
		`(?<key>`+jsName+`|'[^']*'|"[^"]*")\s*:\s*function\s*\(\s*(?<a>`+jsName+`)\s*,\s*(?<b>`+jsName+`)\s*\)\s*\{\s*`+
			`var\s+(?<c>`+jsName+`)\s*=\s*\k<a>\[0\]\s*;\s*`+
			`\k<a>\[0\]\s*=\s*\k<a>\[\s*\k<b>\s*%\s*\k<a>\.length\s*\]\s*;\s*`+
			`\k<a>\[\s*\k<b>\s*(?:%\s*\k<a>\.length\s*)?\]\s*=\s*\k<c>\s*;?\s*(?:return\s+\k<a>\s*;?\s*)?\}`,
		regexp2.None)
)

// shapeOrder resolves structural collisions: when one member matches several
// shapes, the first classification in this order wins the slot.
var shapeOrder = []struct {
	op Op
	re *regexp2.Regexp
}{
	{OpReverse, reverseShapeRe},
	{OpSlice, sliceShapeRe},
	{OpSplice, spliceShapeRe},
	{OpSwap, swapShapeRe},
}

// Extract scans a player script body and reduces its signature and
// n-parameter transforms into token sequences. A failed structural search
// yields a nil sequence, not an error; callers decide whether absence is
// fatal for the formats they hold.
func Extract(body string) Tokens {
	var t Tokens
	var callerStart, callerEnd int
	t.Decipher, callerStart, callerEnd = extractDecipher(body)
	t.NTransform = extractNTransform(body, callerStart, callerEnd)
	logger.WithComponent(logger.ComponentCipher).Debug("extracted transforms", map[string]interface{}{
		"decipher_ops":    len(t.Decipher),
		"n_transform_ops": len(t.NTransform),
	})
	return t
}

// extractDecipher returns the signature tokens plus the span of the caller
// function inside body, so the n-transform search can skip it.
func extractDecipher(body string) ([]Token, int, int) {
	m, err := decipherCallerRe.FindStringMatch(body)
	for ; m != nil && err == nil; m, err = decipherCallerRe.FindNextMatch(m) {
		calls := m.GroupByName("calls").String()
		param := m.GroupByName("p").String()
		obj := objectOfCalls(calls)
		if obj == "" {
			continue
		}
		ops := classifyHelper(body, obj)
		if len(ops) == 0 {
			continue
		}
		tokens := parseCallSequence(calls, obj, param, ops)
		if len(tokens) == 0 {
			continue
		}
		return tokens, m.Index, m.Index + m.Length
	}
	return nil, -1, -1
}

func extractNTransform(body string, skipStart, skipEnd int) []Token {
	m, err := nFuncRe.FindStringMatch(body)
	for ; m != nil && err == nil; m, err = nFuncRe.FindNextMatch(m) {
		if skipStart >= 0 && m.Index < skipEnd && m.Index+m.Length > skipStart {
			continue
		}
		arr := m.GroupByName("arr").String()
		tokens := parseInlineOps(body, m.GroupByName("body").String(), arr)
		if len(tokens) == 0 {
			continue
		}
		return tokens
	}
	return nil
}

var firstObjRe = regexp.MustCompile(`^(?:` + jsName + `\s*=\s*)?(` + jsName + `)\.`)

// objectOfCalls returns the helper object name used by the first call in a
// call chain.
func objectOfCalls(calls string) string {
	m := firstObjRe.FindStringSubmatch(strings.TrimSpace(calls))
	if m == nil {
		return ""
	}
	return m[1]
}

// classifyHelper locates the helper object literal and maps each member key
// to the operation its code shape denotes.
func classifyHelper(body, obj string) map[string]Op {
	literal := helperLiteral(body, obj)
	if literal == "" {
		return nil
	}
	ops := make(map[string]Op)
	for _, shape := range shapeOrder {
		m, err := shape.re.FindStringMatch(literal)
		for ; m != nil && err == nil; m, err = shape.re.FindNextMatch(m) {
			key := unquoteKey(m.GroupByName("key").String())
			if _, taken := ops[key]; !taken {
				ops[key] = shape.op
			}
		}
	}
	return ops
}

// helperLiteral cuts the balanced object literal assigned to obj.
func helperLiteral(body, obj string) string {
	for _, prefix := range []string{"var " + obj + "=", "let " + obj + "=", "const " + obj + "=", obj + "="} {
		idx := strings.Index(body, prefix)
		if idx < 0 {
			continue
		}
		rest := body[idx+len(prefix):]
		if len(rest) == 0 || rest[0] != '{' {
			continue
		}
		return cutBalancedBraces(rest)
	}
	return ""
}

// cutBalancedBraces returns the shortest balanced {...} prefix of s, treating
// characters inside single- or double-quoted JS strings as non-structural.
// Unlike the JSON cut in internal/textscan it must understand both quote
// kinds, since helper bodies routinely carry quoted keys and strings.
func cutBalancedBraces(s string) string {
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func unquoteKey(key string) string {
	if len(key) >= 2 && (key[0] == '\'' || key[0] == '"') && key[len(key)-1] == key[0] {
		return key[1 : len(key)-1]
	}
	return key
}

// parseCallSequence records, in call order, which operation each helper
// invocation represents and its integer argument. Lookup is by key identity;
// calls whose key has no structural slot are skipped.
func parseCallSequence(calls, obj, param string, ops map[string]Op) []Token {
	callRe := regexp.MustCompile(
		regexp.QuoteMeta(obj) + `\.(` + jsName + `)\(\s*` + regexp.QuoteMeta(param) + `\s*(?:,\s*(\d+)\s*)?\)`)
	var tokens []Token
	for _, m := range callRe.FindAllStringSubmatch(calls, -1) {
		op, ok := ops[m[1]]
		if !ok {
			continue
		}
		arg := 0
		if m[2] != "" {
			if v, err := strconv.Atoi(m[2]); err == nil {
				arg = v
			}
		}
		tokens = append(tokens, Token{Op: op, Arg: arg})
	}
	return tokens
}

// parseInlineOps reduces an n-transform body into tokens. The body may mix
// inline array operations with helper-object calls; both are recorded in
// source order.
func parseInlineOps(body, fnBody, arr string) []Token {
	q := regexp.QuoteMeta(arr)
	comboRe := regexp.MustCompile(
		q + `\.reverse\(\s*\)` +
			`|` + q + `(?:\s*=\s*` + q + `)?\.slice\(\s*(\d+)\s*\)` +
			`|` + q + `\.splice\(\s*0\s*,\s*(\d+)\s*\)` +
			`|` + q + `\[0\]\s*=\s*` + q + `\[\s*(\d+)\s*%\s*` + q + `\.length\s*\]` +
			`|(` + jsName + `)\.(` + jsName + `)\(\s*` + q + `\s*,\s*(\d+)\s*\)`)

	helperOps := make(map[string]map[string]Op)
	var tokens []Token
	for _, m := range comboRe.FindAllStringSubmatch(fnBody, -1) {
		switch {
		case m[1] != "":
			if v, err := strconv.Atoi(m[1]); err == nil {
				tokens = append(tokens, Token{Op: OpSlice, Arg: v})
			}
		case m[2] != "":
			if v, err := strconv.Atoi(m[2]); err == nil {
				tokens = append(tokens, Token{Op: OpSplice, Arg: v})
			}
		case m[3] != "":
			if v, err := strconv.Atoi(m[3]); err == nil {
				tokens = append(tokens, Token{Op: OpSwap, Arg: v})
			}
		case m[4] != "":
			obj := m[4]
			ops, ok := helperOps[obj]
			if !ok {
				ops = classifyHelper(body, obj)
				helperOps[obj] = ops
			}
			op, ok := ops[m[5]]
			if !ok {
				continue
			}
			arg := 0
			if v, err := strconv.Atoi(m[6]); err == nil {
				arg = v
			}
			tokens = append(tokens, Token{Op: op, Arg: arg})
		default:
			tokens = append(tokens, Token{Op: OpReverse})
		}
	}
	return tokens
}
