package repair

import (
	"regexp"
	"strings"
	"unicode"
)

// keyStart matches the first character of a quoted key the model forgot to
// separate from the previous value: an ASCII letter, an underscore or a CJK
// ideograph. RE2 has no lookahead, so rules capture this character and write
// it back unchanged.
const keyStart = `([a-zA-Z_\x{4e00}-\x{9fff}])`

// ws is any Unicode whitespace, including U+3000 and the no-break spaces that
// RE2's \s leaves out.
const ws = `[\t\n\v\f\r\x{1c}-\x{1f}\x{85}\p{Z}]`

// digit is any decimal digit, full-width forms included.
const digit = `\p{Nd}`

// Rule is a single textual rewrite applied to near-JSON text. Apply must be
// pure: the same input always yields the same output.
type Rule struct {
	ID          string
	Name        string
	Description string
	Apply       func(string) string
}

func substitute(pattern, replacement string) func(string) string {
	re := regexp.MustCompile(pattern)
	return func(s string) string {
		return re.ReplaceAllString(s, replacement)
	}
}

func chain(fns ...func(string) string) func(string) string {
	return func(s string) string {
		for _, fn := range fns {
			s = fn(s)
		}
		return s
	}
}

// rules is the ordered repair chain. Order matters: the separator insertions
// run first, then the comma clean-ups remove what they may have overdone.
var rules = []Rule{
	{
		ID:          "a",
		Name:        "adjacent-objects",
		Description: `}{ -> },{`,
		Apply:       substitute(`\}`+ws+`*\{`, `},{`),
	},
	{
		ID:          "b",
		Name:        "adjacent-arrays",
		Description: `][ -> ],[`,
		Apply:       substitute(`\]`+ws+`*\[`, `],[`),
	},
	{
		ID:          "c",
		Name:        "object-then-key",
		Description: `}"key -> },"key`,
		Apply:       substitute(`\}`+ws+`*"`+keyStart, `},"${1}`),
	},
	{
		ID:          "d",
		Name:        "array-then-key",
		Description: `]"key -> ],"key`,
		Apply:       substitute(`\]`+ws+`*"`+keyStart, `],"${1}`),
	},
	{
		ID:          "e",
		Name:        "string-then-key",
		Description: `"value""key -> "value","key`,
		Apply:       substitute(`"`+ws+`*"`+keyStart, `","${1}`),
	},
	{
		// No key condition here, unlike its siblings. It can split a string
		// value that contains an escaped quote followed by whitespace.
		ID:          "f",
		Name:        "spaced-strings",
		Description: `"a"  "b" -> "a","b"`,
		Apply:       substitute(`"`+ws+`+"`, `","`),
	},
	{
		ID:          "g",
		Name:        "number-then-key",
		Description: `85"key -> 85,"key`,
		Apply:       substitute(`(`+digit+`)`+ws+`*"`+keyStart, `${1},"${2}`),
	},
	{
		ID:          "h",
		Name:        "number-then-object",
		Description: `85{ -> 85,{`,
		Apply:       substitute(`(`+digit+`)`+ws+`*\{`, `${1},{`),
	},
	{
		ID:          "i",
		Name:        "literal-then-key",
		Description: `true"key -> true,"key`,
		Apply:       substitute(`(true|false|null)`+ws+`*"`+keyStart, `${1},"${2}`),
	},
	{
		ID:          "j",
		Name:        "literal-then-object",
		Description: `null{ -> null,{`,
		Apply:       substitute(`(true|false|null)`+ws+`*\{`, `${1},{`),
	},
	{
		ID:          "k",
		Name:        "trailing-comma",
		Description: `,] -> ] and ,} -> }`,
		Apply: chain(
			substitute(`,`+ws+`*\]`, `]`),
			substitute(`,`+ws+`*\}`, `}`),
		),
	},
	{
		ID:          "l",
		Name:        "comma-runs",
		Description: `,, -> ,`,
		Apply:       substitute(`,`+ws+`*,+`, `,`),
	},
	{
		ID:          "m",
		Name:        "leading-comma",
		Description: `{, -> { and [, -> [`,
		Apply: chain(
			substitute(`\{`+ws+`*,`, `{`),
			substitute(`\[`+ws+`*,`, `[`),
		),
	},
}

// Rules returns the repair chain in application order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Repair runs every rule over text, in order. Each rule is applied whether or
// not its pattern occurs.
func Repair(text string) string {
	repaired, _ := repair(text)
	return repaired
}

// isSpace matches the characters ws does.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// repair returns the rewritten text and the IDs of the rules that changed it.
func repair(text string) (string, []string) {
	s := strings.TrimLeft(strings.TrimFunc(text, isSpace), "\ufeff")
	var fired []string
	for _, r := range rules {
		next := r.Apply(s)
		if next != s {
			fired = append(fired, r.ID)
		}
		s = next
	}
	return s, fired
}
