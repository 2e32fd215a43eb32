package parser

import (
	"sort"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Format prints an invocation in canonical form. Parsing the result yields
// an equal invocation.
func Format(inv *Invocation) string {
	var parts []string
	for _, v := range inv.Positionals {
		parts = append(parts, FormatValue(v))
	}

	names := make([]string, 0, len(inv.Keywords))
	for name := range inv.Keywords {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+FormatValue(inv.Keywords[name]))
	}

	if inv.Interactive {
		parts = append(parts, "--")
	}
	if inv.Redirect != "" {
		parts = append(parts, "> "+inv.Redirect)
	}
	return strings.Join(parts, " ")
}

// FormatValue prints a single argument value. Strings that read back as
// themselves are left bare; everything else is a JSON literal.
func FormatValue(v any) string {
	if s, ok := v.(string); ok && IsBare(s) {
		return s
	}
	return schema.FormatLiteral(v)
}

// IsBare reports whether s can be written without quotes and parse back as
// the same string.
func IsBare(s string) bool {
	if bareRe.FindString(s) != s || s == "" {
		return false
	}
	sc := newScanner(s, Options{})
	v, end, ok := sc.baseValue(0)
	if !ok || end != len(s) {
		return false
	}
	str, isString := v.(string)
	return isString && str == s
}
