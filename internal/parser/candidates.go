package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

var simpleStringRe = regexp.MustCompile(`^(?i)[a-z\\./_@][a-z0-9\\./_@]*$`)

// Argument is what completion needs to know about one argument.
type Argument struct {
	Name     string
	Nullable bool
	Default  schema.Value // Unset when there is no default
	Values   func() []any // Enumerated values; nil when not enumerable
}

// NewArgument derives a completion Argument from a schema node. enum
// resolves the allowed values of a scalar and may be nil.
func NewArgument(node schema.SchemaNode, enum func(*schema.ScalarNode) []any) Argument {
	meta := node.Info()
	arg := Argument{Name: meta.Name, Nullable: meta.Nullable()}
	if meta.HasDefault {
		arg.Default = schema.Of(meta.Default)
	}

	if scalar, ok := node.(*schema.ScalarNode); ok {
		switch {
		case scalar.Kind == schema.KindBoolean:
			arg.Values = func() []any { return []any{true, false} }
		case len(scalar.Enum) > 0:
			arg.Values = func() []any { return scalar.Enum }
		case scalar.EnumSource != "" && enum != nil:
			arg.Values = func() []any { return enum(scalar) }
		}
	}
	return arg
}

// Candidate is one completion proposal.
type Candidate struct {
	Text    string // Replacement text
	Replace int    // Number of characters left of the cursor it replaces
	Display string // Label shown in menus; Text when empty
}

// Candidates proposes completions for c among args.
func Candidates(args []Argument, c Completion) []Candidate {
	var out []Candidate
	switch c := c.(type) {
	case *CompletingName:
		if c.Positionals > len(args) {
			return nil
		}
		for _, arg := range args[c.Positionals:] {
			if !strings.HasPrefix(arg.Name, c.Prefix) || contains(c.Keywords, arg.Name) {
				continue
			}
			out = append(out, Candidate{Text: arg.Name + "=", Replace: len(c.Prefix), Display: arg.Name})
		}
	case *CompletingValue:
		for _, arg := range args {
			if arg.Name == c.Name {
				out = append(out, arg.ValueCandidates(c.Prefix)...)
			}
		}
	}
	return out
}

// ValueCandidates proposes values for this argument that start with text:
// its enumerated values, then its default, then null when nullable.
func (a Argument) ValueCandidates(text string) []Candidate {
	var values []any
	if a.Values != nil {
		values = append(values, a.Values()...)
	}
	if def, ok := a.Default.Get(); ok && !containsValue(values, def) {
		values = append(values, def)
	}
	if a.Nullable && !a.Default.IsNull() {
		values = append(values, nil)
	}

	var out []Candidate
	for _, v := range values {
		s := adaptCandidate(v, text)
		if strings.HasPrefix(s, text) {
			out = append(out, Candidate{Text: s, Replace: len(text)})
		}
	}
	return out
}

func adaptCandidate(v any, text string) string {
	if s, ok := v.(string); ok && simpleStringRe.MatchString(s) && !strings.HasPrefix(text, `"`) {
		return s
	}
	return schema.FormatLiteral(v)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if schema.Equal(item, v) {
			return true
		}
	}
	return false
}
