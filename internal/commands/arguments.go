package commands

import (
	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/query"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Arguments lists what can be typed after the command name, in order.
// The properties of the spliced object stand in for the object itself.
// enum resolves late-bound enumerations and may be nil.
func (c *Command) Arguments(enum func(*schema.ScalarNode) []any) []parser.Argument {
	var args []parser.Argument
	for i, node := range c.Method.Accepts {
		if i == c.Splice {
			if obj, ok := node.(*schema.ObjectNode); ok {
				for _, p := range obj.Properties {
					args = append(args, parser.NewArgument(p, enum))
				}
				continue
			}
		}
		args = append(args, parser.NewArgument(node, enum))
	}
	return args
}

// Complete proposes completions for the argument text typed so far. Query
// commands complete column names instead of arguments.
func (c *Command) Complete(text string, enum func(*schema.ScalarNode) []any) []parser.Candidate {
	if c.Variant == Query {
		return query.Complete(c.Method.FilterFields, text)
	}
	return parser.Candidates(c.Arguments(enum), parser.Classify(text))
}
