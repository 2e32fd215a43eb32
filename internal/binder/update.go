package binder

import (
	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

// PromoteKey returns inv with the key keyword moved into the first
// positional, for update calls written as `id=5 name=x`. inv is returned
// unchanged when positionals were given or the key keyword is absent.
func PromoteKey(accepts []schema.SchemaNode, inv *parser.Invocation) *parser.Invocation {
	if len(accepts) == 0 || len(inv.Positionals) > 0 {
		return inv
	}
	key := accepts[0].Info().Name
	v, ok := inv.Keywords[key]
	if !ok {
		return inv
	}

	out := *inv
	out.Positionals = []any{v}
	out.Keywords = make(map[string]any, len(inv.Keywords)-1)
	for k, kv := range inv.Keywords {
		if k != key {
			out.Keywords[k] = kv
		}
	}
	return &out
}

// UpdateNeedsEditor reports whether an update call only names the record,
// so the payload has to come from the editor.
func UpdateNeedsEditor(accepts []schema.SchemaNode, inv *parser.Invocation) bool {
	if len(accepts) > 0 {
		if _, ok := inv.Keywords[accepts[0].Info().Name]; ok {
			return len(inv.Keywords) == 1
		}
	}
	return len(inv.Positionals) == 1 && len(inv.Keywords) == 0
}
