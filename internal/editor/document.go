package editor

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

// PositionalMismatchError is returned when a top-level key of the edited
// document does not name the argument at its position.
type PositionalMismatchError struct {
	Index    int // 1-based
	Expected string
	Given    string
}

func (e *PositionalMismatchError) Error() string {
	return fmt.Sprintf("Element #%d should be '%s', '%s' given", e.Index, e.Expected, e.Given)
}

// DocumentSyntaxError is returned when the edited text cannot be read as an
// argument document. Cause is set when the YAML itself is malformed.
type DocumentSyntaxError struct {
	Msg   string
	Cause error
}

func (e *DocumentSyntaxError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Msg
}

func (e *DocumentSyntaxError) Unwrap() error { return e.Cause }

// Title is the heading shown when the error is reported to the user.
func (e *DocumentSyntaxError) Title() string {
	if e.Cause != nil {
		return "YAML Syntax Error"
	}
	return "Semantic Error"
}

// Text is the body shown when the error is reported to the user.
func (e *DocumentSyntaxError) Text() string {
	if e.Cause != nil {
		return "The input you provided has invalid YAML syntax:\n\n" + e.Cause.Error()
	}
	return e.Msg
}

// Parse reads an edited document back into positional arguments. Top-level
// keys are matched against accepts in document order; keys past the last
// declared argument are ignored and a document with fewer keys yields a
// shorter list. An empty document yields no arguments.
func Parse(accepts []schema.SchemaNode, text string) ([]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &DocumentSyntaxError{Cause: err}
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return []any{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 || isNull(root) {
		return []any{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &DocumentSyntaxError{Msg: "Document is not an object"}
	}

	args := []any{}
	for i := 0; i+1 < len(root.Content) && i/2 < len(accepts); i += 2 {
		key, valueNode := root.Content[i], root.Content[i+1]
		node := accepts[i/2]
		if name := node.Info().Name; key.Value != name {
			return nil, &PositionalMismatchError{Index: i/2 + 1, Expected: name, Given: key.Value}
		}

		var v any
		if err := valueNode.Decode(&v); err != nil {
			return nil, &DocumentSyntaxError{Cause: err}
		}
		args = append(args, fillEmpty(node, schema.Normalize(v)))
	}
	return args, nil
}

// fillEmpty replaces null objects with {} and null lists with [] throughout
// v, following node. A key left with no value under an object is how the
// template shows an empty object or list. Lists that accept null keep it.
func fillEmpty(node schema.SchemaNode, v any) any {
	switch n := node.(type) {
	case *schema.ObjectNode:
		if v == nil {
			return map[string]any{}
		}
		m, ok := v.(map[string]any)
		if !ok {
			return v
		}
		for _, prop := range n.Properties {
			name := prop.Info().Name
			if pv, present := m[name]; present {
				m[name] = fillEmpty(prop, pv)
			}
		}
		return m
	case *schema.ArrayNode:
		if v == nil {
			if n.HasType("null") {
				return nil
			}
			return []any{}
		}
		list, ok := v.([]any)
		if !ok {
			return v
		}
		item, hasItem := n.Item()
		if !hasItem {
			return list
		}
		for i, el := range list {
			list[i] = fillEmpty(item, el)
		}
		return list
	}
	if v == nil && node.Info().HasType("object") {
		return map[string]any{}
	}
	return v
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
