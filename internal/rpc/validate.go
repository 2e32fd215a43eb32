package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

const argumentsURL = "schema://arguments.json"

// Validate checks args against the declared arguments of m: required
// attributes, enumerated values, types and unexpected fields. It returns nil
// when the arguments are acceptable. Arguments are matched to their names
// and checked as one JSON object; errors carry the dot path of the offending
// value.
func Validate(m *schema.Method, args []any) *ValidationErrors {
	instance := make(map[string]any, len(args))
	for i, node := range m.Accepts {
		if i < len(args) {
			instance[node.Info().Name] = args[i]
		}
	}

	compiled, err := CompileArguments(m.Accepts)
	if err != nil {
		return &ValidationErrors{Errors: []ValidationError{{Message: err.Error()}}}
	}
	doc, err := jsonValue(instance)
	if err != nil {
		return &ValidationErrors{Errors: []ValidationError{{Message: fmt.Sprintf("arguments are not JSON values: %v", err)}}}
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationErrors{Errors: []ValidationError{{Message: err.Error()}}}
	}
	errs := convertValidationError(m.Accepts, instance, ve)
	if len(errs) == 0 {
		return &ValidationErrors{Errors: []ValidationError{{Message: ve.Message}}}
	}
	return &ValidationErrors{Errors: errs}
}

// CompileArguments compiles the JSON Schema of an argument object whose
// keys are the names of accepts.
func CompileArguments(accepts []schema.SchemaNode) (*jsonschema.Schema, error) {
	data, err := json.Marshal(ArgumentsSchema(accepts))
	if err != nil {
		return nil, fmt.Errorf("failed to encode argument schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(argumentsURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to load argument schema: %w", err)
	}
	compiled, err := compiler.Compile(argumentsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile argument schema: %w", err)
	}
	return compiled, nil
}

// ArgumentsSchema returns the JSON Schema document for accepts.
func ArgumentsSchema(accepts []schema.SchemaNode) map[string]any {
	props := make(map[string]any, len(accepts))
	required := []string{}
	for _, node := range accepts {
		props[node.Info().Name] = nodeSchema(node)
		if node.Info().Required {
			required = append(required, node.Info().Name)
		}
	}
	doc := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func nodeSchema(node schema.SchemaNode) map[string]any {
	s := make(map[string]any)
	if types := jsonTypes(node); len(types) > 0 {
		s["type"] = types
	}
	switch n := node.(type) {
	case *schema.ScalarNode:
		if len(n.Enum) > 0 {
			enum := append([]any(nil), n.Enum...)
			if n.Nullable() {
				enum = append(enum, nil)
			}
			s["enum"] = enum
		}
	case *schema.ObjectNode:
		props := make(map[string]any, len(n.Properties))
		var required []string
		for _, prop := range n.Properties {
			props[prop.Info().Name] = nodeSchema(prop)
			if prop.Info().Required {
				required = append(required, prop.Info().Name)
			}
		}
		s["properties"] = props
		if len(required) > 0 {
			s["required"] = required
		}
		if !n.AdditionalProperties && len(n.Properties) > 0 {
			s["additionalProperties"] = false
		}
	case *schema.ArrayNode:
		if item, ok := n.Item(); ok {
			s["items"] = nodeSchema(item)
		}
	}
	return s
}

var jsonTypeNames = map[string]bool{
	"null": true, "boolean": true, "object": true, "array": true,
	"number": true, "string": true, "integer": true,
}

// jsonTypes returns the declared JSON types of node, falling back to the
// shape of the node when none are declared.
func jsonTypes(node schema.SchemaNode) []string {
	var types []string
	for _, t := range node.Info().Types {
		if jsonTypeNames[t] {
			types = append(types, t)
		}
	}
	if len(types) > 0 {
		return types
	}
	switch n := node.(type) {
	case *schema.ObjectNode:
		return []string{"object"}
	case *schema.ArrayNode:
		return []string{"array"}
	case *schema.ScalarNode:
		if n.Kind != schema.KindAny {
			return []string{string(n.Kind)}
		}
	}
	return nil
}

// jsonValue converts v into the plain JSON model the validator expects.
func jsonValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

type locatedError struct {
	ValidationError
	keyword string
	order   []int
}

// convertValidationError flattens ve into one error per offending value.
// A type error hides the other errors for the same value.
func convertValidationError(accepts []schema.SchemaNode, instance map[string]any, ve *jsonschema.ValidationError) []ValidationError {
	var found []locatedError
	for _, leaf := range leafErrors(ve, nil) {
		tokens := pointerTokens(leaf.InstanceLocation)
		node, value := locate(accepts, instance, tokens)
		keyword := leaf.KeywordLocation[strings.LastIndex(leaf.KeywordLocation, "/")+1:]

		add := func(path schema.Path, msg string) {
			found = append(found, locatedError{
				ValidationError: ValidationError{Path: path.String(), Message: msg},
				keyword:         keyword,
				order:           orderOf(accepts, path),
			})
		}
		switch keyword {
		case "required":
			for _, name := range missingRequired(accepts, node, value) {
				add(schema.Path(tokens).Child(name), MsgAttributeRequired)
			}
		case "additionalProperties":
			for _, name := range unexpectedFields(node, value) {
				add(schema.Path(tokens).Child(name), "Field was not expected")
			}
		case "type":
			add(schema.Path(tokens), typeMessage(node, value))
		case "enum":
			if value == nil {
				add(schema.Path(tokens), "null not allowed")
			} else {
				add(schema.Path(tokens), fmt.Sprintf("Invalid choice: %s", literal(value)))
			}
		default:
			add(schema.Path(tokens), leaf.Message)
		}
	}

	typed := make(map[string]bool)
	for _, e := range found {
		if e.keyword == "type" {
			typed[e.Path] = true
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		if c := compareOrder(found[i].order, found[j].order); c != 0 {
			return c < 0
		}
		return found[i].Path < found[j].Path
	})

	var errs []ValidationError
	seen := make(map[ValidationError]bool)
	for _, e := range found {
		if typed[e.Path] && e.keyword != "type" {
			continue
		}
		if seen[e.ValidationError] {
			continue
		}
		seen[e.ValidationError] = true
		errs = append(errs, e.ValidationError)
	}
	return errs
}

func leafErrors(ve *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, cause := range ve.Causes {
		out = leafErrors(cause, out)
	}
	return out
}

// pointerTokens splits a JSON pointer such as /user_create/groups/1.
func pointerTokens(pointer string) []string {
	if pointer == "" || pointer == "/" {
		return nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, tok := range tokens {
		tokens[i] = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
	}
	return tokens
}

// locate returns the schema node and the value at tokens. The argument
// object itself has no node.
func locate(accepts []schema.SchemaNode, instance map[string]any, tokens []string) (schema.SchemaNode, any) {
	var node schema.SchemaNode
	var value any = instance
	for i, tok := range tokens {
		if i == 0 {
			node = argument(accepts, tok)
		} else {
			node = childNode(node, tok)
		}
		value = childValue(value, tok)
	}
	return node, value
}

func argument(accepts []schema.SchemaNode, name string) schema.SchemaNode {
	for _, node := range accepts {
		if node.Info().Name == name {
			return node
		}
	}
	return nil
}

func childNode(node schema.SchemaNode, tok string) schema.SchemaNode {
	switch n := node.(type) {
	case *schema.ObjectNode:
		if child, ok := n.Property(tok); ok {
			return child
		}
	case *schema.ArrayNode:
		if item, ok := n.Item(); ok {
			return item
		}
	}
	return nil
}

func childValue(v any, tok string) any {
	switch x := v.(type) {
	case map[string]any:
		return x[tok]
	case []any:
		if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(x) {
			return x[i]
		}
	}
	return nil
}

func missingRequired(accepts []schema.SchemaNode, node schema.SchemaNode, value any) []string {
	present, _ := value.(map[string]any)
	props := accepts
	if obj, ok := node.(*schema.ObjectNode); ok {
		props = obj.Properties
	} else if node != nil {
		return nil
	}
	var missing []string
	for _, prop := range props {
		if _, ok := present[prop.Info().Name]; !ok && prop.Info().Required {
			missing = append(missing, prop.Info().Name)
		}
	}
	return missing
}

func unexpectedFields(node schema.SchemaNode, value any) []string {
	obj, ok := node.(*schema.ObjectNode)
	m, isMap := value.(map[string]any)
	if !ok || !isMap {
		return nil
	}
	var extra []string
	for k := range m {
		if _, declared := obj.Property(k); !declared {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func typeMessage(node schema.SchemaNode, value any) string {
	if value == nil {
		return "null not allowed"
	}
	if node != nil {
		for _, t := range jsonTypes(node) {
			switch t {
			case "object":
				return "Not an object"
			case "array":
				return "Not a list"
			case "integer":
				return "Not an integer"
			case "number":
				return "Not a number"
			case "boolean":
				return "Not a boolean"
			case "string":
				return "Not a string"
			}
		}
	}
	return "Invalid type"
}

// orderOf ranks path by declaration order, so errors are listed the way
// the arguments are.
func orderOf(accepts []schema.SchemaNode, path schema.Path) []int {
	order := make([]int, 0, len(path))
	var node schema.SchemaNode
	for i, tok := range path {
		var siblings []schema.SchemaNode
		switch n := node.(type) {
		case *schema.ObjectNode:
			siblings = n.Properties
		case *schema.ArrayNode:
			idx, _ := strconv.Atoi(tok)
			order = append(order, idx)
			node = childNode(node, tok)
			continue
		}
		if i == 0 {
			siblings = accepts
		}
		pos := len(siblings)
		for j, s := range siblings {
			if s.Info().Name == tok {
				pos = j
				break
			}
		}
		order = append(order, pos)
		if i == 0 {
			node = argument(accepts, tok)
		} else {
			node = childNode(node, tok)
		}
	}
	return order
}

func compareOrder(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return schema.FormatLiteral(v)
}
