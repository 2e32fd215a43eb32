package editor

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/rpcsh/internal/rpc"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

const (
	lineWidth   = 80
	indentWidth = 2
)

type parentKind int

const (
	parentObject parentKind = iota
	parentArray
)

type renderContext struct {
	depth       int
	renderTitle bool
	parent      parentKind
}

func (c renderContext) child() renderContext {
	c.depth++
	return c
}

// Render produces the annotated YAML template for accepts. values holds
// the current argument values; arguments beyond it are unset. Each error is
// shown next to the node whose path equals its Path; errors matching no
// node are listed at the top.
func Render(accepts []schema.SchemaNode, values []any, errs []rpc.ValidationError) string {
	var body strings.Builder
	for i, node := range accepts {
		value := schema.Unset()
		if i < len(values) {
			value = schema.Of(values[i])
		}
		var s string
		s, errs = renderNode(node, value, schema.Path{node.Info().Name}, renderContext{renderTitle: true}, errs)
		body.WriteString(s)
	}

	if len(errs) == 0 {
		return body.String()
	}

	var out strings.Builder
	for _, e := range errs {
		out.WriteString(commentLines("# ", "ERROR: "+e.Message))
	}
	out.WriteString("\n")
	out.WriteString(body.String())
	return out.String()
}

func renderNode(node schema.SchemaNode, value schema.Value, path schema.Path, ctx renderContext, errs []rpc.ValidationError) (string, []rpc.ValidationError) {
	switch n := node.(type) {
	case *schema.ObjectNode:
		return renderObject(n, value, path, ctx, errs)
	case *schema.ArrayNode:
		return renderArray(n, value, path, ctx, errs)
	}
	return renderScalar(node, value, path, ctx, errs)
}

func renderObject(node *schema.ObjectNode, value schema.Value, path schema.Path, ctx renderContext, errs []rpc.ValidationError) (string, []rpc.ValidationError) {
	children := make([]string, 0, len(node.Properties))
	for _, prop := range node.Properties {
		name := prop.Info().Name
		childCtx := ctx.child()
		childCtx.parent = parentObject
		childCtx.renderTitle = true

		var s string
		s, errs = renderNode(prop, value.Field(name), path.Child(name), childCtx, errs)
		children = append(children, s)
	}

	own, errs := takeErrors(errs, path)
	indent := spaces(ctx.depth)

	m, isMap := value.Map()
	emptyMap := isMap && len(m) == 0 && len(node.Properties) == 0

	var sb strings.Builder
	sb.WriteString(comment(ctx.depth, node.Info(), own, true))

	switch {
	case ctx.parent == parentObject:
		sb.WriteString(indent + nonscalarPrefix(value, ctx) + node.Name + ":")
		if emptyMap {
			sb.WriteString(" {}")
		}
		sb.WriteString("\n")
		for _, c := range children {
			sb.WriteString(c + "\n")
		}

	case len(children) == 0:
		item := any(map[string]any{})
		if v, ok := value.Get(); ok {
			item = v
		}
		sb.WriteString(indentLines(dumpItem(item), indent))
		for _, c := range children {
			sb.WriteString(c + "\n")
		}
		return sb.String(), errs

	default:
		// The first line of the first child carries the list marker.
		first := strings.SplitN(children[0], "\n", 2)
		width := ctx.depth * indentWidth
		first[0] = first[0][:width] + "- " + first[0][width+indentWidth:]
		children[0] = strings.Join(first, "\n")
		for _, c := range children {
			sb.WriteString(c + "\n")
		}
	}

	if node.AdditionalProperties && isMap {
		extra := make(map[string]any)
		for k, v := range m {
			if _, declared := node.Property(k); !declared {
				extra[k] = v
			}
		}
		if len(extra) > 0 {
			sb.WriteString(indentLines(dump(extra), spaces(ctx.depth+1)))
		}
	}
	return sb.String(), errs
}

func renderArray(node *schema.ArrayNode, value schema.Value, path schema.Path, ctx renderContext, errs []rpc.ValidationError) (string, []rpc.ValidationError) {
	own, errs := takeErrors(errs, path)
	list, isList := value.List()

	var sb strings.Builder
	sb.WriteString(comment(ctx.depth, node.Info(), own, true))

	label := node.Name + ":"
	if ctx.parent == parentArray {
		label = "-"
	}
	sb.WriteString(spaces(ctx.depth) + nonscalarPrefix(value, ctx) + label)
	// Example items are only shown for an empty list, and they have to
	// stay uncommentable.
	if isList && len(list) == 0 && len(node.Items) == 0 {
		sb.WriteString(" []")
	}
	sb.WriteString("\n")

	if len(list) > 0 {
		item, ok := node.Item()
		if !ok {
			item = &schema.ScalarNode{}
		}
		for i, el := range list {
			childCtx := ctx.child()
			childCtx.parent = parentArray
			childCtx.renderTitle = i == 0

			var s string
			s, errs = renderNode(item, schema.Of(el), path.Index(i), childCtx, errs)
			sb.WriteString(s)
		}
		return sb.String(), errs
	}

	// Example items are rendered two levels deeper and commented out at
	// the element indentation.
	width := (ctx.depth + 1) * indentWidth
	for _, example := range node.Items {
		exampleCtx := ctx.child().child()
		exampleCtx.parent = parentArray

		s, _ := renderNode(example, schema.Unset(), nil, exampleCtx, nil)
		lines := strings.Split(s, "\n")
		for i, line := range lines {
			if len(line) < width+indentWidth {
				continue
			}
			content := line[width+indentWidth:]
			insertion := "# "
			if strings.HasPrefix(content, "# ") {
				insertion = ""
			}
			lines[i] = line[:width] + insertion + content
		}
		sb.WriteString(strings.Join(lines, "\n"))
	}
	return sb.String(), errs
}

func renderScalar(node schema.SchemaNode, value schema.Value, path schema.Path, ctx renderContext, errs []rpc.ValidationError) (string, []rpc.ValidationError) {
	own, errs := takeErrors(errs, path)
	meta := node.Info()

	v, set := value.Get()
	commented := false
	if !set {
		commented = !meta.Required
		if meta.HasDefault {
			v = meta.Default
		}
	}

	var text string
	if ctx.parent == parentObject {
		text = dumpEntry(meta.Name, v)
	} else {
		text = dumpItem(v)
	}

	prefix := spaces(ctx.depth)
	if commented {
		prefix += "# "
	}
	return comment(ctx.depth, meta, own, ctx.renderTitle) + indentLines(text, prefix), errs
}

// takeErrors splits errs into those attached exactly to path and the rest.
func takeErrors(errs []rpc.ValidationError, path schema.Path) (own []string, rest []rpc.ValidationError) {
	key := path.String()
	for _, e := range errs {
		if path != nil && e.Path == key {
			own = append(own, e.Message)
		} else {
			rest = append(rest, e)
		}
	}
	return own, rest
}

// comment renders the title and error lines of a node as YAML comments.
func comment(depth int, meta *schema.Meta, errs []string, renderTitle bool) string {
	prefix := spaces(depth) + "# "

	var sb strings.Builder
	if renderTitle {
		title := meta.TypeTitle()
		if desc := strings.TrimRight(meta.Description, " \t\r\n"); desc != "" {
			title += ": " + desc
		}
		sb.WriteString(commentLines(prefix, title))
	}
	for _, e := range errs {
		sb.WriteString(commentLines(prefix, "ERROR: "+e))
	}
	return sb.String()
}

func commentLines(prefix, text string) string {
	var sb strings.Builder
	wrapped := wordwrap.String(text, lineWidth-len(prefix))
	for _, line := range strings.Split(wrapped, "\n") {
		sb.WriteString(strings.TrimRight(prefix+line, " ") + "\n")
	}
	return sb.String()
}

func nonscalarPrefix(value schema.Value, ctx renderContext) string {
	if value.IsUnset() && ctx.depth > 0 {
		return "# "
	}
	return ""
}

// indentLines prefixes every non-blank line of text.
func indentLines(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
	}
	return sb.String()
}

func spaces(depth int) string {
	return strings.Repeat(" ", depth*indentWidth)
}

// dumpEntry renders `name: value` with null left empty.
func dumpEntry(name string, v any) string {
	if v == nil {
		return name + ":\n"
	}
	return dump(map[string]any{name: v})
}

// dumpItem renders `- value` with null left empty.
func dumpItem(v any) string {
	if v == nil {
		return "-\n"
	}
	return dump([]any{v})
}

func dump(v any) string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indentWidth)
	if err := enc.Encode(valueNode(v)); err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	if err := enc.Close(); err != nil {
		return fmt.Sprintf("%v\n", v)
	}
	return buf.String()
}

// valueNode builds the YAML tree for v. Floats are tagged explicitly so
// that whole numbers read back as floats.
func valueNode(v any) *yaml.Node {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			n.Content = append(n.Content, encodedNode(k), valueNode(x[k]))
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range x {
			n.Content = append(n.Content, valueNode(item))
		}
		return n
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(x)}
	}
	return encodedNode(v)
}

func encodedNode(v any) *yaml.Node {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
	}
	return &n
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
