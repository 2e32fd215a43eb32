package shell

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/schema"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

// commandManual returns the markdown manual page of a command.
func commandManual(c *commands.Command) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.FullName())
	if d := strings.TrimSpace(c.Method.Description); d != "" {
		sb.WriteString(d)
		sb.WriteString("\n\n")
	}

	switch c.Variant {
	case commands.Query:
		sb.WriteString("## Usage\n\n")
		fmt.Fprintf(&sb, "`%s [column[, column]... | *] [WHERE expression]`\n\n", c.Name)
		if len(c.Method.FilterFields) > 0 {
			sb.WriteString("## Fields\n\n")
			for _, f := range c.Method.FilterFields {
				fmt.Fprintf(&sb, "- `%s`\n", f)
			}
			sb.WriteString("\n")
		}
		return sb.String()
	}

	if len(c.Method.Accepts) > 0 {
		sb.WriteString("## Arguments\n\n")
		for i, node := range c.Method.Accepts {
			writeArgument(&sb, node, 0, i == c.Splice)
		}
		sb.WriteString("\n")
	}
	if c.Method.Job {
		sb.WriteString("Runs as a job; progress is shown while it runs.\n")
	}
	return sb.String()
}

func writeArgument(sb *strings.Builder, node schema.SchemaNode, depth int, spliced bool) {
	meta := node.Info()
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s- `%s` (%s", indent, meta.Name, meta.TypeTitle())
	if meta.Required {
		sb.WriteString(", required")
	}
	sb.WriteString(")")
	if meta.HasDefault {
		fmt.Fprintf(sb, ", default `%s`", schema.FormatLiteral(meta.Default))
	}
	if d := ui.Summary(meta.Description); d != "" && d != meta.Name {
		fmt.Fprintf(sb, ": %s", d)
	}
	if spliced {
		sb.WriteString(" (given as name=value keywords)")
	}
	sb.WriteString("\n")

	if obj, ok := node.(*schema.ObjectNode); ok {
		for _, p := range obj.Properties {
			writeArgument(sb, p, depth+1, false)
		}
	}
}

// namespaceManual describes a namespace and lists its children.
func namespaceManual(n *commands.Namespace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", strings.Join(n.Path(), " "))
	if n.Description != "" {
		sb.WriteString(n.Description)
		sb.WriteString("\n\n")
	}
	for _, name := range n.Names() {
		child, _ := n.Lookup(name)
		if s := ui.Summary(child.Summary()); s != "" {
			fmt.Fprintf(&sb, "- `%s`: %s\n", name, s)
		} else {
			fmt.Fprintf(&sb, "- `%s`\n", name)
		}
	}
	return sb.String()
}
