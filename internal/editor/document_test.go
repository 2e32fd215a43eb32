package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

func named(names ...string) []schema.SchemaNode {
	nodes := make([]schema.SchemaNode, len(names))
	for i, name := range names {
		nodes[i] = &schema.ScalarNode{Meta: schema.Meta{Name: name}}
	}
	return nodes
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		accepts []schema.SchemaNode
		text    string
		want    []any
	}{
		{
			name:    "all arguments",
			accepts: named("user_create", "force"),
			text:    "user_create:\n  uid: 1\nforce: true\n",
			want:    []any{map[string]any{"uid": 1}, true},
		},
		{
			name:    "commented trailing argument",
			accepts: named("user_create", "force"),
			text:    "user_create:\n  uid: 1\n# force: false\n",
			want:    []any{map[string]any{"uid": 1}},
		},
		{
			name:    "extra keys ignored",
			accepts: named("id"),
			text:    "id: 5\nother: 6\n",
			want:    []any{5},
		},
		{
			name:    "empty document",
			accepts: named("id"),
			text:    "",
			want:    []any{},
		},
		{
			name:    "null document",
			accepts: named("id"),
			text:    "~\n",
			want:    []any{},
		},
		{
			name: "null object",
			accepts: []schema.SchemaNode{
				&schema.ObjectNode{Meta: schema.Meta{Name: "options", Types: []string{"object"}}},
			},
			text: "options:\n",
			want: []any{map[string]any{}},
		},
		{
			name:    "null scalar",
			accepts: named("comment"),
			text:    "comment:\n",
			want:    []any{nil},
		},
		{
			name:    "nested values",
			accepts: named("data"),
			text:    "data:\n  ratio: 0.5\n  tags: [a, b]\n",
			want:    []any{map[string]any{"ratio": 0.5, "tags": []any{"a", "b"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.accepts, tt.text)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("positional mismatch", func(t *testing.T) {
		text := "user_create:\n  uid: 1\n# force: false\nhorse: 123\n"
		_, err := Parse(named("user_create", "force", "horse"), text)

		var mismatch *PositionalMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("error = %v, want *PositionalMismatchError", err)
		}
		if got, want := err.Error(), "Element #2 should be 'force', 'horse' given"; got != want {
			t.Errorf("message = %q, want %q", got, want)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Parse(named("id"), "- 1\n- 2\n")

		var syntaxErr *DocumentSyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("error = %v, want *DocumentSyntaxError", err)
		}
		if syntaxErr.Title() != "Semantic Error" || syntaxErr.Text() != "Document is not an object" {
			t.Errorf("got %q / %q", syntaxErr.Title(), syntaxErr.Text())
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Parse(named("id"), "id: [1, 2\n")

		var syntaxErr *DocumentSyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("error = %v, want *DocumentSyntaxError", err)
		}
		if syntaxErr.Cause == nil {
			t.Fatal("Cause = nil, want the YAML error")
		}
		if syntaxErr.Title() != "YAML Syntax Error" {
			t.Errorf("Title = %q", syntaxErr.Title())
		}
	})
}

func userUpdateAccepts() []schema.SchemaNode {
	return []schema.SchemaNode{
		&schema.ScalarNode{
			Meta: schema.Meta{Name: "id", Types: []string{"integer"}, Required: true},
			Kind: schema.KindInteger,
		},
		&schema.ObjectNode{
			Meta: schema.Meta{Name: "user_update", Description: "user_update", Types: []string{"object"}},
			Properties: []schema.SchemaNode{
				&schema.ScalarNode{
					Meta: schema.Meta{Name: "full_name", Description: "Full name", Types: []string{"string"}, Default: "Old", HasDefault: true},
					Kind: schema.KindString,
				},
				&schema.ScalarNode{
					Meta: schema.Meta{Name: "uid", Description: "Unix user ID", Types: []string{"integer"}},
					Kind: schema.KindInteger,
				},
			},
		},
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		accepts []schema.SchemaNode
		values  []any
	}{
		{
			name:    "full object",
			accepts: userCreateAccepts(),
			values: []any{
				map[string]any{
					"uid":        1000,
					"username":   "themylogin",
					"groups":     []any{1, 2, 3},
					"attributes": map[string]any{"extra_attribute": map[string]any{"child": 0.5}},
				},
				true,
			},
		},
		{
			name:    "concrete empty list",
			accepts: userCreateAccepts(),
			values:  []any{map[string]any{"username": "root", "groups": []any{}}},
		},
		{
			name:    "empty update payload",
			accepts: userUpdateAccepts(),
			values:  []any{5, map[string]any{}},
		},
		{
			name:    "whole number floats",
			accepts: named("data"),
			values:  []any{map[string]any{"ratio": 2.0, "limits": []any{1.0, 1.5, 1e21}, "name": "x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.accepts, Render(tt.accepts, tt.values, nil))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if diff := cmp.Diff(tt.values, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEditedTemplate(t *testing.T) {
	tests := []struct {
		name    string
		accepts []schema.SchemaNode
		values  []any
		from    string
		to      string
		want    []any
	}{
		{
			name:    "uncommented update field",
			accepts: userUpdateAccepts(),
			values:  []any{5, map[string]any{}},
			from:    "# full_name: Old\n",
			to:      "full_name: New\n",
			want:    []any{5, map[string]any{"full_name": "New"}},
		},
		{
			name:    "uncommented list example",
			accepts: userCreateAccepts(),
			values:  []any{map[string]any{"username": "root", "groups": []any{}}},
			from:    "# -\n",
			to:      "- 5\n",
			want:    []any{map[string]any{"username": "root", "groups": []any{5}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Render(tt.accepts, tt.values, nil)
			if strings.Count(text, tt.from) != 1 {
				t.Fatalf("template has %d copies of %q:\n%s", strings.Count(text, tt.from), tt.from, text)
			}
			got, err := Parse(tt.accepts, strings.Replace(text, tt.from, tt.to, 1))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFillsEmptyContainers(t *testing.T) {
	accepts := []schema.SchemaNode{
		&schema.ObjectNode{
			Meta: schema.Meta{Name: "data", Types: []string{"object"}},
			Properties: []schema.SchemaNode{
				&schema.ObjectNode{Meta: schema.Meta{Name: "options", Types: []string{"object"}}},
				&schema.ArrayNode{Meta: schema.Meta{Name: "tags", Types: []string{"array"}}},
				&schema.ArrayNode{Meta: schema.Meta{Name: "limits", Types: []string{"array", "null"}}},
				&schema.ScalarNode{Meta: schema.Meta{Name: "comment", Types: []string{"string", "null"}}, Kind: schema.KindString},
			},
		},
	}
	got, err := Parse(accepts, "data:\n  options:\n  tags:\n  limits:\n  comment:\n")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []any{map[string]any{"options": map[string]any{}, "tags": []any{}, "limits": nil, "comment": nil}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}
