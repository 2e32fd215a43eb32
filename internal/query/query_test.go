package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func canonical(q *Query) []any {
	var out []any
	for _, f := range q.Filters {
		out = append(out, f.Canonical())
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantColumns []string
		wantFilters []any
	}{
		{name: "empty", input: ""},
		{name: "single column", input: "uid", wantColumns: []string{"uid"}},
		{name: "column list", input: "uid,username", wantColumns: []string{"uid", "username"}},
		{name: "spaced column list", input: "uid , username", wantColumns: []string{"uid", "username"}},
		{
			name:        "columns and where",
			input:       "uid,username WHERE uid > 0",
			wantColumns: []string{"uid", "username"},
			wantFilters: []any{[]any{"uid", ">", 0}},
		},
		{
			name:        "and",
			input:       "* WHERE uid > 0 and username != 'ivan'",
			wantFilters: []any{[]any{"AND", []any{[]any{"uid", ">", 0}, []any{"username", "!=", "ivan"}}}},
		},
		{
			name:  "or chain",
			input: "* where a == 1 or b == 2 or c == 3",
			wantFilters: []any{[]any{"OR", []any{
				[]any{"a", "=", 1}, []any{"b", "=", 2}, []any{"c", "=", 3},
			}}},
		},
		{
			name:  "uppercase connective",
			input: "* WHERE a == 1 AND b == 2",
			wantFilters: []any{[]any{"AND", []any{
				[]any{"a", "=", 1}, []any{"b", "=", 2},
			}}},
		},
		{name: "in list", input: "* WHERE uid in [1, 2, 3]", wantFilters: []any{[]any{"uid", "in", []any{1, 2, 3}}}},
		{name: "in tuple", input: "* WHERE uid in (1, 2, 3)", wantFilters: []any{[]any{"uid", "in", []any{1, 2, 3}}}},
		{name: "in set", input: "* WHERE uid in {1, 2, 3}", wantFilters: []any{[]any{"uid", "in", []any{1, 2, 3}}}},
		{name: "not in", input: "* WHERE uid not in [1]", wantFilters: []any{[]any{"uid", "nin", []any{1}}}},
		{name: "match", input: "* WHERE username.match('^i')", wantFilters: []any{[]any{"username", "~", "^i"}}},
		{name: "startswith", input: "* WHERE username.startswith('i')", wantFilters: []any{[]any{"username", "^", "i"}}},
		{
			name:        "not startswith",
			input:       "* WHERE not username.startswith('i')",
			wantFilters: []any{[]any{"NOT", []any{"username", "^", "i"}}},
		},
		{name: "endswith", input: "* WHERE username.endswith('i')", wantFilters: []any{[]any{"username", "$", "i"}}},
		{name: "reversed in", input: "* WHERE 'oo' in username", wantFilters: []any{[]any{"username", "rin", "oo"}}},
		{name: "reversed not in", input: "* WHERE 'oo' not in username", wantFilters: []any{[]any{"username", "rnin", "oo"}}},
		{name: "null", input: "* WHERE smb_account == null", wantFilters: []any{[]any{"smb_account", "=", nil}}},
		{name: "python none", input: "* WHERE smb_account == None", wantFilters: []any{[]any{"smb_account", "=", nil}}},
		{name: "booleans", input: "* WHERE locked == true", wantFilters: []any{[]any{"locked", "=", true}}},
		{name: "negative number", input: "* WHERE uid > -1", wantFilters: []any{[]any{"uid", ">", -1}}},
		{name: "float", input: "* WHERE load <= 1.5", wantFilters: []any{[]any{"load", "<=", 1.5}}},
		{name: "double quotes", input: `* WHERE name == "a\tb"`, wantFilters: []any{[]any{"name", "=", "a\tb"}}},
		{name: "raw string", input: `* WHERE name.match(r'\d+')`, wantFilters: []any{[]any{"name", "~", `\d+`}}},
		{
			name:        "parenthesized",
			input:       "* WHERE (uid > 0)",
			wantFilters: []any{[]any{"uid", ">", 0}},
		},
		{name: "blank where", input: "uid WHERE  ", wantColumns: []string{"uid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantColumns, q.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantFilters, canonical(q)); diff != "" {
				t.Errorf("filters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "dangling operator", input: "* WHERE uid &", wantErr: "invalid syntax\n uid &\n      ^"},
		{name: "double ampersand", input: "* WHERE uid && 1", wantErr: "invalid syntax\n uid && 1\n      ^"},
		{name: "unclosed paren", input: "* WHERE (uid > 1", wantErr: "invalid syntax\n (uid > 1\n         ^"},
		{
			name:    "missing columns",
			input:   "WHERE uid == 1",
			wantErr: "Expected end of text, found 'u'\n WHERE uid == 1\n       ^",
		},
		{
			name:    "bad column",
			input:   "#test",
			wantErr: "Expected {column [, column]... | '*'}, found '#'\n #test\n ^",
		},
		{name: "is not", input: "* WHERE smb_account is not None", wantErr: "unsupported comparison operator: IsNot"},
		{name: "chained", input: "* WHERE 0 < uid < 10", wantErr: "too many comparators (expected 1, found 2)"},
		{name: "reversed in literal", input: "* WHERE 'oo' in 1", wantErr: "unsupported right operand for `oo in`"},
		{name: "constant left", input: "* WHERE 1 > uid", wantErr: "unsupported left operand Constant"},
		{name: "name right", input: "* WHERE gid > uid", wantErr: "unsupported right operand Name"},
		{name: "dict right", input: "* WHERE gid == {}", wantErr: "unsupported right operand Dict"},
		{name: "constant callee", input: "* WHERE 'OO'.upper()", wantErr: "unsupported callee Constant"},
		{name: "plain call", input: "* WHERE len(x)", wantErr: "unsupported callee type: Name"},
		{name: "unknown function", input: "* WHERE username.isdigit()", wantErr: "unknown function name 'isdigit'"},
		{
			name:    "too many arguments",
			input:   "* WHERE username.match('ROOT', re.IGNORECASE)",
			wantErr: "function match accepts 1 argument, given 2",
		},
		{
			name:    "keyword arguments",
			input:   "* WHERE username.match('ROOT', flags=re.IGNORECASE)",
			wantErr: "function match does not accept keyword arguments",
		},
		{name: "invert", input: "* WHERE ~uid", wantErr: "unknown unary expression Invert"},
		{name: "negated name", input: "* WHERE -uid", wantErr: "unknown unary expression USub"},
		{name: "bare name", input: "* WHERE uid", wantErr: "unsupported filter expression: Name"},
		{name: "arithmetic", input: "* WHERE uid + 1", wantErr: "unsupported filter expression: BinOp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestQueryArgs(t *testing.T) {
	q, err := Parse("uid WHERE uid > 0")
	if err != nil {
		t.Fatal(err)
	}
	want := []any{[]any{[]any{"uid", ">", 0}}, map[string]any{}}
	if diff := cmp.Diff(want, q.Args()); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestProject(t *testing.T) {
	rows := []any{
		map[string]any{"uid": 0, "username": "root", "shell": "/bin/sh"},
		map[string]any{"uid": 1000, "username": "ivan"},
	}

	tests := []struct {
		name    string
		columns []string
		input   any
		want    any
	}{
		{name: "all columns", input: rows, want: rows},
		{
			name:    "list of objects",
			columns: []string{"username", "shell"},
			input:   rows,
			want: []any{
				map[string]any{"username": "root", "shell": "/bin/sh"},
				map[string]any{"username": "ivan"},
			},
		},
		{
			name:    "single object",
			columns: []string{"uid"},
			input:   map[string]any{"uid": 0, "username": "root"},
			want:    map[string]any{"uid": 0},
		},
		{name: "scalar", columns: []string{"uid"}, input: 5, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &Query{Columns: tt.columns}
			if diff := cmp.Diff(tt.want, q.Project(tt.input)); diff != "" {
				t.Errorf("Project mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
