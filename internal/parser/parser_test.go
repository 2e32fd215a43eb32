package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func inv(positionals []any, keywords map[string]any) *Invocation {
	if keywords == nil {
		keywords = map[string]any{}
	}
	return &Invocation{Positionals: positionals, Keywords: keywords}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Invocation
		wantErr string
	}{
		{name: "empty", input: "", want: inv(nil, nil)},
		{name: "integer", input: "1", want: inv([]any{1}, nil)},
		{
			name:    "trailing garbage after number",
			input:   "1a",
			wantErr: "Expected end of text, found '1'\n 1a\n ^",
		},
		{name: "octal", input: "0o10", want: inv([]any{8}, nil)},
		{name: "hex", input: "0x10", want: inv([]any{16}, nil)},
		{name: "uppercase hex", input: "0XfF", want: inv([]any{255}, nil)},
		{name: "null", input: "null", want: inv([]any{nil}, nil)},
		{name: "booleans", input: "true false", want: inv([]any{true, false}, nil)},
		{name: "float", input: "1.5 -2 1e3", want: inv([]any{1.5, -2, 1000.0}, nil)},
		{name: "json array", input: "[1, 2, 3]", want: inv([]any{[]any{1, 2, 3}}, nil)},
		{name: "octal after integer", input: "1 0o10", want: inv([]any{1, 8}, nil)},
		{name: "null after integer", input: "1 null", want: inv([]any{1, nil}, nil)},
		{name: "array after integer", input: "1 [1, 2, 3]", want: inv([]any{1, []any{1, 2, 3}}, nil)},
		{name: "list sugar", input: "1 1,2,3", want: inv([]any{1, []any{1, 2, 3}}, nil)},
		{name: "list sugar with space", input: "1 1,2, 3", want: inv([]any{1, []any{1, 2, 3}}, nil)},
		{
			name:  "quoted list sugar",
			input: `1 "a,b","c, d"`,
			want:  inv([]any{1, []any{"a,b", "c, d"}}, nil),
		},
		{
			name:  "object",
			input: `1 {"key": "value"} 2`,
			want:  inv([]any{1, map[string]any{"key": "value"}, 2}, nil),
		},
		{
			name:  "nested object",
			input: `1 {"key": ["nested", {"value": 2}]} 3`,
			want:  inv([]any{1, map[string]any{"key": []any{"nested", map[string]any{"value": 2}}}, 3}, nil),
		},
		{name: "keyword", input: "1 option=2", want: inv([]any{1}, map[string]any{"option": 2})},
		{name: "two positionals and keyword", input: "1 2 option=3", want: inv([]any{1, 2}, map[string]any{"option": 3})},
		{name: "keyword list", input: "1 2 option=3,4", want: inv([]any{1, 2}, map[string]any{"option": []any{3, 4}})},
		{
			name:  "two keywords",
			input: `1 2 option=3 another_option="4"`,
			want:  inv([]any{1, 2}, map[string]any{"option": 3, "another_option": "4"}),
		},
		{
			name:    "positional after keyword",
			input:   "1 option=2 3",
			wantErr: "Expected end of text, found '3'\n 1 option=2 3\n            ^",
		},
		{name: "bare string", input: "ivan_ivanov123", want: inv([]any{"ivan_ivanov123"}, nil)},
		{name: "bare keyword value", input: "name=ivan_ivanov123", want: inv(nil, map[string]any{"name": "ivan_ivanov123"})},
		{name: "space after equals", input: "name= ivan_ivanov123", want: inv(nil, map[string]any{"name": "ivan_ivanov123"})},
		{name: "space before equals", input: "name =ivan_ivanov123", want: inv(nil, map[string]any{"name": "ivan_ivanov123"})},
		{name: "spaces around equals", input: "name = ivan_ivanov123", want: inv(nil, map[string]any{"name": "ivan_ivanov123"})},
		{name: "root path", input: "path=/", want: inv(nil, map[string]any{"path": "/"})},
		{name: "dotfile", input: "path=.history", want: inv(nil, map[string]any{"path": ".history"})},
		{name: "at sign", input: "user=root@localhost", want: inv(nil, map[string]any{"user": "root@localhost"})},
		{name: "interactive", input: "--", want: &Invocation{Keywords: map[string]any{}, Interactive: true}},
		{name: "interactive after positional", input: "1 --", want: &Invocation{Positionals: []any{1}, Keywords: map[string]any{}, Interactive: true}},
		{
			name:  "interactive after keyword",
			input: "1 option=2 --",
			want:  &Invocation{Positionals: []any{1}, Keywords: map[string]any{"option": 2}, Interactive: true},
		},
		{
			name:  "interactive after tab",
			input: "1 option=2\t-- ",
			want:  &Invocation{Positionals: []any{1}, Keywords: map[string]any{"option": 2}, Interactive: true},
		},
		{
			name:  "redirect",
			input: "1 option=2 > file.tar.gz",
			want:  &Invocation{Positionals: []any{1}, Keywords: map[string]any{"option": 2}, Redirect: "file.tar.gz"},
		},
		{
			name:  "interactive and redirect",
			input: "1 option=2 -- > /root/file.tar.gz",
			want: &Invocation{
				Positionals: []any{1},
				Keywords:    map[string]any{"option": 2},
				Interactive: true,
				Redirect:    "/root/file.tar.gz",
			},
		},
		{
			name:  "escaped newline",
			input: `auxsmbconf="force group=apps\nforce user=apps"`,
			want:  inv(nil, map[string]any{"auxsmbconf": "force group=apps\nforce user=apps"}),
		},
		{
			name:  "multi-word quoted positional",
			input: `"hello world" x`,
			want:  inv([]any{"hello world", "x"}, nil),
		},
		{
			name:    "unterminated string",
			input:   `name="abc`,
			wantErr: "Expected end of text, found 'n'\n name=\"abc\n ^",
		},
		{
			name:    "redirect without path",
			input:   "1 >",
			wantErr: "Expected end of text, found '>'\n 1 >\n   ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tt.input, got)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("Parse(%q) error =\n%s\nwant\n%s", tt.input, err, tt.wantErr)
				}
				var perr *Error
				if !errors.As(err, &perr) {
					t.Errorf("error type = %T, want *Error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestErrorColumn(t *testing.T) {
	_, err := Parse("1a")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Column() != 1 {
		t.Errorf("Column() = %d, want 1", perr.Column())
	}
}

func TestListSpacingPolicy(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		got, err := ParseWith("1 1,2, 3", Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(inv([]any{1, []any{1, 2, 3}}, nil), got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, err := ParseWith("1 1,2, 3", Options{StrictLists: true})
		if err == nil {
			t.Fatal("expected error")
		}
		want := "Unexpected whitespace after ','\n 1 1,2, 3\n       ^"
		if err.Error() != want {
			t.Errorf("error =\n%s\nwant\n%s", err, want)
		}
	})

	t.Run("strict accepts tight lists", func(t *testing.T) {
		got, err := ParseWith("option=3,4", Options{StrictLists: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(inv(nil, map[string]any{"option": []any{3, 4}}), got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}
