package query

import (
	"strings"

	"github.com/aidanlsb/rpcsh/internal/parser"
)

// Query is a parsed query command: `col[,col]... | * [WHERE expr]`.
type Query struct {
	Columns []string // nil selects every column
	Filters []Filter
}

// command is the result of scanning the column list and WHERE keyword.
type command struct {
	columns  []string
	all      bool
	hasWhere bool
	where    string // Everything after WHERE, unstripped
	end      int
}

const columnsExpected = "{column [, column]... | '*'}"

// Parse parses a query command. Empty input selects everything.
func Parse(text string) (*Query, error) {
	q := &Query{}
	if strings.TrimSpace(text) == "" {
		return q, nil
	}

	cmd, err := scanCommand(text)
	if err != nil {
		return nil, err
	}
	if end := skipSpace(text, cmd.end); end != len(text) {
		return nil, parser.Expected("end of text", text, end)
	}

	if !cmd.all {
		q.Columns = cmd.columns
	}
	if where := strings.TrimSpace(cmd.where); cmd.hasWhere && where != "" {
		f, err := ParseFilter(where)
		if err != nil {
			return nil, err
		}
		q.Filters = []Filter{f}
	}
	return q, nil
}

// scanCommand scans as much of text as forms a query command.
func scanCommand(text string) (*command, error) {
	cmd := &command{}
	pos := skipSpace(text, 0)

	switch {
	case pos < len(text) && isColumnStart(text[pos]):
		for {
			end := scanColumn(text, pos)
			cmd.columns = append(cmd.columns, text[pos:end])
			cmd.end = end

			next := skipSpace(text, end)
			if next >= len(text) || text[next] != ',' {
				break
			}
			next = skipSpace(text, next+1)
			if next >= len(text) || !isColumnStart(text[next]) {
				break
			}
			pos = next
		}
	case pos < len(text) && text[pos] == '*':
		cmd.all = true
		cmd.end = pos + 1
	default:
		return nil, parser.Expected(columnsExpected, text, pos)
	}

	// WHERE must be a whole word followed by at least one character.
	kw := skipSpace(text, cmd.end)
	after := kw + len("where")
	if after < len(text) && strings.EqualFold(text[kw:after], "where") && !isKeywordChar(text[after]) {
		cmd.hasWhere = true
		cmd.where = text[after:]
		cmd.end = len(text)
	}
	return cmd, nil
}

func scanColumn(text string, pos int) int {
	end := pos + 1
	for end < len(text) && (isColumnStart(text[end]) || isDigit(text[end]) || text[end] == '_' || text[end] == '.') {
		end++
	}
	return end
}

func isColumnStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isKeywordChar(ch byte) bool {
	return isIdentChar(ch) || ch == '$'
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && strings.IndexByte(" \t\r\n", text[pos]) >= 0 {
		pos++
	}
	return pos
}

// Args returns the call arguments of a query method: the canonical
// filters and the options object.
func (q *Query) Args() []any {
	filters := make([]any, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = f.Canonical()
	}
	return []any{filters, map[string]any{}}
}

// Project keeps only the selected columns of a query result. Objects are
// filtered by key and lists are projected element-wise; other values pass
// through.
func (q *Query) Project(result any) any {
	if q.Columns == nil {
		return result
	}

	switch v := result.(type) {
	case map[string]any:
		out := make(map[string]any, len(q.Columns))
		for _, col := range q.Columns {
			if val, ok := v[col]; ok {
				out[col] = val
			}
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = q.Project(item)
		}
		return out
	}
	return result
}
