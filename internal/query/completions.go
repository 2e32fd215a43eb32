package query

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aidanlsb/rpcsh/internal/parser"
)

// Matches the WHERE clause right after a connective or an opening
// parenthesis, capturing the field name being typed.
var fieldPositionRe = regexp.MustCompile(`^(?i)(?:.+\sand\s+|.+\sor\s+|.*\(|)\s*([a-z][a-z0-9_]*|)$`)

// Complete proposes field names or the WHERE keyword for a partially typed
// query command. fields lists the queryable fields in display order.
func Complete(fields []string, text string) []parser.Candidate {
	if len(fields) == 0 {
		return nil
	}

	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return fieldsWithPrefix(fields, "", nil)
	}

	cmd, err := scanCommand(text)
	if err != nil {
		return nil
	}
	endsWithSpace := unicode.IsSpace(rune(text[len(text)-1]))

	switch {
	case cmd.hasWhere:
		clause := strings.TrimLeftFunc(cmd.where, unicode.IsSpace)
		if clause == "" {
			return fieldsWithPrefix(fields, "", nil)
		}
		if m := fieldPositionRe.FindStringSubmatch(clause); m != nil {
			return fieldsWithPrefix(fields, m[1], nil)
		}
		return nil

	case cmd.all:
		if endsWithSpace {
			return []parser.Candidate{{Text: "WHERE"}}
		}
		return []parser.Candidate{{Text: " WHERE"}}

	case strings.HasSuffix(stripped, ","):
		return fieldsWithPrefix(fields, "", cmd.columns)

	case endsWithSpace:
		return []parser.Candidate{{Text: "WHERE"}}
	}

	last := cmd.columns[len(cmd.columns)-1]
	return fieldsWithPrefix(fields, last, cmd.columns)
}

func fieldsWithPrefix(fields []string, prefix string, exclude []string) []parser.Candidate {
	var out []parser.Candidate
	for _, f := range fields {
		if !strings.HasPrefix(f, prefix) || contains(exclude, f) {
			continue
		}
		out = append(out, parser.Candidate{Text: f, Replace: len(prefix)})
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
