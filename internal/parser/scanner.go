package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	octRe    = regexp.MustCompile(`^(?i)0o[0-7]+`)
	hexRe    = regexp.MustCompile(`^(?i)0x[0-9a-f]+`)
	numberRe = regexp.MustCompile(`^[+-]?(?:\d+\.\d*|\.\d+|\d+)(?:[eE][+-]?\d+)?`)
	bareRe   = regexp.MustCompile(`^(?i)[a-z./_@][a-z0-9./_@]*`)
	nameRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*`)
)

// scanner walks a line one value at a time. src is the input with a single
// trailing space appended so every complete argument is followed by
// whitespace.
type scanner struct {
	line string
	src  string
	pos  int
	opts Options
}

func newScanner(line string, opts Options) *scanner {
	return &scanner{line: line, src: line + " ", opts: opts}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (s *scanner) skipSpace() {
	s.pos = skipSpaceAt(s.src, s.pos)
}

func skipSpaceAt(src string, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

func (s *scanner) at(pos int) byte {
	if pos < len(s.src) {
		return s.src[pos]
	}
	return 0
}

// value scans a value starting exactly at pos: a base value, or two or more
// base values joined by commas. It returns the end offset. err is only set
// for list spacing that the strict policy rejects.
func (s *scanner) value(pos int) (v any, end int, ok bool, err error) {
	first, end, ok := s.baseValue(pos)
	if !ok {
		return nil, pos, false, nil
	}

	items := []any{first}
	for s.at(end) == ',' {
		next := end + 1
		if isSpace(s.at(next)) {
			if s.opts.StrictLists {
				return nil, pos, false, NewError("Unexpected whitespace after ','", s.line, next)
			}
			next = skipSpaceAt(s.src, next)
		}
		item, itemEnd, ok := s.baseValue(next)
		if !ok {
			break
		}
		items = append(items, item)
		end = itemEnd
	}

	if len(items) == 1 {
		return first, end, true, nil
	}
	return items, end, true, nil
}

// baseValue scans an octal, hex, JSON or bare string literal, in that order.
// The first matching alternative wins; there is no backtracking into the
// others.
func (s *scanner) baseValue(pos int) (any, int, bool) {
	rest := s.src[pos:]

	if m := octRe.FindString(rest); m != "" {
		n, err := strconv.ParseInt(m[2:], 8, 64)
		if err != nil {
			return nil, pos, false
		}
		return int(n), pos + len(m), true
	}
	if m := hexRe.FindString(rest); m != "" {
		n, err := strconv.ParseInt(m[2:], 16, 64)
		if err != nil {
			return nil, pos, false
		}
		return int(n), pos + len(m), true
	}
	if v, end, ok := s.jsonValue(pos); ok {
		return v, end, true
	}
	if m := bareRe.FindString(rest); m != "" {
		return m, pos + len(m), true
	}
	return nil, pos, false
}

// jsonValue scans a JSON literal. Whitespace is allowed inside brackets and
// braces but not before the literal itself.
func (s *scanner) jsonValue(pos int) (any, int, bool) {
	switch c := s.at(pos); {
	case c == '"':
		return s.jsonString(pos)
	case c == '[':
		return s.jsonArray(pos)
	case c == '{':
		return s.jsonObject(pos)
	}

	rest := s.src[pos:]
	if m := numberRe.FindString(rest); m != "" {
		if strings.ContainsAny(m, ".eE") {
			f, err := strconv.ParseFloat(m, 64)
			if err != nil {
				return nil, pos, false
			}
			return f, pos + len(m), true
		}
		n, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(m, 64)
			if ferr != nil {
				return nil, pos, false
			}
			return f, pos + len(m), true
		}
		return int(n), pos + len(m), true
	}

	for _, kw := range []struct {
		text  string
		value any
	}{{"true", true}, {"false", false}, {"null", nil}} {
		if strings.HasPrefix(rest, kw.text) && !isIdentChar(s.at(pos+len(kw.text))) {
			return kw.value, pos + len(kw.text), true
		}
	}
	return nil, pos, false
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (s *scanner) jsonString(pos int) (any, int, bool) {
	i := pos + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
			continue
		case '\n', '\r':
			return nil, pos, false
		case '"':
			var out string
			if err := json.Unmarshal([]byte(s.src[pos:i+1]), &out); err != nil {
				return nil, pos, false
			}
			return out, i + 1, true
		}
		i++
	}
	return nil, pos, false
}

func (s *scanner) jsonArray(pos int) (any, int, bool) {
	i := skipSpaceAt(s.src, pos+1)
	items := []any{}
	if s.at(i) == ']' {
		return items, i + 1, true
	}
	for {
		v, end, ok := s.jsonValue(i)
		if !ok {
			return nil, pos, false
		}
		items = append(items, v)
		i = skipSpaceAt(s.src, end)
		switch s.at(i) {
		case ',':
			i = skipSpaceAt(s.src, i+1)
		case ']':
			return items, i + 1, true
		default:
			return nil, pos, false
		}
	}
}

func (s *scanner) jsonObject(pos int) (any, int, bool) {
	i := skipSpaceAt(s.src, pos+1)
	obj := map[string]any{}
	if s.at(i) == '}' {
		return obj, i + 1, true
	}
	for {
		k, end, ok := s.jsonString(i)
		if !ok {
			return nil, pos, false
		}
		i = skipSpaceAt(s.src, end)
		if s.at(i) != ':' {
			return nil, pos, false
		}
		v, end, ok := s.jsonValue(skipSpaceAt(s.src, i+1))
		if !ok {
			return nil, pos, false
		}
		obj[k.(string)] = v
		i = skipSpaceAt(s.src, end)
		switch s.at(i) {
		case ',':
			i = skipSpaceAt(s.src, i+1)
		case '}':
			return obj, i + 1, true
		default:
			return nil, pos, false
		}
	}
}

// span is a scanned argument with its source text.
type span struct {
	value any
	raw   string
}

// positional scans whitespace and a value that is followed by whitespace
// and not by '='. On failure the position is restored.
func (s *scanner) positional() (span, bool, error) {
	save := s.pos
	s.skipSpace()
	start := s.pos
	v, end, ok, err := s.value(start)
	if err != nil {
		return span{}, false, err
	}
	if !ok || !isSpace(s.at(end)) || s.at(skipSpaceAt(s.src, end)) == '=' {
		s.pos = save
		return span{}, false, nil
	}
	s.pos = end
	return span{value: v, raw: s.src[start:end]}, true, nil
}

// keyword scans `name = value` followed by whitespace. On failure the
// position is restored.
func (s *scanner) keyword() (string, span, bool, error) {
	save := s.pos
	s.skipSpace()
	name := nameRe.FindString(s.src[s.pos:])
	if name == "" {
		s.pos = save
		return "", span{}, false, nil
	}
	i := skipSpaceAt(s.src, s.pos+len(name))
	if s.at(i) != '=' {
		s.pos = save
		return "", span{}, false, nil
	}
	start := skipSpaceAt(s.src, i+1)
	v, end, ok, err := s.value(start)
	if err != nil {
		return "", span{}, false, err
	}
	if !ok || !isSpace(s.at(end)) {
		s.pos = save
		return "", span{}, false, nil
	}
	s.pos = end
	return name, span{value: v, raw: s.src[start:end]}, true, nil
}
