// Package parser implements the command line grammar: positional and keyword
// arguments, literals, list sugar, the interactive flag and output redirect.
// It also classifies partial input for autocompletion.
package parser

import (
	"strings"
)

// Invocation is one parsed command line.
type Invocation struct {
	Positionals []any
	Keywords    map[string]any
	Interactive bool   // "--" was given
	Redirect    string // Target of "> path", empty if none
}

// Options tune the grammar.
type Options struct {
	// StrictLists rejects whitespace after a comma in list sugar
	// ("1,2, 3"). By default the whitespace is skipped.
	StrictLists bool
}

// Parse parses a line with the default options.
func Parse(line string) (*Invocation, error) {
	return ParseWith(line, Options{})
}

// ParseWith parses a line: positionals, then keywords, then an optional
// "--", then an optional "> path".
func ParseWith(line string, opts Options) (*Invocation, error) {
	s := newScanner(line, opts)
	inv := &Invocation{Keywords: map[string]any{}}

	for {
		arg, ok, err := s.positional()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		inv.Positionals = append(inv.Positionals, arg.value)
	}

	for {
		name, arg, ok, err := s.keyword()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		inv.Keywords[name] = arg.value
	}

	save := s.pos
	s.skipSpace()
	if strings.HasPrefix(s.src[s.pos:], "--") {
		inv.Interactive = true
		s.pos += 2
	} else {
		s.pos = save
	}

	save = s.pos
	s.skipSpace()
	if s.at(s.pos) == '>' {
		start := skipSpaceAt(s.src, s.pos+1)
		end := start
		for end < len(s.src) && !isSpace(s.src[end]) {
			end++
		}
		if end > start {
			inv.Redirect = s.src[start:end]
			s.pos = end
		} else {
			s.pos = save
		}
	} else {
		s.pos = save
	}

	s.skipSpace()
	if s.pos < len(line) {
		return nil, Expected("end of text", line, s.pos)
	}
	return inv, nil
}
