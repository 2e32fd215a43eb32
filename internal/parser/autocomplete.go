package parser

import (
	"regexp"
)

// Completion describes what the cursor is in the middle of. It is either
// *CompletingName or *CompletingValue.
type Completion interface {
	completion()
}

// CompletingName means an argument name is being typed.
type CompletingName struct {
	Positionals int      // Positional arguments already bound
	Keywords    []string // Keyword names already used
	Prefix      string   // Partial name
}

// CompletingValue means the value of a keyword argument is being typed.
type CompletingValue struct {
	Name   string
	Prefix string // Partial value, as typed
}

func (*CompletingName) completion()  {}
func (*CompletingValue) completion() {}

var (
	argTailRe   = regexp.MustCompile(`^(?i)\s*([a-z0-9_]+)$`)
	kwargTailRe = regexp.MustCompile(`^(?i)\s*([a-z0-9_]+)\s*=\s*(.*)$`)
)

// Classify inspects the text left of the cursor. Complete arguments are
// consumed by the grammar; whatever remains is matched against a partial
// name or a partial name=value.
func Classify(text string) Completion {
	s := newScanner(text, Options{})

	var positionals []span
	for {
		arg, ok, err := s.positional()
		if err != nil || !ok {
			break
		}
		positionals = append(positionals, arg)
	}

	type kwSpan struct {
		name string
		span
	}
	var keywords []kwSpan
	for {
		name, arg, ok, err := s.keyword()
		if err != nil || !ok {
			break
		}
		keywords = append(keywords, kwSpan{name, arg})
	}

	var names []string
	for _, kw := range keywords {
		names = append(names, kw.name)
	}
	rest := text[min(s.pos, len(text)):]

	if rest == "" {
		switch {
		case len(keywords) > 0:
			last := keywords[len(keywords)-1]
			return &CompletingValue{Name: last.name, Prefix: last.raw}
		case len(positionals) == 0:
			return &CompletingName{}
		default:
			last := positionals[len(positionals)-1]
			return &CompletingName{Positionals: len(positionals) - 1, Keywords: names, Prefix: last.raw}
		}
	}

	if m := argTailRe.FindStringSubmatch(rest); m != nil {
		return &CompletingName{Positionals: len(positionals), Keywords: names, Prefix: m[1]}
	}
	if m := kwargTailRe.FindStringSubmatch(rest); m != nil {
		return &CompletingValue{Name: m[1], Prefix: m[2]}
	}
	return &CompletingName{Positionals: len(positionals), Keywords: names}
}
