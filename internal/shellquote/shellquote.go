// Package shellquote quotes and splits command strings the way a POSIX
// shell would.
package shellquote

import (
	"errors"
	"strings"
)

// ErrUnterminated is returned by Split for an unclosed quote or a trailing
// backslash.
var ErrUnterminated = errors.New("unterminated quote or escape")

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes strings that are likely to be interpreted by a shell.
func QuoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n#[]()|!\"'$\\;&<>*?`") {
		return Quote(s)
	}
	return s
}

// Split breaks s into words. Single quotes preserve everything literally;
// inside double quotes a backslash only escapes $ ` " \ and newline.
func Split(s string) ([]string, error) {
	var (
		words   []string
		word    strings.Builder
		inWord  bool
		quote   byte
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			if quote == '"' && !strings.ContainsRune("$`\"\\\n", rune(c)) {
				word.WriteByte('\\')
			}
			if c != '\n' {
				word.WriteByte(c)
			}
			escaped = false
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				word.WriteByte(c)
			}
		case c == '\\':
			escaped = true
			inWord = true
		case quote == '"':
			if c == '"' {
				quote = 0
			} else {
				word.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inWord = true
		case c == ' ' || c == '\t' || c == '\n':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteByte(c)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, ErrUnterminated
	}
	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}
