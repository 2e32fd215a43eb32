package binder

import "fmt"

// ArityError reports a positional argument count that does not fit the
// splice position.
type ArityError struct {
	Limit   int
	Given   int
	TooMany bool
}

func (e *ArityError) Error() string {
	if e.TooMany {
		return fmt.Sprintf("too many positional arguments (%d supported, %d given)", e.Limit, e.Given)
	}
	return fmt.Sprintf("too few positional arguments (%d required, %d given)", e.Limit, e.Given)
}

// UnknownArgumentError reports a keyword that names no declared argument.
type UnknownArgumentError struct {
	Name string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unknown keyword argument %s", e.Name)
}

// DuplicateBindingError reports a keyword for a position already filled by
// a positional argument.
type DuplicateBindingError struct {
	Name     string
	Position int // 1-based
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("keyword argument %s already given as positional argument %d", e.Name, e.Position)
}

// MissingArgumentError reports a gap before the last bound argument.
type MissingArgumentError struct {
	Name     string
	Position int // 1-based
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing positional argument %d (%s)", e.Position, e.Name)
}
