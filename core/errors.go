package core

import (
	"errors"
	"fmt"
)

// Grid parsing errors. They are always returned wrapped in a
// *MalformedInputError.
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrRaggedRows     = errors.New("rows have inconsistent length")
	ErrNoStart        = errors.New("no start marker")
	ErrMultipleStarts = errors.New("more than one start marker")
)

// MalformedInputError reports a grid that cannot be parsed.
// Line is 1-based, or 0 when the problem is not tied to a single line.
type MalformedInputError struct {
	Line int
	Err  error
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(line int, err error) error {
	return &MalformedInputError{Line: line, Err: err}
}

// outOfBounds panics for an access outside the grid. Callers bounds-check
// first, so reaching this is a programming error.
func outOfBounds(x, y, width, height int) {
	panic(fmt.Sprintf("core: cell (%d,%d) outside %dx%d grid", x, y, width, height))
}
