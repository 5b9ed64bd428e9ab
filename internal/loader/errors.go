package loader

import (
	"errors"
	"fmt"
)

// ErrLoad marks every failure that aborted a load cycle.
var ErrLoad = errors.New("dataset load failed")

// ParseError reports a cell that could not be converted to its canonical type.
// Row is the 1-based line number in the file, counting the header as row 1.
type ParseError struct {
	File   string
	Row    int
	Column string
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: cannot parse %q: %v", e.File, e.Row, e.Column, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for parse failures.
func (e *ParseError) Is(target error) bool { return target == ErrLoad }
