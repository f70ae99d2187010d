package evd

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingReference is returned when the reference table points to a
	// hit row that does not exist in the hits table.
	ErrDanglingReference = errors.New("reference to missing hit")
	// ErrViewerClosed is returned by a Display when the viewer can no longer
	// dismiss figures, e.g. stdin was closed.
	ErrViewerClosed    = errors.New("viewer closed")
	ErrUnknownSelector = errors.New("unknown hit selector")
	ErrInvalidDetector = errors.New("invalid detector configuration")
)

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrReadTable represents an error when reading a table from the input file.
type ErrReadTable struct {
	TableName string
	Err       error
}

func (e *ErrReadTable) Error() string {
	return fmt.Sprintf("error reading table %q: %v", e.TableName, e.Err)
}

func (e *ErrReadTable) Unwrap() error {
	return e.Err
}
