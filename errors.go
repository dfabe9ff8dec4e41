package svgicon

import (
	"errors"
	"fmt"
)

// ErrOverlap is returned when the target directory is the source directory
// or contains it, so clearing the target would delete the sources.
var ErrOverlap = errors.New("target directory contains the source directory")

// ErrIndexName is returned for an icon whose module path is the index file
// of its group.
var ErrIndexName = errors.New("icon module would replace the group index")

// Op names the step of a per-file conversion that failed.
type Op string

const (
	OpRead      Op = "read"
	OpNormalize Op = "normalize"
	OpWrite     Op = "write"
	OpEncode    Op = "encode"
	OpIndex     Op = "index"
)

// FileError reports a failure confined to a single file.
type FileError struct {
	Op   Op
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

type fileErrs []error

func (errs fileErrs) Error() string {
	return fmt.Sprintf("%d file(s) failed:\n%v", len(errs), errors.Join(errs...))
}

func (errs fileErrs) Unwrap() []error {
	return errs
}
