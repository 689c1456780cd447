package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTargetPath reports a violated precondition: the target is
// missing, or already exists, for the requested operation.
var ErrInvalidTargetPath = errors.New("invalid target path")

func invalidTarget(path string) error {
	return fmt.Errorf("%w: %s", ErrInvalidTargetPath, path)
}

// FileOperationError wraps an I/O failure of a task.
type FileOperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileOperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileOperationError) Unwrap() error { return e.Err }

func fileOp(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FileOperationError{Op: op, Path: path, Err: err}
}

// AggregateError collects the failures of concurrently drained tasks.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	if len(msgs) == 1 {
		return "1 task failed: " + msgs[0]
	}
	return fmt.Sprintf("%d tasks failed: %s", len(msgs), strings.Join(msgs, "; "))
}

func (e *AggregateError) Unwrap() []error { return e.Errors }
