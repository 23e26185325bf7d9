package repository

import "fmt"

// NotFoundError is returned by Load when no record exists for name. It is
// distinct from Exists returning false: Exists is a successful answer,
// this is an error a caller must branch on (spec §7's NotFound kind).
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository: environment %q not found", e.Name)
}

// CorruptedError is returned by Load when the on-disk record at Path could
// not be parsed as a valid Environment, and is collected as a Warning
// (rather than aborting the scan) by List.
type CorruptedError struct {
	Path  string
	Cause error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("repository: corrupted record at %s: %v", e.Path, e.Cause)
}

func (e *CorruptedError) Unwrap() error {
	return e.Cause
}
