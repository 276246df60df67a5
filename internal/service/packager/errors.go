package packager

import "errors"

// Process exit codes. The CLI maps pipeline failures onto these so scripts
// can tell a missing source apart from a broken archive step.
const (
	// ExitOK means the archive was produced successfully.
	ExitOK = 0
	// ExitSourceError covers source resolution, validation and staging-copy failures.
	ExitSourceError = 1
	// ExitArchiveError covers compression failures.
	ExitArchiveError = 2
	// ExitFinalizeError covers failures moving the archive to its destination.
	ExitFinalizeError = 3
)

var (
	// errSourceNotFound is returned when no source directory could be resolved.
	errSourceNotFound = errors.New("plugin source directory not found")
	// errSourceNotDirectory is returned when the resolved source path is not a directory.
	errSourceNotDirectory = errors.New("plugin source path is not a directory")
	// errSourceEmpty is returned when the filtered copy produced no files.
	errSourceEmpty = errors.New("plugin source directory contains no files to package")
)

// Error ties a pipeline failure to the step that produced it and the exit
// code the process should terminate with.
type Error struct {
	// Step names the failed pipeline step for diagnostics.
	Step string
	// Code is the process exit code associated with the failure.
	Code int
	// Err is the underlying cause.
	Err error
}

// Error renders the failed step followed by the cause.
func (e *Error) Error() string {
	return e.Step + ": " + e.Err.Error()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// stepError wraps a failure with its step name and exit code.
func stepError(step string, code int, err error) error {
	return &Error{
		Step: step,
		Code: code,
		Err:  err,
	}
}

// ExitCode maps an error returned by Run onto the process exit code.
// A nil error maps to ExitOK; unclassified errors count as source errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var pipelineErr *Error
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Code
	}

	return ExitSourceError
}
