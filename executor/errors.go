package executor

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrEmptyProgram is returned when a Command has no program name
var ErrEmptyProgram = errors.New("empty program")

// LaunchError reports that a program could not be started, or that the OS
// reported it terminated abnormally (killed by a signal) before producing an
// exit status. A program that runs and exits nonzero is not a LaunchError.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsLaunchError reports whether err is, or wraps, a *LaunchError
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return errors.As(err, &launchErr)
}
