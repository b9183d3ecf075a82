package main

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	ExitSuccess      = 0 // Conformance check passed
	ExitFailure      = 1 // Load failure, mismatch, contract violation or timeout
	ExitCommandError = 2 // Invalid flags, unreadable suite file
)

// ExitError carries the process exit code for a command failure
type ExitError struct {
	Code     int
	Message  string
	Err      error
	Reported bool // already written to the user; main only exits
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandError(message string, err error) *ExitError {
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

// exitCode extracts the exit code from an error, defaulting to ExitCommandError
// for errors cobra raises itself (unknown flags, bad arguments)
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

func isReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}
