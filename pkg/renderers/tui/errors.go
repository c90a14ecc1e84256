package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNotANumber is returned by numeric prompt validators.
	ErrNotANumber = errors.New("tui: enter a number")
)
