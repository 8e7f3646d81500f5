package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyRounds is returned when the form is still invalid after the
	// configured number of correction rounds.
	ErrTooManyRounds = errors.New("tui: form still invalid")
)
