package logger

import "github.com/mattn/go-isatty"

// isTerminal reports whether the file descriptor is an interactive
// terminal; color output is only enabled when it is.
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
