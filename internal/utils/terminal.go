package utils

import (
	"io"
	"os"
)

// IsInteractive reports whether w is a terminal that can render in-place
// updates such as spinners.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(f.Fd())
}
