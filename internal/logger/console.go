package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/styles"
)

// Console output is for people; structured logs go through the global Logger.
var (
	consoleMu  sync.Mutex
	consoleOut io.Writer = os.Stdout
	consoleErr io.Writer = os.Stderr
)

// SetConsoleOutput redirects console output and returns a restore func.
func SetConsoleOutput(out, errOut io.Writer) func() {
	consoleMu.Lock()
	defer consoleMu.Unlock()

	prevOut, prevErr := consoleOut, consoleErr
	consoleOut, consoleErr = out, errOut
	return func() {
		consoleMu.Lock()
		defer consoleMu.Unlock()
		consoleOut, consoleErr = prevOut, prevErr
	}
}

func writers() (io.Writer, io.Writer) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	return consoleOut, consoleErr
}

func isPlain() bool {
	return config.IsPlain()
}

// Successf prints success messages
func Successf(format string, args ...any) {
	out, _ := writers()
	if isPlain() {
		_, _ = fmt.Fprintf(out, format+"\n", args...)
		return
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", styles.Render(&styles.Success, "✓"), fmt.Sprintf(format, args...))
}

// Failuref prints error messages to stderr
func Failuref(format string, args ...any) {
	_, errOut := writers()
	if isPlain() {
		_, _ = fmt.Fprintf(errOut, "Error: "+format+"\n", args...)
		return
	}
	_, _ = fmt.Fprintf(errOut, "%s %s\n", styles.Render(&styles.Error, "✗"), fmt.Sprintf(format, args...))
}

// Infof prints neutral informational lines
func Infof(format string, args ...any) {
	out, _ := writers()
	if isPlain() {
		_, _ = fmt.Fprintf(out, format+"\n", args...)
		return
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", styles.Render(&styles.Info, "→"), fmt.Sprintf(format, args...))
}
