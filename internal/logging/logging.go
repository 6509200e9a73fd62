// Package logging provides debug logging and error presentation for the CLI.
// Normal output goes through pterm in the command layer; this package only
// carries the verbose diagnostics channel enabled by ESGCAT_VERBOSE=1.
package logging

import (
	"fmt"
	"os"
)

// Verbose reports whether verbose diagnostics are enabled.
func Verbose() bool {
	return os.Getenv("ESGCAT_VERBOSE") == "1"
}

// Debugf prints a diagnostic line to stderr when verbose mode is on.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
}

// PresentError formats an error for user display.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", context, err)
}
