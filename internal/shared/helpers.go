// Package shared provides small utility functions used across multiple
// packages in the stratum codebase.
package shared

import (
	"fmt"
	"strings"
)

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	trimmed := strings.TrimSpace(string(output))
	if trimmed == "" {
		return err
	}
	return fmt.Errorf("%s: %w", trimmed, err)
}

// Hline renders a section header like "== label ====…" padded with the
// rule character to a fixed width.
func Hline(label string, rule byte) string {
	const width = 64
	prefix := strings.Repeat(string(rule), 2) + " " + label + " "
	if len(prefix) >= width {
		return prefix
	}
	return prefix + strings.Repeat(string(rule), width-len(prefix))
}
