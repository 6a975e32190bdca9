package util

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// PromptPassword reads a password for the given account from the
// terminal with echo disabled. The prompt goes to stderr so command
// output stays pipeable.
func PromptPassword(account string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available for password prompt (use --password or the credential store)")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", account)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %v", err)
	}
	return string(b), nil
}
