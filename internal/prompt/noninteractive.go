package prompt

import (
	"fmt"
	"os"
)

// NonInteractive is the provider used when no operator is present. Any
// attempt to ask a question is a hard error; reports go to the standard
// streams.
type NonInteractive struct{}

// NewNonInteractive returns the no-operator provider.
func NewNonInteractive() *NonInteractive {
	return &NonInteractive{}
}

// AskYesNo implements Provider. Always fails.
func (n *NonInteractive) AskYesNo(title, _, _, _ string) (bool, error) {
	return false, fmt.Errorf("cannot prompt %q: no interactive terminal", title)
}

// AskInput implements Provider. Always fails.
func (n *NonInteractive) AskInput(title, _, _ string) (string, error) {
	return "", fmt.Errorf("cannot prompt %q: no interactive terminal", title)
}

// AskPassword implements Provider. Always fails.
func (n *NonInteractive) AskPassword(title string, _ string, _, _ int) (string, error) {
	return "", fmt.Errorf("cannot prompt %q: no interactive terminal", title)
}

// ShowError implements Provider.
func (n *NonInteractive) ShowError(text string) {
	fmt.Fprintln(os.Stderr, "Error: "+text)
}

// ShowInfo implements Provider.
func (n *NonInteractive) ShowInfo(text string) {
	fmt.Fprintln(os.Stdout, text)
}
