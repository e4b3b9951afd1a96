// Package prompt defines the abstract prompt provider the orchestrator
// talks to, plus its console and non-interactive implementations.
//
// The orchestrator never renders anything itself; every question and
// report goes through this closed capability set.
package prompt

// Provider is the closed set of interactions the provisioning session
// may request from the operator.
type Provider interface {
	// AskYesNo asks a yes/no question and returns the choice.
	AskYesNo(title, text, yesLabel, noLabel string) (bool, error)

	// AskInput asks for a single line of input, offering initial as the
	// pre-filled default, and returns the entered value.
	AskInput(title, text, initial string) (string, error)

	// AskPassword asks for a password and loops until the entry satisfies
	// the policy (minimum length, minimum complexity score, no
	// parentheses) and is confirmed by an exact second entry.
	AskPassword(title, text string, minLength, minComplexity int) (string, error)

	// ShowError reports an error message to the operator.
	ShowError(text string)

	// ShowInfo reports an informational message to the operator.
	ShowInfo(text string)
}
