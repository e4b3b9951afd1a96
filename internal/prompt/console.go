package prompt

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/dcinit/internal/validate"
)

var (
	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ef4444"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b82f6"))

	backTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f9fafb"))
)

// Console renders prompts on the controlling terminal using huh forms.
type Console struct {
	// BackTitle is prefixed to every prompt title, e.g.
	// "dcinit - first boot configuration".
	BackTitle string
}

// NewConsole returns a console provider with the given back title.
func NewConsole(backTitle string) *Console {
	return &Console{BackTitle: backTitle}
}

func (c *Console) title(t string) string {
	if c.BackTitle == "" {
		return t
	}
	return backTitleStyle.Render(c.BackTitle) + "\n" + t
}

// AskYesNo implements Provider.
func (c *Console) AskYesNo(title, text, yesLabel, noLabel string) (bool, error) {
	answer := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(c.title(title)).
				Description(text).
				Affirmative(yesLabel).
				Negative(noLabel).
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("yes/no prompt failed: %w", err)
	}
	return answer, nil
}

// AskInput implements Provider. Empty input is re-asked; the value itself
// is validated by the caller, which re-prompts with its own message.
func (c *Console) AskInput(title, text, initial string) (string, error) {
	value := initial
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(c.title(title)).
				Description(text).
				Value(&value).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("%s is required", title)
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("input prompt failed: %w", err)
	}
	return value, nil
}

// AskPassword implements Provider. It loops until the password passes the
// policy and the confirmation entry matches exactly.
func (c *Console) AskPassword(title, text string, minLength, minComplexity int) (string, error) {
	requirements := fmt.Sprintf(
		"%s\n\nPassword requirements:\n"+
			"  - at least %d characters\n"+
			"  - no parentheses\n"+
			"  - characters from at least %d of: uppercase, lowercase, digits, symbols",
		text, minLength, minComplexity)

	for {
		password, err := c.askPasswordOnce(title, requirements, minLength, minComplexity)
		if err != nil {
			return "", err
		}

		confirm, err := c.askConfirmOnce(title)
		if err != nil {
			return "", err
		}
		if password == confirm {
			return password, nil
		}
		c.ShowError("Password mismatch, please try again.")
	}
}

func (c *Console) askPasswordOnce(title, text string, minLength, minComplexity int) (string, error) {
	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(c.title(title)).
				Description(text).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					return validate.CheckPassword(s, minLength, minComplexity)
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("password prompt failed: %w", err)
	}
	return password, nil
}

func (c *Console) askConfirmOnce(title string) (string, error) {
	var confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(c.title(title)).
				Description("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("password confirmation failed: %w", err)
	}
	return confirm, nil
}

// ShowError implements Provider.
func (c *Console) ShowError(text string) {
	fmt.Fprintln(os.Stderr, errStyle.Render("Error: ")+text)
}

// ShowInfo implements Provider.
func (c *Console) ShowInfo(text string) {
	fmt.Fprintln(os.Stdout, infoStyle.Render(text))
}
