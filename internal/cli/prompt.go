package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// ErrPromptCancelled is returned when the user leaves a prompt
var ErrPromptCancelled = errors.New("prompt cancelled")

type passwordModel struct {
	input     textinput.Model
	title     string
	submitted bool
	quitting  bool
}

func newPasswordModel(title string) passwordModel {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = "> "
	ti.Focus()
	return passwordModel{input: ti, title: title}
}

func (m passwordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m passwordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			m.submitted = true
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m passwordModel) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("enter: confirm • esc/ctrl+c: cancel")
	return fmt.Sprintf("%s\n%s\n%s\n", titleStyle.Render(m.title), m.input.View(), help)
}

// PromptPassword asks for a password on the terminal without echoing it
func PromptPassword(account string) (string, error) {
	m := newPasswordModel(fmt.Sprintf("Password for %s", account))

	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("error running password prompt: %w", err)
	}

	result := finalModel.(passwordModel)
	if !result.submitted {
		return "", ErrPromptCancelled
	}
	return result.input.Value(), nil
}
