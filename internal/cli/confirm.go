package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	confirmMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type confirmModel struct {
	name        string
	destination string
	answer      bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "q", "ctrl+c":
		m.answer = false
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	return fmt.Sprintf("%s already exists at %s\n%s",
		confirmNameStyle.Render(m.name),
		m.destination,
		confirmMutedStyle.Render("overwrite? [y/N] "))
}

// confirmOverwrite asks whether an existing artifact may be replaced.
// Anything other than an explicit yes, including EOF and a non-interactive
// stdin, keeps the existing artifact.
func confirmOverwrite(name, destination string) bool {
	if !stdinIsTTY() {
		fmt.Fprintf(os.Stderr, "%s already exists at %s; keeping it (use --force to overwrite)\n", name, destination)
		return false
	}
	p := tea.NewProgram(confirmModel{name: name, destination: destination})
	final, err := p.Run()
	if err != nil {
		return confirmLine(name, destination)
	}
	m, ok := final.(confirmModel)
	return ok && m.answer
}

// confirmLine is the plain readline fallback used when the TUI cannot start,
// e.g. inside a pipe that still reports as a terminal.
func confirmLine(name, destination string) bool {
	fmt.Printf("%s already exists at %s\noverwrite? [y/N] ", name, destination)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
