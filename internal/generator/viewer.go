package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

// ShowDiff writes diff to w. When w is the terminal and the diff does not
// fit on one screen, a scrollable viewer is opened instead.
func ShowDiff(w io.Writer, title, diff string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, diff)
		return err
	}
	_, height, err := term.GetSize(int(f.Fd()))
	if err != nil || strings.Count(diff, "\n") < height-2 {
		_, err := io.WriteString(w, diff)
		return err
	}

	p := tea.NewProgram(newDiffViewerModel(title, diff), tea.WithOutput(f), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// diffViewerModel is the BubbleTea model for paging through a diff
type diffViewerModel struct {
	title    string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(title, diff string) diffViewerModel {
	return diffViewerModel{title: title, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		}

	case tea.WindowSizeMsg:
		const chrome = 2 // header + footer
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(msg.Height-chrome, 1))
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(msg.Height-chrome, 1)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := borderStyle.Render(fmt.Sprintf("─ %s ", m.title) + strings.Repeat("─", max(0, m.viewport.Width-len(m.title)-3)))
	footer := borderStyle.Render(fmt.Sprintf(" %3.f%%  [↑/↓ pgup/pgdn] scroll  [q] quit", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}
