package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned by RunLoader when the user aborts with ctrl+c.
var ErrCancelled = errors.New("cancelled")

// LoadFunc produces the snapshot shown by the viewer.
type LoadFunc func(ctx context.Context) (Snapshot, error)

type loadDoneMsg struct {
	snap Snapshot
	err  error
}

type loaderModel struct {
	label   string
	load    LoadFunc
	timeout time.Duration
	spinner spinner.Model
	result  Snapshot
	err     error
	done    bool
}

func newLoader(label string, load LoadFunc, timeout time.Duration) loaderModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{label: label, load: load, timeout: timeout, spinner: sp}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doLoad(), m.spinner.Tick)
}

func (m loaderModel) doLoad() tea.Cmd {
	load, timeout := m.load, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := load(ctx)
		return loadDoneMsg{snap: snap, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.snap
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), m.label)
}

// RunLoader shows a spinner while load runs. It renders inline (no alt screen).
func RunLoader(label string, load LoadFunc, timeout time.Duration) (Snapshot, error) {
	p := tea.NewProgram(newLoader(label, load, timeout))
	result, err := p.Run()
	if err != nil {
		return Snapshot{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
