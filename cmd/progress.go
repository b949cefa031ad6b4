package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressFrameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	progressLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type progressDoneMsg struct {
	err error
}

// progressModel animates a one-line spinner on stderr while a network
// call runs. Slow calls grow an elapsed-seconds suffix so the user can
// tell a stall from a hang.
type progressModel struct {
	spinner   spinner.Model
	label     string
	work      tea.Cmd
	startedAt time.Time
	elapsed   time.Duration
	err       error
	done      bool
}

func newProgressModel(label string, work tea.Cmd, startedAt time.Time) progressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(progressFrameStyle),
	)

	return progressModel{
		spinner:   s,
		label:     label,
		work:      work,
		startedAt: startedAt,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.elapsed = msg.Time.Sub(m.startedAt)
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progressDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), progressLabelStyle.Render(m.label))
	if m.elapsed >= 2*time.Second {
		line += progressLabelStyle.Render(fmt.Sprintf(" (%ds)", int(m.elapsed.Seconds())))
	}
	return line
}

func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	workCmd := func() tea.Msg {
		return progressDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newProgressModel(label, workCmd, time.Now()),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(progressModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.err
}
