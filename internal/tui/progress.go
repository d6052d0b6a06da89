package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/marky/internal/styles"
)

// TaskResult holds the outcome of a long running task
type TaskResult struct {
	Output   string
	Err      error
	Duration time.Duration
}

// TaskDoneMsg is sent when the task completes
type TaskDoneMsg TaskResult

// progressModel shows a spinner while a task runs
type progressModel struct {
	spinner  spinner.Model
	status   string
	start    time.Time
	complete bool
	result   TaskResult
	canceled bool
}

// InitProgressModel creates a new progress model
func InitProgressModel(status string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return progressModel{
		spinner: s,
		status:  status,
		start:   time.Now(),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.canceled = true
			return m, tea.Quit
		}

	case TaskDoneMsg:
		m.complete = true
		m.result = TaskResult(msg)
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.canceled {
		return styles.DimStyle.Render("Canceled") + "\n"
	}

	if m.complete {
		took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", m.result.Duration.Round(time.Millisecond)))
		if m.result.Err != nil {
			return styles.ErrorStyle.Render("✗ "+m.status+" failed") + "\n" + took + "\n"
		}
		return styles.SuccessStyle.Render("✓ "+m.status) + "\n" + took + "\n"
	}

	return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
}

// ErrCanceled is returned by RunTask when the user quits before the task ends
var ErrCanceled = errors.New("canceled")

// RunTask runs fn while showing a spinner with status on the terminal
func RunTask(status string, fn func() (string, error)) (string, error) {
	p := tea.NewProgram(InitProgressModel(status))

	go func() {
		start := time.Now()
		out, err := fn()
		p.Send(TaskDoneMsg{Output: out, Err: err, Duration: time.Since(start)})
	}()

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m := final.(progressModel)
	if m.canceled {
		return "", ErrCanceled
	}
	return m.result.Output, m.result.Err
}
