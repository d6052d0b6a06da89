package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/marky/internal/styles"
	"github.com/gerunddev/marky/internal/watch"
)

// WatchData holds the watch loop status shown by the dashboard
type WatchData struct {
	Sources    []string
	Interval   time.Duration
	StartTime  time.Time
	Passes     int
	Converted  int
	LastResult *watch.Result
	LogLines   []string
}

// WatchMsg is sent after every watch pass
type WatchMsg struct {
	Data *WatchData
	Err  error
}

type watchModel struct {
	data  *WatchData
	err   error
	ready bool
}

// InitWatchModel creates a new watch dashboard model
func InitWatchModel() watchModel {
	return watchModel{}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case WatchMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Marky Watch Dashboard"))
	b.WriteString("\n\n")

	if !m.ready || m.data == nil {
		b.WriteString(styles.DimStyle.Render("Waiting for the first pass..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.LabelStyle.Render("Watcher"))
	b.WriteString("\n")
	uptime := time.Since(m.data.StartTime).Round(time.Second)
	b.WriteString(fmt.Sprintf("  Sources:  %s\n", styles.ValueStyle.Render(strings.Join(m.data.Sources, ", "))))
	b.WriteString(fmt.Sprintf("  Interval: %s\n", styles.ValueStyle.Render(m.data.Interval.String())))
	b.WriteString(fmt.Sprintf("  Uptime:   %s\n", styles.ValueStyle.Render(uptime.String())))
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Conversions"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Passes:          %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", m.data.Passes))))
	b.WriteString(fmt.Sprintf("  Files converted: %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", m.data.Converted))))

	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s\n", styles.ErrorStyle.Render("✗ Last pass failed: "+m.err.Error())))
	} else if r := m.data.LastResult; r != nil {
		since := time.Since(r.EndTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Last pass:       %s ago\n", styles.ValueStyle.Render(since.String())))
		if len(r.Errors) == 0 {
			b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render(fmt.Sprintf("✓ %d converted, %d unchanged", len(r.Processed), r.Skipped))))
		} else {
			b.WriteString(fmt.Sprintf("  %s\n", styles.ErrorStyle.Render(fmt.Sprintf("✗ %d error(s)", len(r.Errors)))))
			for _, err := range r.Errors {
				b.WriteString("    " + styles.DimStyle.Render(err.Error()) + "\n")
			}
		}
		for _, path := range r.Processed {
			b.WriteString("    " + styles.HighlightStyle.Render("→ "+path) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.HelpStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit"))
	b.WriteString("\n")

	return b.String()
}
