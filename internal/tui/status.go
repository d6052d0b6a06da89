package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/marky/internal/state"
	"github.com/gerunddev/marky/internal/styles"
)

// TrackedFile is one converted source recorded in the state file
type TrackedFile struct {
	Source    string
	Output    string
	Converted time.Time
	Status    string // "synced", "pending", "missing"
}

// Tracked file statuses
const (
	StatusSynced  = "synced"
	StatusPending = "pending"
	StatusMissing = "missing"
)

// TrackedFiles lists every source in st with its current status, sorted by path
func TrackedFiles(st *state.State) []TrackedFile {
	files := make([]TrackedFile, 0, len(st.Files))
	for source, fs := range st.Files {
		tf := TrackedFile{
			Source:    source,
			Output:    fs.Output,
			Converted: st.GetMTime(source),
			Status:    StatusSynced,
		}

		if _, err := os.Stat(source); os.IsNotExist(err) {
			tf.Status = StatusMissing
		} else if changed, err := st.HasChanged(source); err != nil || changed {
			tf.Status = StatusPending
		}

		files = append(files, tf)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Source < files[j].Source
	})
	return files
}

func statusText(status string) string {
	switch status {
	case StatusSynced:
		return "✓ synced"
	case StatusPending:
		return "→ pending"
	default:
		return "✗ missing"
	}
}

const (
	// headerLines is the table header plus its bottom border, which
	// table.WithHeight counts
	headerLines = 2

	maxTableRows = 15

	// statusChrome is everything the view draws around the table
	statusChrome = 12
)

// tableHeight fits rows into at most limit visible rows, keeping at least one
func tableHeight(rows, limit int) int {
	visible := min(rows, limit)
	return max(visible, 1) + headerLines
}

type statusModel struct {
	table     table.Model
	files     []TrackedFile
	statePath string
}

// InitStatusModel creates a table of the tracked files
func InitStatusModel(statePath string, files []TrackedFile) statusModel {
	columns := []table.Column{
		{Title: "Source", Width: 40},
		{Title: "Output", Width: 30},
		{Title: "Converted", Width: 19},
		{Title: "Status", Width: 12},
	}

	rows := make([]table.Row, 0, len(files))
	for _, f := range files {
		rows = append(rows, table.Row{
			f.Source,
			filepath.Base(f.Output),
			f.Converted.Format(time.DateTime),
			statusText(f.Status),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight(len(rows), maxTableRows)),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		table:     t,
		files:     files,
		statePath: statePath,
	}
}

func (m statusModel) Init() tea.Cmd {
	return nil
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		limit := min(msg.Height-statusChrome-headerLines, maxTableRows)
		m.table.SetHeight(tableHeight(len(m.files), limit))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// counts returns the number of files per status
func (m statusModel) counts() (synced, pending, missing int) {
	for _, f := range m.files {
		switch f.Status {
		case StatusSynced:
			synced++
		case StatusPending:
			pending++
		default:
			missing++
		}
	}
	return synced, pending, missing
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Marky Status"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  State file: %s\n", styles.ValueStyle.Render(m.statePath)))
	b.WriteString("\n")

	if len(m.files) == 0 {
		b.WriteString(styles.DimStyle.Render("  No tracked files. Run 'marky watch' to start converting."))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q quit"))
		b.WriteString("\n")
		return b.String()
	}

	synced, pending, missing := m.counts()
	b.WriteString(styles.LabelStyle.Render("Tracked Files"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		styles.SuccessStyle.Render(fmt.Sprintf("%d synced", synced)),
		styles.HighlightStyle.Render(fmt.Sprintf("%d pending", pending)),
		styles.ErrorStyle.Render(fmt.Sprintf("%d missing", missing))))
	b.WriteString("\n")

	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • q quit"))
	b.WriteString("\n")

	return b.String()
}
