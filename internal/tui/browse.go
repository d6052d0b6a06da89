package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/gerunddev/marky/internal/styles"
	"github.com/gerunddev/marky/internal/tree"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// detailHeight is the number of text lines shown for the selected node
	detailHeight = 6
)

// visibleNode is one row of the browser
type visibleNode struct {
	node   *tree.Node
	depth  int
	parent int // index of the parent row, -1 for roots
}

type browseModel struct {
	title    string
	forest   tree.Forest
	rows     []visibleNode
	cursor   int
	offset   int
	viewport viewport.Model
	width    int
	height   int
}

// InitBrowseModel creates a tree browser over forest.
// The browser toggles the nodes' Expanded flags in place.
func InitBrowseModel(title string, forest tree.Forest) browseModel {
	vp := viewport.New(defaultWidth-4, detailHeight)
	vp.Style = styles.DetailStyle

	m := browseModel{
		title:    title,
		forest:   forest,
		viewport: vp,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.refresh()
	return m
}

// visibleRows flattens the forest, descending only into expanded nodes
func visibleRows(forest tree.Forest) []visibleNode {
	var rows []visibleNode
	var add func(n *tree.Node, depth, parent int)
	add = func(n *tree.Node, depth, parent int) {
		rows = append(rows, visibleNode{node: n, depth: depth, parent: parent})
		if !n.Expanded {
			return
		}
		idx := len(rows) - 1
		for _, child := range n.Children {
			add(child, depth+1, idx)
		}
	}
	for _, root := range forest {
		add(root, 0, -1)
	}
	return rows
}

// refresh rebuilds the rows after an expand or collapse and keeps the
// cursor on the same node where possible
func (m *browseModel) refresh() {
	var selected *tree.Node
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].node
	}

	m.rows = visibleRows(m.forest)
	m.cursor = 0
	for i, row := range m.rows {
		if row.node == selected {
			m.cursor = i
			break
		}
	}
	m.syncDetail()
}

func (m *browseModel) selected() *visibleNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *browseModel) syncDetail() {
	row := m.selected()
	if row == nil {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(wordwrap.String(row.node.Text, max(m.viewport.Width-4, 10)))
	m.viewport.GotoTop()
}

// listHeight is the number of tree rows that fit above the detail pane
func (m *browseModel) listHeight() int {
	h := m.height - detailHeight - 7
	if h < 3 {
		h = 3
	}
	return h
}

func (m *browseModel) moveTo(idx int) {
	if len(m.rows) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.rows) {
		idx = len(m.rows) - 1
	}
	m.cursor = idx

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h := m.listHeight(); m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.syncDetail()
}

func (m *browseModel) setExpanded(expanded bool) {
	row := m.selected()
	if row == nil || !row.node.HasChildren() {
		return
	}
	row.node.Expanded = expanded
	m.refresh()
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.moveTo(m.cursor)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.cursor - 1)
		case "down", "j":
			m.moveTo(m.cursor + 1)
		case "g", "home":
			m.moveTo(0)
		case "G", "end":
			m.moveTo(len(m.rows) - 1)
		case "enter", " ":
			if row := m.selected(); row != nil {
				m.setExpanded(!row.node.Expanded)
			}
		case "l", "right":
			m.setExpanded(true)
		case "h", "left":
			row := m.selected()
			if row == nil {
				break
			}
			if row.node.HasChildren() && row.node.Expanded {
				m.setExpanded(false)
			} else if row.parent >= 0 {
				m.moveTo(row.parent)
			}
		case "E":
			tree.SetExpanded(m.forest, true)
			m.refresh()
			m.moveTo(m.cursor)
		case "C":
			tree.SetExpanded(m.forest, false)
			m.refresh()
			m.moveTo(m.cursor)
		case "pgdown", "J":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(tea.KeyMsg{Type: tea.KeyDown})
			return m, cmd
		case "pgup", "K":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(tea.KeyMsg{Type: tea.KeyUp})
			return m, cmd
		}
	}

	return m, nil
}

// marker returns the expand indicator for a node
func marker(n *tree.Node) string {
	switch {
	case !n.HasChildren():
		return "•"
	case n.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d nodes, depth %d", tree.Count(m.forest), tree.MaxDepth(m.forest)+1)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.DimStyle.Render("  Empty mindmap"))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q quit"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.listHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		first, _, _ := strings.Cut(row.node.Text, "\n")
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", row.depth), marker(row.node), first)
		line = truncate.StringWithTail(line, uint(max(m.width-2, 10)), "…")

		if i == m.cursor {
			b.WriteString(styles.SelectedStyle.Render(line))
		} else {
			b.WriteString(styles.DepthStyle(row.depth).Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/k ↓/j move • enter toggle • l/h expand/collapse • E/C all • J/K scroll text • q quit"))
	b.WriteString("\n")

	return b.String()
}

// Browse runs the tree browser until the user quits
func Browse(title string, forest tree.Forest) error {
	p := tea.NewProgram(InitBrowseModel(title, forest), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
