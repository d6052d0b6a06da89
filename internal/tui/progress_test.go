package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestProgressModelCompletes(t *testing.T) {
	m := InitProgressModel("Generating mindmap")
	assert.Contains(t, m.View(), "Generating mindmap")

	updated, cmd := m.Update(TaskDoneMsg{Output: "# A", Duration: 1200 * time.Millisecond})
	m = updated.(progressModel)

	if assert.NotNil(t, cmd) {
		assert.Equal(t, tea.Quit(), cmd())
	}
	assert.True(t, m.complete)
	assert.Equal(t, "# A", m.result.Output)
	assert.Contains(t, m.View(), "✓ Generating mindmap")
	assert.Contains(t, m.View(), "Completed in 1.2s")
}

func TestProgressModelFailure(t *testing.T) {
	updated, _ := InitProgressModel("Generating mindmap").Update(TaskDoneMsg{Err: errors.New("boom")})
	assert.Contains(t, updated.(progressModel).View(), "✗ Generating mindmap failed")
}

func TestProgressModelCancel(t *testing.T) {
	updated, cmd := InitProgressModel("Generating mindmap").Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := updated.(progressModel)

	assert.True(t, m.canceled)
	if assert.NotNil(t, cmd) {
		assert.Equal(t, tea.Quit(), cmd())
	}
}
