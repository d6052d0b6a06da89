// Package notes stores mindmap notes and their workspaces in a JSON file.
package notes

import (
	"errors"
	"time"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/tree"
)

var ErrNotFound = errors.New("not found")

// Note is a titled mindmap document
type Note struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Workspace  string     `json:"workspace"`
	IsFavorite bool       `json:"isFavorite"`
	Color      string     `json:"color,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// Deleted reports whether the note is in the trash
func (n Note) Deleted() bool {
	return n.DeletedAt != nil
}

// Tree parses the note content
func (n Note) Tree() tree.Forest {
	return convert.Parse(n.Content)
}

// Workspace groups notes
type Workspace struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	Icon       string    `json:"icon,omitempty"`
	IsExpanded bool      `json:"isExpanded"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NoteInput holds the fields of a new note
type NoteInput struct {
	Title      string
	Content    string
	Workspace  string
	IsFavorite bool
	Color      string
}

// NoteUpdate changes the non-nil fields of a note
type NoteUpdate struct {
	Title      *string
	Content    *string
	Workspace  *string
	IsFavorite *bool
	Color      *string
}

// WorkspaceInput holds the fields of a new workspace
type WorkspaceInput struct {
	Name  string
	Color string
	Icon  string
}

// WorkspaceUpdate changes the non-nil fields of a workspace
type WorkspaceUpdate struct {
	Name       *string
	Color      *string
	Icon       *string
	IsExpanded *bool
}

// DefaultWorkspace is used for notes created without one
const DefaultWorkspace = "personal"

func defaultWorkspaces(now time.Time) []Workspace {
	return []Workspace{
		{ID: "personal", Name: "Personal", Color: "#3b82f6", IsExpanded: true, CreatedAt: now},
		{ID: "work", Name: "Work", Color: "#10b981", IsExpanded: true, CreatedAt: now},
	}
}
