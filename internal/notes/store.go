package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps notes and workspaces in memory and rewrites the backing file
// after every change
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
	data document
}

type document struct {
	Notes      []Note      `json:"notes"`
	Workspaces []Workspace `json:"workspaces"`
}

// exportDocument is the Export/Import format
type exportDocument struct {
	Notes      *[]Note      `json:"notes,omitempty"`
	Workspaces *[]Workspace `json:"workspaces,omitempty"`
	ExportedAt time.Time    `json:"exportedAt"`
}

// Open loads the store at path. A missing file starts with the default
// workspaces.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read notes file: %w", err)
	default:
		if err := json.Unmarshal(data, &s.data); err != nil {
			return nil, fmt.Errorf("failed to parse notes file: %w", err)
		}
	}

	if s.data.Workspaces == nil {
		s.data.Workspaces = defaultWorkspaces(s.now())
	}
	return s, nil
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create notes directory: %w", err)
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write notes file: %w", err)
	}
	return nil
}

func (s *Store) noteIndex(id string) int {
	for i, n := range s.data.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) workspaceIndex(id string) int {
	for i, w := range s.data.Workspaces {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// CreateNote adds a note with a fresh ID
func (s *Store) CreateNote(in NoteInput) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspace := in.Workspace
	if workspace == "" {
		workspace = DefaultWorkspace
	}

	now := s.now()
	note := Note{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Content:    in.Content,
		Workspace:  workspace,
		IsFavorite: in.IsFavorite,
		Color:      in.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.data.Notes = append(s.data.Notes, note)
	return note, s.save()
}

// UpdateNote applies the non-nil fields of u
func (s *Store) UpdateNote(id string, u NoteUpdate) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return Note{}, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}

	note := &s.data.Notes[i]
	if u.Title != nil {
		note.Title = *u.Title
	}
	if u.Content != nil {
		note.Content = *u.Content
	}
	if u.Workspace != nil {
		note.Workspace = *u.Workspace
	}
	if u.IsFavorite != nil {
		note.IsFavorite = *u.IsFavorite
	}
	if u.Color != nil {
		note.Color = *u.Color
	}
	note.UpdatedAt = s.now()

	return *note, s.save()
}

// DeleteNote moves a note to the trash
func (s *Store) DeleteNote(id string) error {
	return s.mutateNote(id, func(n *Note, now time.Time) {
		n.DeletedAt = &now
	})
}

// RestoreNote takes a note out of the trash
func (s *Store) RestoreNote(id string) error {
	return s.mutateNote(id, func(n *Note, _ time.Time) {
		n.DeletedAt = nil
	})
}

func (s *Store) mutateNote(id string, fn func(*Note, time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}

	now := s.now()
	fn(&s.data.Notes[i], now)
	s.data.Notes[i].UpdatedAt = now
	return s.save()
}

// PurgeNote removes a note permanently
func (s *Store) PurgeNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	s.data.Notes = append(s.data.Notes[:i], s.data.Notes[i+1:]...)
	return s.save()
}

// GetNote returns a note, deleted or not
func (s *Store) GetNote(id string) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.noteIndex(id)
	if i < 0 {
		return Note{}, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	return s.data.Notes[i], nil
}

func (s *Store) filter(keep func(Note) bool) []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Note
	for _, n := range s.data.Notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Notes returns every note including the trash
func (s *Store) Notes() []Note {
	return s.filter(func(Note) bool { return true })
}

// ActiveNotes returns notes not in the trash
func (s *Store) ActiveNotes() []Note {
	return s.filter(func(n Note) bool { return !n.Deleted() })
}

// DeletedNotes returns the trash
func (s *Store) DeletedNotes() []Note {
	return s.filter(Note.Deleted)
}

// NotesByWorkspace returns active notes of one workspace
func (s *Store) NotesByWorkspace(workspace string) []Note {
	return s.filter(func(n Note) bool { return !n.Deleted() && n.Workspace == workspace })
}

// Favorites returns active favorite notes
func (s *Store) Favorites() []Note {
	return s.filter(func(n Note) bool { return !n.Deleted() && n.IsFavorite })
}

// Search matches active notes whose title or content contains query,
// ignoring case
func (s *Store) Search(query string) []Note {
	q := strings.ToLower(query)
	return s.filter(func(n Note) bool {
		if n.Deleted() {
			return false
		}
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Content), q)
	})
}

// Workspaces returns all workspaces
func (s *Store) Workspaces() []Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Workspace(nil), s.data.Workspaces...)
}

// CreateWorkspace adds an expanded workspace with a fresh ID
func (s *Store) CreateWorkspace(in WorkspaceInput) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := Workspace{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Color:      in.Color,
		Icon:       in.Icon,
		IsExpanded: true,
		CreatedAt:  s.now(),
	}
	s.data.Workspaces = append(s.data.Workspaces, w)
	return w, s.save()
}

// UpdateWorkspace applies the non-nil fields of u
func (s *Store) UpdateWorkspace(id string, u WorkspaceUpdate) (Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.workspaceIndex(id)
	if i < 0 {
		return Workspace{}, fmt.Errorf("workspace %s: %w", id, ErrNotFound)
	}

	w := &s.data.Workspaces[i]
	if u.Name != nil {
		w.Name = *u.Name
	}
	if u.Color != nil {
		w.Color = *u.Color
	}
	if u.Icon != nil {
		w.Icon = *u.Icon
	}
	if u.IsExpanded != nil {
		w.IsExpanded = *u.IsExpanded
	}
	return *w, s.save()
}

// DeleteWorkspace removes a workspace. Its notes keep their workspace ID.
func (s *Store) DeleteWorkspace(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.workspaceIndex(id)
	if i < 0 {
		return fmt.Errorf("workspace %s: %w", id, ErrNotFound)
	}
	s.data.Workspaces = append(s.data.Workspaces[:i], s.data.Workspaces[i+1:]...)
	return s.save()
}

// Export returns every note and workspace as indented JSON
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := append([]Note{}, s.data.Notes...)
	workspaces := append([]Workspace{}, s.data.Workspaces...)
	return json.MarshalIndent(exportDocument{
		Notes:      &notes,
		Workspaces: &workspaces,
		ExportedAt: s.now().UTC(),
	}, "", "  ")
}

// Import replaces the notes and workspaces present in data.
// Sections missing from data are left untouched.
func (s *Store) Import(data []byte) error {
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.Notes != nil {
		s.data.Notes = *doc.Notes
	}
	if doc.Workspaces != nil {
		s.data.Workspaces = *doc.Workspaces
	}
	return s.save()
}
