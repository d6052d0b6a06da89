package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Files == nil {
		t.Error("Files map should be initialized")
	}
	if len(s.Files) != 0 {
		t.Error("Files map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "state.json")

	state := NewState()
	state.Files["roadmap.md"] = &FileState{
		MTime:  123456789,
		Hash:   "sha256:abc123",
		Output: "roadmap.html",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(loaded.Files))
	}

	fileState := loaded.Files["roadmap.md"]
	if fileState == nil {
		t.Fatal("File state not found")
	}
	if fileState.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", fileState.MTime)
	}
	if fileState.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", fileState.Hash)
	}
	if fileState.Output != "roadmap.html" {
		t.Errorf("Output mismatch: got %s, want roadmap.html", fileState.Output)
	}
}

func TestLoadNonExistent(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nonexistent.json")

	state, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}
	if state == nil || len(state.Files) != 0 {
		t.Error("State should be empty")
	}
}

func TestLoadCorrupt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}

	if _, err := Load(statePath); err == nil {
		t.Error("Load should fail on corrupt state")
	}
}

func TestComputeHash(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.md")

	if err := os.WriteFile(testFile, []byte("# Hello"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if len(hash) < 7 || hash[:7] != "sha256:" {
		t.Errorf("Hash should start with 'sha256:', got: %s", hash)
	}

	hash2, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Second ComputeHash failed: %v", err)
	}
	if hash != hash2 {
		t.Error("Hash should be deterministic")
	}

	if err := os.WriteFile(testFile, []byte("# Different"), 0644); err != nil {
		t.Fatalf("Failed to update test file: %v", err)
	}
	hash3, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Third ComputeHash failed: %v", err)
	}
	if hash == hash3 {
		t.Error("Hash should change when content changes")
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("# Initial"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()

	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("New file should be marked as changed")
	}

	if err := state.Update(testFile, ""); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Unchanged file should not be marked as changed")
	}

	// Move mtime without touching content
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(testFile, later, later); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after touch: %v", err)
	}
	if changed {
		t.Error("File with only mtime change should not be marked as changed")
	}

	if err := os.WriteFile(testFile, []byte("# New content"), 0644); err != nil {
		t.Fatalf("Failed to update file: %v", err)
	}
	evenLater := later.Add(time.Hour)
	if err := os.Chtimes(testFile, evenLater, evenLater); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after content change: %v", err)
	}
	if !changed {
		t.Error("File with content change should be marked as changed")
	}
}

func TestHasChangedMissingOutput(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "map.md")
	output := filepath.Join(tmpDir, "map.html")

	if err := os.WriteFile(source, []byte("# Map"), 0644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}
	if err := os.WriteFile(output, []byte("<html></html>"), 0644); err != nil {
		t.Fatalf("Failed to create output: %v", err)
	}

	state := NewState()
	if err := state.Update(source, output); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if changed, _ := state.HasChanged(source); changed {
		t.Error("Source with output present should be unchanged")
	}

	if err := os.Remove(output); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}

	if changed, _ := state.HasChanged(source); !changed {
		t.Error("Source whose output was deleted should be marked as changed")
	}
}

func TestHasChangedMissingSource(t *testing.T) {
	state := NewState()

	if _, err := state.HasChanged(filepath.Join(t.TempDir(), "gone.md")); err == nil {
		t.Error("HasChanged should fail for a missing source")
	}
}

func TestForgetAndGetMTime(t *testing.T) {
	state := NewState()

	if mtime := state.GetMTime("nonexistent.md"); !mtime.IsZero() {
		t.Error("MTime for unknown file should be zero")
	}

	state.Files["test.md"] = &FileState{MTime: 1234567890, Hash: "sha256:test"}

	if mtime := state.GetMTime("test.md"); mtime.Unix() != 1234567890 {
		t.Errorf("MTime mismatch: got %d, want 1234567890", mtime.Unix())
	}

	state.Forget("test.md")
	if _, ok := state.Files["test.md"]; ok {
		t.Error("Forget should remove the file")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nested", "dir", "state.json")

	state := NewState()
	state.Files["test.md"] = &FileState{MTime: 123, Hash: "sha256:test"}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}
