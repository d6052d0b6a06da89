package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{"already canonical", "# A\n## B\n", "# A\n## B\n"},
		{"deep headings become list items", "# A\n## B\n### C\n#### D", "# A\n## B\n### C\n\n- D\n"},
		{"list markers normalized", "# A\n* x\n+ y\n1. z", "# A\n## x\n## y\n## z\n"},
		{"blank lines dropped", "# A\n\n\n## B\n\n", "# A\n## B\n"},
		{"front matter kept", "---\ntitle: T\n---\n# A", "---\ntitle: T\n---\n\n# A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.md))
		})
	}
}

func TestUnifiedEqual(t *testing.T) {
	assert.Equal(t, "", Unified("a.md", "# A\n", "# A\n"))
	assert.Equal(t, "", Check("a.md", "# A\n## B\n"))
	assert.Equal(t, "", Render(""))
}

func TestUnifiedChanges(t *testing.T) {
	unified := Check("notes.md", "# A\n* x\n")

	assert.Contains(t, unified, "--- notes.md")
	assert.Contains(t, unified, "+++ notes.md (normalized)")
	assert.Contains(t, unified, "-* x")
	assert.Contains(t, unified, "+## x")
}

func TestRenderFallsBackToFence(t *testing.T) {
	unified := Unified("a.md", "old\n", "new\n")

	rendered := Render(unified)
	assert.NotEmpty(t, rendered)
	assert.Contains(t, rendered, "new")
}
