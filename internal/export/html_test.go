package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/marky/internal/convert"
	"github.com/gerunddev/marky/internal/extract"
	"github.com/gerunddev/marky/internal/tree"
)

func TestToPureNode(t *testing.T) {
	t.Run("single root is used directly", func(t *testing.T) {
		root := ToPureNode(convert.Parse("# A\n## B"))
		assert.Equal(t, "A", root.Content)
		require.Len(t, root.Children, 1)
		assert.Equal(t, "B", root.Children[0].Content)
		assert.Equal(t, &Payload{Fold: 0}, root.Payload)
	})

	t.Run("several roots are wrapped", func(t *testing.T) {
		root := ToPureNode(convert.Parse("# A\n# B"))
		assert.Equal(t, "", root.Content)
		require.Len(t, root.Children, 2)
		assert.Equal(t, "A", root.Children[0].Content)
		assert.Equal(t, "B", root.Children[1].Content)
	})

	t.Run("empty forest", func(t *testing.T) {
		root := ToPureNode(nil)
		assert.Equal(t, "Empty Mindmap", root.Content)
		assert.Empty(t, root.Children)
	})
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"plain", "plain"},
		{"a < b", "a &lt; b"},
		{`say "hi"`, "say &quot;hi&quot;"},
		{"it's", "it&apos;s"},
		{"run `go test` now", "run <code>go test</code> now"},
		{"`<b>`", "<code>&lt;b&gt;</code>"},
		{"lone ` tick", "lone ` tick"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeText(tt.text), "text %q", tt.text)
	}
}

func TestHTMLPage(t *testing.T) {
	page, err := HTML(convert.Parse("# A\n## B"), Options{
		Title:   "Plan <draft>",
		Markmap: &convert.MarkmapOptions{ColorFreezeLevel: 2},
	})
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Plan &lt;draft&gt;</title>")
	assert.Contains(t, page, `const jsonOptions = {"colorFreezeLevel":2};`)
	assert.Contains(t, page, `const root = {"content":"A","children":[{"content":"B","children":[],"payload":{"fold":0}}],"payload":{"fold":0}};`)
	assert.Contains(t, page, `window.mm = markmap.Markmap.create("svg#mindmap", options, root);`)
	assert.Contains(t, page, `<svg id="mindmap"></svg>`)
	for _, src := range Scripts {
		assert.Contains(t, page, src)
	}
}

func TestHTMLDefaults(t *testing.T) {
	page, err := HTML(nil, Options{})
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Markmap</title>")
	assert.Contains(t, page, "const jsonOptions = {};")
	assert.Contains(t, page, `const root = {"content":"Empty Mindmap","children":[]};`)
}

func TestDocumentUsesFrontMatter(t *testing.T) {
	doc := convert.ParseDocument("---\ntitle: From Front Matter\nmarkmap:\n  maxWidth: 300\n---\n# A")

	page, err := Document(doc, Options{Title: "ignored"})
	require.NoError(t, err)

	assert.Contains(t, page, "<title>From Front Matter</title>")
	assert.Contains(t, page, `const jsonOptions = {"maxWidth":300};`)
}

func TestExportExtractRoundtrip(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
	}{
		{
			name:     "single root",
			markdown: "# Web \"dev\"\nintro it's\n## Frontend\n### React\n- `useState` hooks\n  - a < b\n- components\n## Backend",
		},
		{
			name:     "several roots",
			markdown: "# First\n## Child\n# Second\n- item",
		},
		{
			name:     "deep lists",
			markdown: "# A\n## B\n### C\n- d\n  - e\n    - f\n      - g",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := convert.Parse(tt.markdown)

			page, err := HTML(forest, Options{})
			require.NoError(t, err)

			result, err := extract.Extract(page)
			require.NoError(t, err)
			assert.Equal(t, extract.DirectAssignment, result.Strategy)
			assert.Equal(t, tree.Outline(forest), tree.Outline(result.Roots))
			assert.Equal(t, convert.Serialize(forest), result.Markdown)
		})
	}
}

func TestExportExtractEmpty(t *testing.T) {
	page, err := HTML(nil, Options{})
	require.NoError(t, err)

	md, err := extract.ExtractMarkdown(page)
	require.NoError(t, err)
	assert.Equal(t, "", md)
}
