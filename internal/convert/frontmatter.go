package convert

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// FrontMatter is the optional YAML preamble of a mindmap document.
// It only carries rendering options and never affects the tree.
type FrontMatter struct {
	Title   string          `yaml:"title,omitempty"`
	Markmap *MarkmapOptions `yaml:"markmap,omitempty"`
}

// MarkmapOptions are the rendering options understood by markmap
type MarkmapOptions struct {
	ColorFreezeLevel   int `yaml:"colorFreezeLevel,omitempty" json:"colorFreezeLevel,omitempty"`
	InitialExpandLevel int `yaml:"initialExpandLevel,omitempty" json:"initialExpandLevel,omitempty"`
	MaxWidth           int `yaml:"maxWidth,omitempty" json:"maxWidth,omitempty"`
}

// Render returns the front matter block including delimiters and a trailing blank line
func (fm *FrontMatter) Render() string {
	if fm == nil {
		return ""
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(frontMatterDelimiter + "\n")
	b.Write(data)
	b.WriteString(frontMatterDelimiter + "\n\n")
	return b.String()
}

// extractFrontMatter splits a leading front matter block from the body lines.
// Returns nil and the original lines unless the block is a YAML mapping.
func extractFrontMatter(lines []string) (*FrontMatter, []string) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) || strings.TrimSpace(lines[start]) != frontMatterDelimiter {
		return nil, lines
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, lines
	}

	// a leading horizontal rule followed by headings parses as a YAML
	// comment, so only a mapping counts as front matter
	var node yaml.Node
	yamlContent := strings.Join(lines[start+1:end], "\n")
	if err := yaml.Unmarshal([]byte(yamlContent), &node); err != nil {
		return nil, lines
	}
	if len(node.Content) != 1 || node.Content[0].Kind != yaml.MappingNode {
		return nil, lines
	}

	var fm FrontMatter
	if err := node.Decode(&fm); err != nil {
		return nil, lines
	}

	return &fm, lines[end+1:]
}
