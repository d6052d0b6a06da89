package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "Branding System", "Branding System"},
		{"quotes", "&quot;quoted&quot; and &apos;single&apos;", `"quoted" and 'single'`},
		{"right single quote", "it&#x2019;s", "it's"},
		{"decoded brackets read as a tag", "a &lt; b &gt; c", "a  c"},
		{"inline code", "run <code>go test</code> now", "run `go test` now"},
		{"strip tags", "<strong>Outcomes:</strong> <em>ship</em>", "Outcomes: ship"},
		{"links lose markup", `<a href="https://example.com">docs</a>`, "docs"},
		{"escaped tags are stripped after decoding", "&lt;b&gt;bold&lt;/b&gt;", "bold"},
		{"lone angle bracket survives", "a < b", "a < b"},
		{"other entities untouched", "Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"entity revealed by tag removal", "&q<i>uot;", `"`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.raw))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"&quot;hello&quot;",
		"&lt;code&gt;x&lt;/code&gt;",
		"&amp;lt;b&amp;gt;",
		"&q<i>uot;<b>",
		"<<code>>",
		"&lt;<x>lt;",
		"nested <span><code>a</code></span> end",
		"&#x2019;&apos;&quot;&lt;&gt;",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}
