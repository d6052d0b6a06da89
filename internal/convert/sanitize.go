package convert

import (
	"regexp"
	"strings"
)

// entityReplacer decodes the entities markmap emits for node content
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&apos;", "'",
	"&#x2019;", "'",
	"&lt;", "<",
	"&gt;", ">",
)

var codeReplacer = strings.NewReplacer(
	"<code>", "`",
	"</code>", "`",
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Sanitize turns HTML node content back into markdown text: a fixed set of
// entities is decoded, <code> spans become backticks and remaining tags are
// stripped. Every pass only shortens the text, so it is repeated until
// nothing changes and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	text := raw
	for {
		next := sanitizeOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func sanitizeOnce(text string) string {
	text = entityReplacer.Replace(text)
	text = codeReplacer.Replace(text)
	return tagPattern.ReplaceAllString(text, "")
}
