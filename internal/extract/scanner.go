package extract

import "strings"

const (
	jsonQuotes = `"`
	jsQuotes   = "\"'`"
)

// scanner walks text one byte at a time tracking delimiter depth.
// Delimiters inside string literals are ignored; a backslash inside a
// string escapes the next byte. All delimiters are ASCII, so walking
// bytes is safe for UTF-8 input.
type scanner struct {
	open   byte
	close  byte
	quotes string
}

var (
	braceScanner = scanner{open: '{', close: '}', quotes: jsonQuotes}
	parenScanner = scanner{open: '(', close: ')', quotes: jsQuotes}
)

// match returns the end (exclusive) of the balanced group starting at start.
// s[start] must be the opening delimiter.
func (sc scanner) match(s string, start int) (int, bool) {
	if start < 0 || start >= len(s) || s[start] != sc.open {
		return 0, false
	}

	depth := 0
	var quote byte
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch {
		case strings.IndexByte(sc.quotes, c) >= 0:
			quote = c
		case c == sc.open:
			depth++
		case c == sc.close:
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}

	return 0, false
}

// extractObject returns the balanced {...} literal at or after start,
// skipping leading whitespace
func extractObject(s string, start int) (string, bool) {
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end, ok := braceScanner.match(s, start)
	if !ok {
		return "", false
	}
	return s[start:end], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
