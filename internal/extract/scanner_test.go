package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScannerMatch(t *testing.T) {
	tests := []struct {
		name    string
		scanner scanner
		input   string
		start   int
		wantEnd int
		wantOK  bool
	}{
		{"simple object", braceScanner, `{"a":1} tail`, 0, 7, true},
		{"nested object", braceScanner, `{"a":{"b":{}}}`, 0, 14, true},
		{"brace in string", braceScanner, `{"a":"}"}`, 0, 9, true},
		{"escaped quote in string", braceScanner, `{"a":"\"}"}`, 0, 11, true},
		{"escaped backslash", braceScanner, `{"a":"\\"}`, 0, 10, true},
		{"unbalanced", braceScanner, `{{}`, 0, 0, false},
		{"start not on opener", braceScanner, `x{}`, 0, 0, false},
		{"start out of range", braceScanner, `{}`, 5, 0, false},
		{"offset start", braceScanner, `a = {}`, 4, 6, true},
		{"single quoted paren", parenScanner, `(a, ')')`, 0, 8, true},
		{"template literal paren", parenScanner, "(`(`)", 0, 5, true},
		{"multibyte text", braceScanner, `{"a":"héllo ✓"}`, 0, len(`{"a":"héllo ✓"}`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, ok := tt.scanner.match(tt.input, tt.start)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestExtractObjectSkipsWhitespace(t *testing.T) {
	literal, ok := extractObject("const root =  \n {\"content\":\"x\"};", 12)
	assert.True(t, ok)
	assert.Equal(t, `{"content":"x"}`, literal)
}
