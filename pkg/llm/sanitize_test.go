package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", "<p>Hello</p>", "<p>Hello</p>"},
		{"html fence", "```html\n<p>Hello</p>\n```", "<p>Hello</p>"},
		{"bare fence", "```\n<ul><li>a</li></ul>\n```\n", "<ul><li>a</li></ul>"},
		{"indented fence with crlf", "  ```html\r\n<p>x</p>\r\n  ```", "<p>x</p>"},
		{"text around fence", "Here you go:\n```html\n<p>x</p>\n```\nEnjoy", "Here you go:\n<p>x</p>\nEnjoy"},
		{"inline backticks kept", "Use `make build` to compile", "Use `make build` to compile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}
