package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"onboarding-buddy-be/internal/constant"
)

func TestSystemPromptBuilder_Build(t *testing.T) {
	b := NewSystemPromptBuilder()

	tests := []struct {
		name     string
		context  string
		wantBase string
	}{
		{"empty context uses persona", "", constant.DefaultAssistantPersona},
		{"whitespace context uses persona", "  \n\t ", constant.DefaultAssistantPersona},
		{"context is used verbatim", "**Benefits** (Category: HR)\nDental is covered.", "**Benefits** (Category: HR)\nDental is covered."},
		{"surrounding whitespace is kept", "\n  **Benefits**\nDental is covered.\n\n", "\n  **Benefits**\nDental is covered.\n\n\n\n" + constant.ResponseFormattingRules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Build(tt.context)

			assert.True(t, strings.HasPrefix(got, tt.wantBase))
			assert.Contains(t, got, constant.ResponseFormattingRules)
			assert.True(t, strings.HasSuffix(got, constant.ClosedBookRules))
			assert.Less(t, strings.Index(got, constant.ResponseFormattingRules), strings.Index(got, constant.ClosedBookRules))
		})
	}
}
