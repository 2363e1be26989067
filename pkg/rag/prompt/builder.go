package prompt

import (
	"strings"

	"onboarding-buddy-be/internal/constant"
)

// SystemPromptBuilder assembles the system prompt from the session's rendered
// training context and the fixed response rules.
type SystemPromptBuilder struct {
	persona    string
	formatting string
	closedBook string
}

func NewSystemPromptBuilder() *SystemPromptBuilder {
	return &SystemPromptBuilder{
		persona:    constant.DefaultAssistantPersona,
		formatting: constant.ResponseFormattingRules,
		closedBook: constant.ClosedBookRules,
	}
}

// Build returns the training context (or the default persona when there is
// none) followed by the formatting and closed-book sections. The result is
// never empty.
func (b *SystemPromptBuilder) Build(trainingContext string) string {
	var prompt strings.Builder

	b.writeBase(&prompt, trainingContext)
	prompt.WriteString("\n\n")
	prompt.WriteString(b.formatting)
	prompt.WriteString("\n\n")
	prompt.WriteString(b.closedBook)

	return prompt.String()
}

func (b *SystemPromptBuilder) writeBase(prompt *strings.Builder, trainingContext string) {
	if strings.TrimSpace(trainingContext) == "" {
		prompt.WriteString(b.persona)
		return
	}
	prompt.WriteString(trainingContext)
}
