package factory

import (
	"fmt"

	"onboarding-buddy-be/pkg/llm"
	"onboarding-buddy-be/pkg/llm/chatstyle"
	"onboarding-buddy-be/pkg/llm/instructions"
	"onboarding-buddy-be/pkg/llm/systemfield"
)

// NewPayloadBuilder returns the builder for a family. refreshInstruction is
// only used by families that continue server-side conversations.
func NewPayloadBuilder(family llm.Family, settings llm.Settings, refreshInstruction string) (llm.PayloadBuilder, error) {
	switch family {
	case llm.FamilyChat:
		return chatstyle.NewBuilder(settings), nil
	case llm.FamilyInstructions:
		return instructions.NewBuilder(settings, refreshInstruction), nil
	case llm.FamilySystemField:
		return systemfield.NewBuilder(settings), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider family: %s", family)
	}
}
