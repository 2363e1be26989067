package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/pkg/llm"
)

func TestNewPayloadBuilder(t *testing.T) {
	for _, family := range []llm.Family{llm.FamilyChat, llm.FamilyInstructions, llm.FamilySystemField} {
		t.Run(family.String(), func(t *testing.T) {
			b, err := NewPayloadBuilder(family, llm.Settings{Model: "m"}, "refresh")
			require.NoError(t, err)
			assert.Equal(t, family, b.Family())
		})
	}

	_, err := NewPayloadBuilder(llm.Family(99), llm.Settings{}, "")
	assert.Error(t, err)
}
