package relevance

import (
	"fmt"
	"strings"

	"onboarding-buddy-be/internal/entity"
)

// Render turns selected materials into the text block injected into the
// system prompt. Internal notes are never included.
func Render(materials []*entity.TrainingMaterial) string {
	blocks := make([]string, 0, len(materials))
	for _, m := range materials {
		blocks = append(blocks, renderMaterial(m))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMaterial(m *entity.TrainingMaterial) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (Category: %s)\n%s", m.Title, m.Category, m.Content)

	for _, a := range m.Attachments {
		if a == nil || a.File == nil || !a.File.IsProcessed || strings.TrimSpace(a.File.ProcessedContent) == "" {
			continue
		}
		if description := strings.TrimSpace(a.Description); description != "" {
			fmt.Fprintf(&b, "\n\nAttachment (%s): %s\n%s", description, a.File.OriginalFileName, a.File.ProcessedContent)
		} else {
			fmt.Fprintf(&b, "\n\nAttachment: %s\n%s", a.File.OriginalFileName, a.File.ProcessedContent)
		}
	}
	return b.String()
}

// MaterialIDs lists the ids of the given materials in order.
func MaterialIDs(materials []*entity.TrainingMaterial) []string {
	ids := make([]string, 0, len(materials))
	for _, m := range materials {
		ids = append(ids, m.Id.String())
	}
	return ids
}
