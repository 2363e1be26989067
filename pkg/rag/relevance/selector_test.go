package relevance

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/internal/entity"
)

func material(title, category, content string) *entity.TrainingMaterial {
	return &entity.TrainingMaterial{
		Id:       uuid.New(),
		Title:    title,
		Category: category,
		Content:  content,
		IsActive: true,
	}
}

func titles(ms []*entity.TrainingMaterial) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Title)
	}
	return out
}

func TestSelect_EmptyStore(t *testing.T) {
	got := NewSelector().Select(nil, "anything")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSelect_InactiveMaterialsAreNeverReturned(t *testing.T) {
	hidden := material("Onboarding Secrets", "Onboarding", "onboarding onboarding")
	hidden.IsActive = false
	visible := material("Parking", "Facilities", "Park in lot B")

	s := NewSelector()
	assert.Equal(t, []string{"Parking"}, titles(s.Select([]*entity.TrainingMaterial{hidden, visible}, "onboarding")))
	assert.Equal(t, []string{"Parking"}, titles(s.Select([]*entity.TrainingMaterial{hidden, visible}, "")))
}

func TestSelect_ScoresTitleCategoryContent(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("Office Map", "Facilities", "Where the kitchen is"),
		material("Onboarding Checklist", "HR", "Steps for new hires"),
		material("Benefits", "Onboarding", "Health plans"),
		material("Security", "IT", "Finish your onboarding training"),
	}

	got := NewSelector().Select(materials, "onboarding")

	// title 3 > category 2 > content 1; unmatched Office Map is dropped.
	assert.Equal(t, []string{"Onboarding Checklist", "Benefits", "Security"}, titles(got))
}

func TestSelect_ShortTokensIgnored(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("A to Z", "General", "is it ok"),
		material("Holidays", "HR", "Public holidays list"),
	}

	// "is", "it" and "ok" are too short to count, so nothing scores and the fallback kicks in.
	got := NewSelector().Select(materials, "is it ok")
	assert.Equal(t, []string{"A to Z", "Holidays"}, titles(got))
}

func TestSelect_NoMatchFallsBackToFirstThreeCanonical(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("Zeta", "B", "x"),
		material("Alpha", "B", "x"),
		material("Gamma", "A", "x"),
		material("Beta", "C", "x"),
	}

	got := NewSelector().Select(materials, "quantum physics")
	assert.Equal(t, []string{"Gamma", "Alpha", "Zeta"}, titles(got))
}

func TestSelect_TiesKeepCanonicalOrder(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("Laptop setup", "IT", ""),
		material("Laptop return", "Finance", ""),
	}

	got := NewSelector().Select(materials, "laptop")
	assert.Equal(t, []string{"Laptop return", "Laptop setup"}, titles(got))
}

func TestSelect_CapsAtFive(t *testing.T) {
	var materials []*entity.TrainingMaterial
	for i := 0; i < 9; i++ {
		materials = append(materials, material(fmt.Sprintf("Policy %d", i), "HR", "policy"))
	}

	assert.Len(t, NewSelector().Select(materials, "policy"), MaxResults)
	assert.Len(t, NewSelector().Select(materials, ""), MaxResults)
}

func TestSelect_InitialLoadPrefersSystemThenOnboarding(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("Expense rules", "Finance", ""),
		material("Getting Started", "General", ""),
		material("Persona", "System Prompts", ""),
		material("Day one", "Onboarding", ""),
		material("VPN", "IT", ""),
		material("Lunch", "Facilities", ""),
	}

	got := NewSelector().Select(materials, "")

	require.Len(t, got, MaxResults)
	assert.Equal(t, []string{"Persona", "Getting Started", "Day one", "Lunch", "Expense rules"}, titles(got))
}

func TestSelect_InitialLoadWithFewMaterials(t *testing.T) {
	materials := []*entity.TrainingMaterial{
		material("VPN", "IT", ""),
		material("Welcome pack", "HR", ""),
	}

	got := NewSelector().Select(materials, "   ")
	assert.Equal(t, []string{"Welcome pack", "VPN"}, titles(got))
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"onboarding", "checklist", "for", "new", "hires"}, Keywords("Onboarding checklist for new hires"))
	assert.Empty(t, Keywords("a an to"))
}

func TestRender(t *testing.T) {
	m := material("Benefits", "HR", "Dental is covered.")
	m.InternalNotes = "Do not mention the 2019 lawsuit"
	m.Attachments = []*entity.TrainingMaterialAttachment{
		{Description: "Plan summary", File: &entity.FileUpload{OriginalFileName: "plan.pdf", ProcessedContent: "Plan A and Plan B", IsProcessed: true}},
		{Description: "Empty", File: &entity.FileUpload{OriginalFileName: "blank.pdf", ProcessedContent: "  ", IsProcessed: true}},
		{Description: "Pending", File: &entity.FileUpload{OriginalFileName: "scan.png", ProcessedContent: "stale text", IsProcessed: false}},
		{Description: "Missing file"},
		{File: &entity.FileUpload{OriginalFileName: "faq.txt", ProcessedContent: "Q: Parking?\nA: Level 2.", IsProcessed: true}},
		{Description: "   ", File: &entity.FileUpload{OriginalFileName: "map.txt", ProcessedContent: "Desk 4B", IsProcessed: true}},
	}
	other := material("VPN", "IT", "Use the client.")

	got := Render([]*entity.TrainingMaterial{m, other})

	want := "**Benefits** (Category: HR)\nDental is covered." +
		"\n\nAttachment (Plan summary): plan.pdf\nPlan A and Plan B" +
		"\n\nAttachment: faq.txt\nQ: Parking?\nA: Level 2." +
		"\n\nAttachment: map.txt\nDesk 4B" +
		"\n\n**VPN** (Category: IT)\nUse the client."
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "lawsuit")
	assert.NotContains(t, got, "blank.pdf")
	assert.NotContains(t, got, "scan.png")
	assert.NotContains(t, got, "()")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}
