// Package relevance picks which training materials go into a session's context.
package relevance

import (
	"sort"
	"strings"

	"onboarding-buddy-be/internal/entity"
)

const (
	MaxResults = 5
	// MaxInitialCandidates bounds the system + onboarding set collected on session start.
	MaxInitialCandidates = 8
	// FallbackCount is how many materials are returned when no keyword matches.
	FallbackCount    = 3
	MinKeywordLength = 3

	titleWeight    = 3
	categoryWeight = 2
	contentWeight  = 1
)

var onboardingMarkers = []string{"onboarding", "welcome", "getting started", "getting-started", "get started"}

type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

// Select returns at most MaxResults active materials for the query. An empty
// query means the session is starting and selects system and onboarding
// material first.
func (s *Selector) Select(materials []*entity.TrainingMaterial, query string) []*entity.TrainingMaterial {
	active := canonical(materials)
	if len(active) == 0 {
		return []*entity.TrainingMaterial{}
	}

	if strings.TrimSpace(query) == "" {
		return s.initial(active)
	}
	return s.scored(active, query)
}

// canonical keeps active materials, ordered by category then title.
func canonical(materials []*entity.TrainingMaterial) []*entity.TrainingMaterial {
	active := make([]*entity.TrainingMaterial, 0, len(materials))
	for _, m := range materials {
		if m != nil && m.IsActive {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if c := compareFold(active[i].Category, active[j].Category); c != 0 {
			return c < 0
		}
		return compareFold(active[i].Title, active[j].Title) < 0
	})
	return active
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func (s *Selector) initial(active []*entity.TrainingMaterial) []*entity.TrainingMaterial {
	candidates := make([]*entity.TrainingMaterial, 0, MaxInitialCandidates)
	seen := make(map[*entity.TrainingMaterial]bool)

	add := func(m *entity.TrainingMaterial, limit int) {
		if len(candidates) < limit && !seen[m] {
			candidates = append(candidates, m)
			seen[m] = true
		}
	}

	for _, m := range active {
		if isSystemMaterial(m) {
			add(m, MaxInitialCandidates)
		}
	}
	for _, m := range active {
		if isOnboardingMaterial(m) {
			add(m, MaxInitialCandidates)
		}
	}
	for _, m := range active {
		add(m, MaxResults)
	}

	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}
	return candidates
}

func isSystemMaterial(m *entity.TrainingMaterial) bool {
	return strings.Contains(strings.ToLower(m.Category), "system")
}

func isOnboardingMaterial(m *entity.TrainingMaterial) bool {
	category := strings.ToLower(m.Category)
	title := strings.ToLower(m.Title)
	for _, marker := range onboardingMarkers {
		if strings.Contains(category, marker) || strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

type scoredMaterial struct {
	material *entity.TrainingMaterial
	score    int
}

func (s *Selector) scored(active []*entity.TrainingMaterial, query string) []*entity.TrainingMaterial {
	keywords := Keywords(query)

	matches := make([]scoredMaterial, 0, len(active))
	for _, m := range active {
		if score := Score(m, keywords); score > 0 {
			matches = append(matches, scoredMaterial{material: m, score: score})
		}
	}

	if len(matches) == 0 {
		n := FallbackCount
		if len(active) < n {
			n = len(active)
		}
		return append([]*entity.TrainingMaterial(nil), active[:n]...)
	}

	// Stable, so equal scores keep canonical order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}
	result := make([]*entity.TrainingMaterial, 0, len(matches))
	for _, sm := range matches {
		result = append(result, sm.material)
	}
	return result
}

// Keywords lowercases the query and keeps whitespace-separated tokens of at
// least MinKeywordLength characters. Repeats are kept.
func Keywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= MinKeywordLength {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// Score adds 3 for each keyword found in the title, 2 for the category and 1
// for the content, case-insensitively.
func Score(m *entity.TrainingMaterial, keywords []string) int {
	title := strings.ToLower(m.Title)
	category := strings.ToLower(m.Category)
	content := strings.ToLower(m.Content)

	score := 0
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += titleWeight
		}
		if strings.Contains(category, kw) {
			score += categoryWeight
		}
		if strings.Contains(content, kw) {
			score += contentWeight
		}
	}
	return score
}
