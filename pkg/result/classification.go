package result

import "sort"

// TestType is one category a test file can be classified as.
type TestType string

// Test file categories. Unit is the residual category when no other type
// clears the inclusion threshold.
const (
	TypeUnit        TestType = "unit"
	TypeIntegration TestType = "integration"
	TypeE2E         TestType = "e2e"
	TypePerformance TestType = "performance"
	TypeAPI         TestType = "api"
)

// Classification is the multi-label classification of one test file.
// Scores holds the confidence in [0, 1] for every type that cleared the
// inclusion threshold; Signals records the evidence that produced them.
type Classification struct {
	FilePath    string               `json:"filePath"`
	Language    Language             `json:"language"`
	Scores      map[TestType]float64 `json:"scores"`
	PrimaryType TestType             `json:"primaryType"`
	Signals     []string             `json:"signals"`
}

// Confidence returns the score of the primary type.
func (c *Classification) Confidence() float64 {
	return c.Scores[c.PrimaryType]
}

// Types returns the included types ordered by descending score, ties broken
// alphabetically so the order is deterministic.
func (c *Classification) Types() []TestType {
	types := make([]TestType, 0, len(c.Scores))
	for t := range c.Scores {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if c.Scores[types[i]] != c.Scores[types[j]] {
			return c.Scores[types[i]] > c.Scores[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

// Is reports whether the file was classified as the given type.
func (c *Classification) Is(t TestType) bool {
	_, ok := c.Scores[t]
	return ok
}
