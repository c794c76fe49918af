package result

import "testing"

func TestClassification_Types(t *testing.T) {
	c := &Classification{
		Scores: map[TestType]float64{
			TypeAPI:         0.45,
			TypeE2E:         0.8,
			TypeIntegration: 0.45,
		},
		PrimaryType: TypeE2E,
	}

	types := c.Types()
	if len(types) != 3 {
		t.Fatalf("Types() returned %d entries, want 3", len(types))
	}
	if types[0] != TypeE2E {
		t.Errorf("Types()[0] = %s, want highest score first", types[0])
	}
	// Equal scores fall back to alphabetical order.
	if types[1] != TypeAPI || types[2] != TypeIntegration {
		t.Errorf("tie order = %s, %s; want api, integration", types[1], types[2])
	}
}

func TestClassification_ConfidenceAndIs(t *testing.T) {
	c := &Classification{
		Scores:      map[TestType]float64{TypeUnit: 0.5},
		PrimaryType: TypeUnit,
	}
	if c.Confidence() != 0.5 {
		t.Errorf("Confidence() = %v, want 0.5", c.Confidence())
	}
	if !c.Is(TypeUnit) {
		t.Error("Is(TypeUnit) = false for a unit classification")
	}
	if c.Is(TypeE2E) {
		t.Error("Is(TypeE2E) = true for a unit classification")
	}
}
