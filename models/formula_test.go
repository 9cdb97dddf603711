package models

import "testing"

func TestBeforeCreateAssignsID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		id       string
		wantSame bool
	}{
		{"empty", "", false},
		{"preset", "legacy-7", true},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			formula := Formula{ID: tt.id}
			if err := formula.BeforeCreate(nil); err != nil {
				t.Fatalf("BeforeCreate returned error: %v", err)
			}
			if formula.ID == "" {
				t.Fatal("expected an id to be assigned")
			}
			if tt.wantSame && formula.ID != tt.id {
				t.Fatalf("BeforeCreate replaced id %q with %q", tt.id, formula.ID)
			}
		})
	}
}

func TestCloneDoesNotShareIngredients(t *testing.T) {
	t.Parallel()

	original := Formula{
		ID:         "f-1",
		ResultCode: "BN0173",
		Ingredients: []Ingredient{
			{MotherCode: "D01231", Name: "RED", Percentage: 0.212},
		},
	}

	clone := original.Clone()
	clone.Ingredients[0].Percentage = 9
	clone.ResultCode = "CHANGED"

	if original.Ingredients[0].Percentage != 0.212 {
		t.Fatalf("clone mutated the original ingredient: %v", original.Ingredients[0])
	}
	if original.ResultCode != "BN0173" {
		t.Fatalf("clone mutated the original formula: %q", original.ResultCode)
	}

	if empty := (Formula{}).Clone(); empty.Ingredients != nil {
		t.Fatalf("expected nil ingredients to stay nil, got %v", empty.Ingredients)
	}
}
