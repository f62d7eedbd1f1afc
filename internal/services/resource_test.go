package services

import (
	"errors"
	"testing"
)

func TestValidateEnums(t *testing.T) {
	hour := 3600
	ok := ResourceInput{
		Name:                 "Counting to 10",
		EducationalAudience:  []string{"student", "Teacher"},
		AccessMode:           []string{"visual"},
		LearningResourceType: "Game",
		Language:             "en",
		TimeRequired:         &hour,
		TextComplexity:       []byte(`{"lexile": 210, "flesch-kincaid": 2.5}`),
	}
	if err := validateEnums(ok); err != nil {
		t.Fatalf("validateEnums: %v", err)
	}

	zero := 0
	bad := []ResourceInput{
		{EducationalAudience: []string{"robot"}},
		{AccessibilityAPI: []string{"NotAnAPI"}},
		{AccessMode: []string{"telepathic"}},
		{AccessibilityHazards: []string{"boredom"}},
		{LearningResourceType: "Hologram"},
		{Language: "english"},
		{TimeRequired: &zero},
		{TextComplexity: []byte(`{"reading-ease": 70}`)},
		{TextComplexity: []byte(`"not an object"`)},
	}
	for i, input := range bad {
		err := validateEnums(input)
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: error %v should wrap ErrValidation", i, err)
		}
	}
}

func TestContainsFold(t *testing.T) {
	values := []string{"auditory", "textOnImage"}
	if !containsFold(values, "TEXTONIMAGE") {
		t.Fatal("case-insensitive match failed")
	}
	if containsFold(values, "visual") {
		t.Fatal("unexpected match")
	}
}

func TestUniqueInt64(t *testing.T) {
	got := uniqueInt64([]int64{1, 2, 1, 3, 2})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("uniqueInt64 = %v", got)
	}
}
