package deviation

import (
	"testing"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

func TestDefaultVocabulary_Categorize(t *testing.T) {
	t.Parallel()

	v := DefaultVocabulary()
	cases := map[string]model.ShiftCategory{
		"M":        model.CategoryWorking,
		"a":        model.CategoryWorking,
		" N ":      model.CategoryWorking,
		"PH":       model.CategoryWorking,
		"WO":       model.CategoryOff,
		"NO":       model.CategoryOff,
		"L":        model.CategoryLeave,
		"AB":       model.CategoryLeave,
		"CO":       model.CategoryLeave,
		"BDAY":     model.CategorySpecial,
		"BDAY L":   model.CategorySpecial,
		"8AM-4PM":  model.CategorySpecial,
		"M2":       model.CategorySpecial,
		"12":       model.CategorySpecial,
		"MN":       model.CategoryOther,
		"":         model.CategoryOther,
		"NAN":      model.CategoryOther,
		"TRAINING": model.CategoryOther,
		"M３":       model.CategoryOther, // 全角数字不算数字
		"٣":        model.CategoryOther,
	}
	for code, want := range cases {
		if got := v.Categorize(code); got != want {
			t.Fatalf("Categorize(%q) = %s want %s", code, got, want)
		}
	}
}

func TestVocabulary_Injected(t *testing.T) {
	t.Parallel()

	v := Vocabulary{Rules: []CategoryRule{
		{Category: model.CategoryWorking, Codes: []string{"E", "D"}},
		{Category: model.CategoryOff, Codes: []string{"OFF"}},
	}}
	if got := v.Categorize("e"); got != model.CategoryWorking {
		t.Fatalf("E = %s", got)
	}
	if got := v.Categorize("M"); got != model.CategoryOther {
		t.Fatalf("M without a rule = %s", got)
	}
	if got := v.Categorize("8AM"); got != model.CategoryOther {
		t.Fatalf("8AM without a special rule = %s", got)
	}
	if errs := v.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestVocabulary_ValidateRejectsBadRules(t *testing.T) {
	t.Parallel()

	v := Vocabulary{Rules: []CategoryRule{
		{Category: "Sleeping", Codes: []string{"Z"}},
		{Category: model.CategoryOff},
	}}
	if errs := v.Validate(); len(errs) != 2 {
		t.Fatalf("want 2 errors, got %v", errs)
	}
}
