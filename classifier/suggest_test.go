package classifier

import (
	"testing"

	"github.com/manav-1/jobfill/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		PersonalInfo: profile.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+1-555-0100",
			City:      "London",
			LinkedIn:  "https://linkedin.com/in/ada",
		},
		Experience: []profile.Experience{
			{Company: "Analytical Engines Ltd", Title: "Lead Engineer"},
			{Company: "Old Job Inc", Title: "Engineer"},
		},
	}
}

func TestSuggestSingleCategory(t *testing.T) {
	got := Suggest(FieldInfo{FieldName: "fname"}, testProfile())
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d: %v", len(got), got)
	}
	if got[0].Label != "First Name" || got[0].Value != "Ada" || got[0].Category != CategoryPersonal {
		t.Errorf("unexpected suggestion: %+v", got[0])
	}
}

func TestSuggestMultipleCategories(t *testing.T) {
	// A single field can legitimately match several cues; all are returned
	// for the user to disambiguate.
	got := Suggest(FieldInfo{FieldName: "first_name", Placeholder: "email"}, testProfile())
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %v", len(got), got)
	}
	if got[0].Label != "First Name" || got[1].Label != "Email" {
		t.Errorf("suggestions out of cue order: %v", got)
	}
}

func TestSuggestUsesRecentExperience(t *testing.T) {
	got := Suggest(FieldInfo{FieldName: "current_employer"}, testProfile())
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Value != "Analytical Engines Ltd" || got[0].Category != CategoryExperience {
		t.Errorf("unexpected suggestion: %+v", got[0])
	}
}

func TestSuggestDropsEmptyValues(t *testing.T) {
	p := &profile.Profile{PersonalInfo: profile.PersonalInfo{Phone: "   "}}
	if got := Suggest(FieldInfo{FieldName: "phone"}, p); len(got) != 0 {
		t.Errorf("whitespace-only value must be dropped, got %v", got)
	}
}

func TestSuggestNilProfile(t *testing.T) {
	// Missing profile data degrades to no suggestions, never a panic.
	if got := Suggest(FieldInfo{FieldName: "email"}, nil); len(got) != 0 {
		t.Errorf("nil profile should yield no suggestions, got %v", got)
	}
}

func TestSuggestNoCueMatch(t *testing.T) {
	if got := Suggest(FieldInfo{FieldName: "captcha"}, testProfile()); len(got) != 0 {
		t.Errorf("unrelated field should yield no suggestions, got %v", got)
	}
}

func TestSuggestLabelSignal(t *testing.T) {
	got := Suggest(FieldInfo{Label: "City of residence"}, testProfile())
	if len(got) != 1 || got[0].Value != "London" {
		t.Errorf("label-only field should match city, got %v", got)
	}
}
