package classifier

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreWholeWordMatch(t *testing.T) {
	// "first" is a whole word (1.0) and also overlaps itself (0.5);
	// "fname" contains the word "name" (0.5). Total 2.0 over 2 keywords.
	got := Score("first name", []string{"first", "fname"})
	if !almostEqual(got, 1.0) {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestScoreCompoundWordField(t *testing.T) {
	// "email" and "mail" each match as a non-whole-word substring (0.7) plus
	// the partial-overlap bonus (0.5); "e_mail" matches nothing.
	got := Score("email_address_field", []string{"email", "e_mail", "mail"})
	if !almostEqual(got, 2.4/3) {
		t.Errorf("Score = %v, want %v", got, 2.4/3)
	}
}

func TestScoreSubstringOnly(t *testing.T) {
	// Substring match (0.7) always carries the partial bonus (0.5) since the
	// occurrence sits inside a single whitespace-delimited word.
	got := Score("zip_code_value", []string{"zip", "postal"})
	if !almostEqual(got, 0.6) {
		t.Errorf("Score = %v, want 0.6", got)
	}
}

func TestScorePartialBonusOnly(t *testing.T) {
	// The keyword contains the search word but never occurs in the text
	// itself: only the 0.5 bonus applies.
	got := Score("ma", []string{"mail"})
	if !almostEqual(got, 0.5) {
		t.Errorf("Score = %v, want 0.5", got)
	}
}

func TestScoreEmptyKeywords(t *testing.T) {
	if got := Score("anything", nil); got != 0 {
		t.Errorf("Score with empty keyword list = %v, want 0", got)
	}
}

func TestScoreNoMatch(t *testing.T) {
	if got := Score("captcha_token", []string{"email", "e_mail"}); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScoreCaseFolding(t *testing.T) {
	a := Score("Email Address", []string{"EMAIL"})
	b := Score("email address", []string{"email"})
	if !almostEqual(a, b) {
		t.Errorf("case folding mismatch: %v vs %v", a, b)
	}
}

func TestScoreDeterministic(t *testing.T) {
	search := "applicant_email contact form field"
	keywords := []string{"email", "email_address", "e_mail", "contact_email"}
	first := Score(search, keywords)
	for range 10 {
		if got := Score(search, keywords); got != first {
			t.Fatalf("Score not deterministic: %v then %v", first, got)
		}
	}
}

func TestScoreRawAccumulationCeiling(t *testing.T) {
	// Per keyword the maximum contribution is 1.0 (whole word) + 0.5
	// (partial bonus); the 0.7 substring branch is exclusive with the 1.0
	// branch. Normalized score therefore never exceeds 1.5.
	got := Score("email email email", []string{"email"})
	if got > 1.5+1e-9 {
		t.Errorf("Score = %v, exceeds per-keyword ceiling", got)
	}
}
