package ai

import (
	"strings"
	"testing"

	"github.com/manav-1/jobfill/profile"
)

func draftProfile() *profile.Profile {
	return &profile.Profile{
		PersonalInfo: profile.PersonalInfo{FirstName: "Ada", LastName: "Lovelace"},
		Skills:       []string{"Go", "SQL"},
		Experience: []profile.Experience{
			{Company: "Analytical Engines Ltd", Title: "Lead Engineer", Description: "Built calculation pipelines"},
		},
		Education: []profile.Education{
			{Institution: "University of London", Degree: "BSc Mathematics"},
		},
	}
}

func TestBuildCoverLetterPrompt(t *testing.T) {
	got := BuildCoverLetterPrompt(JobInfo{Title: "Backend Engineer", Company: "Acme"}, draftProfile())

	for _, want := range []string{
		"Job Title: Backend Engineer",
		"Company: Acme",
		"Name: Ada Lovelace",
		"Skills: Go, SQL",
		"Lead Engineer at Analytical Engines Ltd",
		"BSc Mathematics from University of London",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCoverLetterPromptNilProfile(t *testing.T) {
	got := BuildCoverLetterPrompt(JobInfo{}, nil)
	if !strings.Contains(got, "Job Title: N/A") || !strings.Contains(got, "Skills: N/A") {
		t.Error("missing sections should degrade to N/A")
	}
}

func TestBuildInterviewQuestionsPrompt(t *testing.T) {
	got := BuildInterviewQuestionsPrompt("Site Reliability Engineer", draftProfile())

	if !strings.Contains(got, "for a Site Reliability Engineer position") {
		t.Error("prompt missing job title")
	}
	if !strings.Contains(got, "valid JSON array") {
		t.Error("prompt missing output format instruction")
	}
}

func TestParseQuestions(t *testing.T) {
	raw := `[{"question":"Why us?","category":"company","suggested_answer":""}]`

	got, err := ParseQuestions(raw)
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(got) != 1 || got[0].Question != "Why us?" || got[0].Category != "company" {
		t.Errorf("parsed = %+v", got)
	}
}

func TestParseQuestionsStripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"question\":\"Tell me about yourself\",\"category\":\"general\",\"suggested_answer\":\"\"}]\n```"

	got, err := ParseQuestions(raw)
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(got) != 1 || got[0].Question != "Tell me about yourself" {
		t.Errorf("parsed = %+v", got)
	}
}

func TestParseQuestionsInvalidJSON(t *testing.T) {
	if _, err := ParseQuestions("here are some questions: 1. why?"); err == nil {
		t.Error("prose response should fail to parse")
	}
}

func TestQuestionsJSONRoundTrip(t *testing.T) {
	encoded, err := QuestionsJSON([]Question{{Question: "Why Go?", Category: "technical"}})
	if err != nil {
		t.Fatalf("QuestionsJSON: %v", err)
	}
	got, err := ParseQuestions(encoded)
	if err != nil {
		t.Fatalf("ParseQuestions: %v", err)
	}
	if len(got) != 1 || got[0].Question != "Why Go?" {
		t.Errorf("round trip = %+v", got)
	}
}
