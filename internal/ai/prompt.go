package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/manav-1/jobfill/profile"
)

// System messages framing the drafting requests.
const (
	coverLetterSystem = "You are a professional career advisor and expert cover letter writer. " +
		"Generate high-quality, personalized cover letters that help candidates stand out."
	interviewSystem = "You are an expert HR professional and interviewer. " +
		"Generate thoughtful, relevant interview questions that help assess candidates effectively. " +
		"Always return valid JSON."
)

// BuildCoverLetterPrompt renders the cover letter request for a job and an
// applicant profile. Missing profile sections degrade to "N/A".
func BuildCoverLetterPrompt(job JobInfo, p *profile.Profile) string {
	recent := p.Recent()
	var edu profile.Education
	if p != nil && len(p.Education) > 0 {
		edu = p.Education[0]
	}
	var skills []string
	if p != nil {
		skills = p.Skills
	}

	return fmt.Sprintf(`Generate a professional cover letter for the following job application:

Job Title: %s
Company: %s
Personal Reason for Interest: %s

Applicant Information:
Name: %s
Skills: %s
Most Recent Experience: %s at %s
Experience Description: %s
Education: %s from %s

Please write a compelling, professional cover letter that:
1. Is personalized to the company and role
2. Highlights relevant experience and skills
3. Shows genuine interest in the position
4. Is concise (3-4 paragraphs)
5. Uses a professional tone

Format it as a complete cover letter with proper salutation and closing.`,
		orNA(job.Title), orNA(job.Company), orNA(job.Reason),
		p.FullName(), orNA(strings.Join(skills, ", ")),
		orNA(recent.Title), orNA(recent.Company), orNA(recent.Description),
		orNA(edu.Degree), orNA(edu.Institution))
}

// BuildInterviewQuestionsPrompt renders the interview questions request for a
// job title and an applicant profile.
func BuildInterviewQuestionsPrompt(jobTitle string, p *profile.Profile) string {
	recent := p.Recent()
	var edu profile.Education
	if p != nil && len(p.Education) > 0 {
		edu = p.Education[0]
	}
	var skills []string
	if p != nil {
		skills = p.Skills
	}

	return fmt.Sprintf(`Generate 8-12 relevant interview questions for a %s position.

Applicant Background:
- Skills: %s
- Experience: %s at %s
- Education: %s

Please provide a mix of:
1. General interview questions (2-3)
2. Role-specific technical questions (3-4)
3. Behavioral questions (2-3)
4. Company culture/motivation questions (2-3)

Format each question as a JSON object with:
- question: The interview question
- category: One of "general", "technical", "behavioral", "company"
- suggested_answer: Leave empty string

Return as a valid JSON array.`,
		jobTitle, orNA(strings.Join(skills, ", ")),
		orNA(recent.Title), orNA(recent.Company), orNA(edu.Degree))
}

var fenceRe = regexp.MustCompile("```json\n?|\n?```")

// ParseQuestions decodes a generated question list, tolerating markdown code
// fences around the JSON array.
func ParseQuestions(content string) ([]Question, error) {
	clean := strings.TrimSpace(fenceRe.ReplaceAllString(content, ""))

	var questions []Question
	if err := json.Unmarshal([]byte(clean), &questions); err != nil {
		return nil, fmt.Errorf("parsing questions: %w", err)
	}
	return questions, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
