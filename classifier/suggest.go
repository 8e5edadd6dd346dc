package classifier

import (
	"strings"

	"github.com/manav-1/jobfill/profile"
)

// Suggestion is an advisory candidate value for one focused control. Unlike
// the batch path, several suggestions can match the same control; the user
// picks the right one.
type Suggestion struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// Suggestion categories.
const (
	CategoryPersonal   = "personal"
	CategoryExperience = "experience"
	CategorySocial     = "social"
)

type cue struct {
	label    string
	category string
	needles  []string
	value    func(p *profile.Profile) string
}

// Cues are checked in a fixed priority order; the returned suggestions keep
// that order. The cue sets are deliberately small substring checks, not the
// batch scorer: this path is advisory for a single control and can afford
// multiple plausible interpretations.
var suggestionCues = []cue{
	{"First Name", CategoryPersonal, []string{"first", "fname"},
		func(p *profile.Profile) string { return p.Personal().FirstName }},
	{"Last Name", CategoryPersonal, []string{"last", "lname", "surname"},
		func(p *profile.Profile) string { return p.Personal().LastName }},
	{"Email", CategoryPersonal, []string{"email", "mail"},
		func(p *profile.Profile) string { return p.Personal().Email }},
	{"Phone", CategoryPersonal, []string{"phone", "mobile", "tel"},
		func(p *profile.Profile) string { return p.Personal().Phone }},
	{"Address", CategoryPersonal, []string{"address", "street"},
		func(p *profile.Profile) string { return p.Personal().Address }},
	{"City", CategoryPersonal, []string{"city"},
		func(p *profile.Profile) string { return p.Personal().City }},
	{"LinkedIn", CategorySocial, []string{"linkedin"},
		func(p *profile.Profile) string { return p.Personal().LinkedIn }},
	{"Current/Recent Company", CategoryExperience, []string{"company", "employer"},
		func(p *profile.Profile) string { return p.Recent().Company }},
	{"Current/Recent Position", CategoryExperience, []string{"title", "position", "role"},
		func(p *profile.Profile) string { return p.Recent().Title }},
}

// Suggest proposes labeled candidate values for one focused field. The
// field's name, id, placeholder and label are joined and lowercased, then
// tested against each cue's substrings. Suggestions with empty or
// whitespace-only values are dropped.
func Suggest(info FieldInfo, p *profile.Profile) []Suggestion {
	text := strings.ToLower(strings.Join([]string{
		info.FieldName, info.FieldID, info.Placeholder, info.Label,
	}, " "))

	var suggestions []Suggestion
	for _, c := range suggestionCues {
		if !containsAny(text, c.needles) {
			continue
		}
		value := c.value(p)
		if strings.TrimSpace(value) == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Label:    c.label,
			Value:    value,
			Category: c.category,
		})
	}
	return suggestions
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
