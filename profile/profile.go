// Package profile defines the locally stored applicant profile consumed by
// the classifier, the fill planner and the drafting prompts.
package profile

import "strings"

// Profile is the applicant's stored data. All readers must tolerate a nil
// or partially filled profile and degrade to empty values.
type Profile struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience"`
	Education    []Education  `json:"education"`
	Skills       []string     `json:"skills"`
	CoverLetter  string       `json:"coverLetter,omitempty"`
	Summary      string       `json:"summary,omitempty"`
}

// PersonalInfo holds contact and address details.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Experience is one work history entry. The first entry is treated as the
// most recent position.
type Experience struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// Education is one education history entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Default returns an empty profile ready to be filled in.
func Default() *Profile {
	return &Profile{}
}

// Personal returns the personal info section, empty when the profile is nil.
func (p *Profile) Personal() PersonalInfo {
	if p == nil {
		return PersonalInfo{}
	}
	return p.PersonalInfo
}

// Recent returns the most recent work experience entry, empty when none exist.
func (p *Profile) Recent() Experience {
	if p == nil || len(p.Experience) == 0 {
		return Experience{}
	}
	return p.Experience[0]
}

// FullName joins first and last name, trimming when either is missing.
func (p *Profile) FullName() string {
	pi := p.Personal()
	return strings.TrimSpace(strings.TrimSpace(pi.FirstName) + " " + strings.TrimSpace(pi.LastName))
}

// Value resolves a semantic field type to the profile value used for batch
// filling. The generic "name" type is detect-only: batch fills write the
// split name fields and leave full-name resolution to the suggestion path.
// Unknown types and file-upload types (resume) return "" so the planner
// skips them.
func (p *Profile) Value(fieldType string) string {
	pi := p.Personal()
	switch fieldType {
	case "firstName":
		return pi.FirstName
	case "lastName":
		return pi.LastName
	case "email":
		return pi.Email
	case "phone":
		return pi.Phone
	case "address":
		return pi.Address
	case "city":
		return pi.City
	case "state":
		return pi.State
	case "zipCode":
		return pi.ZipCode
	case "country":
		return pi.Country
	case "linkedin":
		return pi.LinkedIn
	case "github":
		return pi.GitHub
	case "website":
		return pi.Website
	case "position":
		return p.Recent().Title
	case "company":
		return p.Recent().Company
	case "coverLetter":
		if p == nil {
			return ""
		}
		return p.CoverLetter
	case "summary":
		if p == nil {
			return ""
		}
		return p.Summary
	default:
		return ""
	}
}
