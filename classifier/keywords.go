package classifier

import "encoding/json"

// Entry maps one semantic field type to its matching keywords.
type Entry struct {
	Type     string   `json:"type"`
	Keywords []string `json:"keywords"`
}

// Mapping is an ordered set of semantic field types and their keyword lists.
// Order matters: the batch classifier processes types in mapping order, and
// when two types claim the same control, the earlier type keeps it.
type Mapping []Entry

// Keywords returns the keyword list for a field type, or nil when absent.
func (m Mapping) Keywords(fieldType string) []string {
	for _, e := range m {
		if e.Type == fieldType {
			return e.Keywords
		}
	}
	return nil
}

// Types returns the semantic field types in mapping order.
func (m Mapping) Types() []string {
	types := make([]string, len(m))
	for i, e := range m {
		types[i] = e.Type
	}
	return types
}

// MarshalJSON keeps the wire format an ordered array of entries.
func (m Mapping) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Entry(m))
}

// UnmarshalJSON accepts an ordered array of entries.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*m = Mapping(entries)
	return nil
}

// DefaultMapping returns the built-in keyword taxonomy. Keywords are
// lowercase fragments expected to appear in raw field identifiers.
func DefaultMapping() Mapping {
	return Mapping{
		{Type: "name", Keywords: []string{"name", "full_name", "fullname", "applicant_name"}},
		{Type: "firstName", Keywords: []string{"first_name", "firstname", "fname", "given_name"}},
		{Type: "lastName", Keywords: []string{"last_name", "lastname", "lname", "family_name", "surname"}},
		{Type: "email", Keywords: []string{"email", "email_address", "e_mail", "contact_email"}},
		{Type: "phone", Keywords: []string{"phone", "telephone", "mobile", "cell", "phone_number"}},
		{Type: "address", Keywords: []string{"address", "street_address", "address_line_1", "addr1"}},
		{Type: "city", Keywords: []string{"city", "town", "locality"}},
		{Type: "state", Keywords: []string{"state", "province", "region"}},
		{Type: "zipCode", Keywords: []string{"zip", "postal_code", "postcode", "zip_code"}},
		{Type: "country", Keywords: []string{"country", "nation"}},
		{Type: "linkedin", Keywords: []string{"linkedin", "linked_in"}},
		{Type: "github", Keywords: []string{"github", "git_hub"}},
		{Type: "website", Keywords: []string{"website", "portfolio", "personal_site"}},
		{Type: "position", Keywords: []string{"position", "job_title", "title", "role"}},
		{Type: "company", Keywords: []string{"company", "employer", "organization", "workplace"}},
		{Type: "coverLetter", Keywords: []string{"cover_letter", "coverletter", "letter", "motivation"}},
		{Type: "resume", Keywords: []string{"resume", "cv", "curriculum_vitae", "attachment"}},
	}
}
