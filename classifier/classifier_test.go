package classifier

import (
	"testing"

	"github.com/manav-1/jobfill/internal/htmlutil"
)

func classify(t *testing.T, html string, c *Classifier) *Result {
	t.Helper()
	doc, err := htmlutil.LoadHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}
	return c.Classify(doc)
}

func TestClassifyBasicForm(t *testing.T) {
	html := `
<form>
  <label for="fn">First Name</label>
  <input type="text" id="fn" name="first_name"/>
  <label for="ln">Last Name</label>
  <input type="text" id="ln" name="last_name"/>
  <label for="em">Email Address</label>
  <input type="email" id="em" name="email"/>
  <input type="tel" name="phone_number" placeholder="Phone"/>
</form>`

	result := classify(t, html, New(nil))

	for fieldType, wantName := range map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"email":     "email",
		"phone":     "phone_number",
	} {
		ctl := result.Control(fieldType)
		if ctl == nil {
			t.Errorf("%s: not classified", fieldType)
			continue
		}
		if name, _ := ctl.Attr("name"); name != wantName {
			t.Errorf("%s: selected %q, want %q", fieldType, name, wantName)
		}
	}
}

func TestClassifyThresholdBoundary(t *testing.T) {
	c := New(Mapping{
		{Type: "zipCode", Keywords: []string{"zip", "postal"}},
	})

	// Substring + partial bonus on one of two keywords: exactly 0.6.
	atThreshold := classify(t, `<input name="zip_code_value"/>`, c)
	if atThreshold.Control("zipCode") == nil {
		t.Error("control scoring exactly at threshold must be included")
	}

	// Partial bonus only on one keyword: 0.25, well below threshold.
	below := classify(t, `<input name="zi"/>`, New(Mapping{
		{Type: "zipCode", Keywords: []string{"zip", "postal"}},
	}))
	if below.Control("zipCode") != nil {
		t.Error("control scoring below threshold must be excluded")
	}
}

func TestClassifyIdempotent(t *testing.T) {
	html := `
<form>
  <input name="first_name" placeholder="First name"/>
  <input name="email"/>
  <select name="country"><option>US</option></select>
</form>`

	c := New(nil)
	doc, err := htmlutil.LoadHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}

	first := c.Classify(doc)
	second := c.Classify(doc)

	if first.Len() != second.Len() {
		t.Fatalf("lengths differ: %d vs %d", first.Len(), second.Len())
	}
	for i, m := range first.Matches() {
		n := second.Matches()[i]
		if m.Type != n.Type || m.Score != n.Score {
			t.Errorf("match %d differs: %v vs %v", i, m, n)
		}
		aName, _ := m.Control.Attr("name")
		bName, _ := n.Control.Attr("name")
		if aName != bName {
			t.Errorf("match %d control differs: %q vs %q", i, aName, bName)
		}
	}
}

func TestClassifyEmptyMapping(t *testing.T) {
	c := &Classifier{Mapping: Mapping{}, Threshold: DefaultThreshold}
	result := classify(t, `<input name="email"/>`, c)
	if result.Len() != 0 {
		t.Errorf("empty mapping should classify nothing, got %d", result.Len())
	}
}

func TestClassifyNoControls(t *testing.T) {
	result := classify(t, `<p>no forms here</p>`, New(nil))
	if result.Len() != 0 {
		t.Errorf("page without controls should classify nothing, got %d", result.Len())
	}
}

func TestClassifyDocumentOrderTieBreak(t *testing.T) {
	// Two controls with identical search signals: the first in document
	// order wins the stable sort.
	html := `
<input type="text" id="alpha" name="email"/>
<input type="text" id="beta" name="email"/>`

	result := classify(t, html, New(nil))
	ctl := result.Control("email")
	if ctl == nil {
		t.Fatal("email not classified")
	}
	if id, _ := ctl.Attr("id"); id != "alpha" {
		t.Errorf("tie broken to %q, want first-in-document \"alpha\"", id)
	}
}

func TestClassifyPermissiveAcrossTypes(t *testing.T) {
	// The same control may win two semantic types; the batch path does not
	// enforce cross-type exclusivity.
	c := New(Mapping{
		{Type: "email", Keywords: []string{"email"}},
		{Type: "contact", Keywords: []string{"email", "contact"}},
	})
	result := classify(t, `<input name="contact_email" id="shared"/>`, c)

	a := result.Control("email")
	b := result.Control("contact")
	if a == nil || b == nil {
		t.Fatal("both types should be classified")
	}
	aID, _ := a.Attr("id")
	bID, _ := b.Attr("id")
	if aID != "shared" || bID != "shared" {
		t.Errorf("expected both types to select the shared control, got %q and %q", aID, bID)
	}
}

func TestClassifyMappingOrder(t *testing.T) {
	result := classify(t, `
<input name="first_name" placeholder="First name"/>
<input name="email"/>`, New(nil))

	matches := result.Matches()
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Type != "firstName" || matches[1].Type != "email" {
		t.Errorf("matches out of mapping order: %s, %s", matches[0].Type, matches[1].Type)
	}
}

func TestControlInfoSnapshot(t *testing.T) {
	doc, err := htmlutil.LoadHTMLString(`
<label for="em">Work Email</label>
<input type="email" id="em" name="email" placeholder="you@company.com" value="x@y.z"/>`)
	if err != nil {
		t.Fatal(err)
	}

	controls := htmlutil.FormControls(doc)
	info := ControlInfo(doc, controls[0])

	want := FieldInfo{
		FieldName:   "email",
		FieldID:     "em",
		FieldType:   "email",
		Placeholder: "you@company.com",
		Label:       "Work Email",
		Value:       "x@y.z",
	}
	if info != want {
		t.Errorf("ControlInfo = %+v, want %+v", info, want)
	}
}
