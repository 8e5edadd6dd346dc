package filler

import (
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/manav-1/jobfill/internal/htmlutil"
)

func controls(t *testing.T, html string) (*goquery.Document, []*goquery.Selection) {
	t.Helper()
	doc, err := htmlutil.LoadHTMLString(html)
	if err != nil {
		t.Fatal(err)
	}
	return doc, htmlutil.FormControls(doc)
}

func TestFillTextInput(t *testing.T) {
	_, ctls := controls(t, `<input type="text" name="email"/>`)
	if !Fill(ctls[0], "ada@example.com") {
		t.Fatal("fill failed")
	}
	if val, _ := ctls[0].Attr("value"); val != "ada@example.com" {
		t.Errorf("value = %q", val)
	}
}

func TestFillTextarea(t *testing.T) {
	_, ctls := controls(t, `<textarea name="letter"></textarea>`)
	if !Fill(ctls[0], "Dear team,") {
		t.Fatal("fill failed")
	}
	if got := ctls[0].Text(); got != "Dear team," {
		t.Errorf("text = %q", got)
	}
}

func TestFillCheckbox(t *testing.T) {
	_, ctls := controls(t, `<input type="checkbox" name="relocate"/>`)

	Fill(ctls[0], "true")
	if _, checked := ctls[0].Attr("checked"); !checked {
		t.Error("checkbox should be checked for truthy value")
	}

	Fill(ctls[0], "false")
	if _, checked := ctls[0].Attr("checked"); checked {
		t.Error("checkbox should be unchecked for falsy value")
	}
}

func TestFillRadioOnlyOnValueMatch(t *testing.T) {
	_, ctls := controls(t, `
<input type="radio" name="visa" value="yes"/>
<input type="radio" name="visa" value="no"/>`)

	if Fill(ctls[0], "no") {
		t.Error("radio with non-matching value must not be checked")
	}
	if !Fill(ctls[1], "no") {
		t.Error("radio with matching value should be checked")
	}
	if _, checked := ctls[1].Attr("checked"); !checked {
		t.Error("matching radio not checked")
	}
}

func TestFillSelectCaseInsensitiveText(t *testing.T) {
	_, ctls := controls(t, `
<select name="state">
  <option value="NY">NY</option>
  <option value="CA">California</option>
  <option value="TX">TX</option>
</select>`)

	if !Fill(ctls[0], "california") {
		t.Fatal("select fill failed")
	}
	selected := ctls[0].Find("option[selected]")
	if selected.Length() != 1 {
		t.Fatalf("expected exactly 1 selected option, got %d", selected.Length())
	}
	if val, _ := selected.Attr("value"); val != "CA" {
		t.Errorf("selected option = %q, want CA", val)
	}
}

func TestFillSelectByValue(t *testing.T) {
	_, ctls := controls(t, `
<select name="country">
  <option value="us" selected>United States</option>
  <option value="uk">United Kingdom</option>
</select>`)

	if !Fill(ctls[0], "uk") {
		t.Fatal("select fill failed")
	}
	if val, _ := ctls[0].Find("option[selected]").Attr("value"); val != "uk" {
		t.Errorf("selected = %q, want uk (previous selection must be cleared)", val)
	}
}

func TestFillSelectNoMatch(t *testing.T) {
	_, ctls := controls(t, `<select name="state"><option value="NY">NY</option></select>`)
	if Fill(ctls[0], "Bavaria") {
		t.Error("fill should report false when no option matches")
	}
}

func TestFillStaleReferenceNoOp(t *testing.T) {
	doc, _ := htmlutil.LoadHTMLString(`<p></p>`)
	stale := doc.Find("input")
	if Fill(stale, "x") {
		t.Error("stale reference should be a no-op")
	}
	if Fill(nil, "x") {
		t.Error("nil reference should be a no-op")
	}
}

func TestFillFileInputRefused(t *testing.T) {
	_, ctls := controls(t, `<input type="file" name="resume"/>`)
	if Fill(ctls[0], "/tmp/resume.pdf") {
		t.Error("file inputs cannot be filled")
	}
}

func TestLocatorFor(t *testing.T) {
	doc, ctls := controls(t, `
<input type="text" id="em" name="email"/>
<input type="text" name="phone"/>
<input type="text"/>`)

	if loc := LocatorFor(doc, ctls[0]); loc.Css != `[id="em"]` {
		t.Errorf("id locator = %+v", loc)
	}
	if loc := LocatorFor(doc, ctls[1]); loc.Css != `input[name="phone"]` {
		t.Errorf("name locator = %+v", loc)
	}
	loc := LocatorFor(doc, ctls[2])
	if loc.Css != "" || loc.Tag != "input" || loc.Index != 2 {
		t.Errorf("positional locator = %+v", loc)
	}
}
