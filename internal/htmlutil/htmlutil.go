// Package htmlutil provides form control discovery and search text extraction.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manav-1/jobfill/internal/textutil"
)

// LoadHTML parses HTML bytes into a goquery Document.
func LoadHTML(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadHTMLString parses an HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// FormControls returns all fillable controls in the document, in document
// order: inputs (except type=hidden), textareas and selects. Controls are
// collected page-wide, not per <form>, since many application pages render
// fields outside a form element.
func FormControls(doc *goquery.Document) []*goquery.Selection {
	var controls []*goquery.Selection
	doc.Find("input, textarea, select").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "input" {
			tp, exists := s.Attr("type")
			if exists && strings.EqualFold(tp, "hidden") {
				return
			}
		}
		controls = append(controls, s)
	})
	return controls
}

// ControlType returns the control's type: the input type attribute
// (defaulting to "text"), or the tag name for textarea/select.
func ControlType(elem *goquery.Selection) string {
	tag := goquery.NodeName(elem)
	if tag != "input" {
		return tag
	}
	tp, exists := elem.Attr("type")
	if !exists || tp == "" {
		return "text"
	}
	return strings.ToLower(tp)
}

// FindLabel locates the <label> associated with a control. Match order:
//
//  1. label[for=<id>] anywhere in the document.
//  2. Walking up the ancestor chain, the first ancestor containing a
//     <label> descendant.
//  3. The element referenced by aria-labelledby.
//
// Explicit for-association is considered more reliable than proximity,
// which beats ARIA as a tertiary fallback.
func FindLabel(doc *goquery.Document, elem *goquery.Selection) *goquery.Selection {
	if id, exists := elem.Attr("id"); exists && id != "" {
		label := doc.Find(`label[for="` + id + `"]`)
		if label.Length() > 0 {
			return label.First()
		}
	}

	for parent := elem.Parent(); parent.Length() > 0; parent = parent.Parent() {
		tag := goquery.NodeName(parent)
		if tag == "body" || tag == "html" {
			break
		}
		if label := parent.Find("label").First(); label.Length() > 0 {
			return label
		}
	}

	if ref, exists := elem.Attr("aria-labelledby"); exists && ref != "" {
		target := doc.Find(`[id="` + ref + `"]`)
		if target.Length() > 0 {
			return target.First()
		}
	}

	return nil
}

// LabelText returns the trimmed text of the control's associated label, or "".
func LabelText(doc *goquery.Document, elem *goquery.Selection) string {
	label := FindLabel(doc, elem)
	if label == nil {
		return ""
	}
	return strings.TrimSpace(label.Text())
}

// SearchText builds the normalized search string for a control: the
// lowercased join of name, id, class, placeholder, data-testid, aria-label,
// the aria-labelledby target text and the discovered label text. Missing
// attributes contribute nothing.
func SearchText(doc *goquery.Document, elem *goquery.Selection) string {
	parts := []string{
		attr(elem, "name"),
		attr(elem, "id"),
		attr(elem, "class"),
		attr(elem, "placeholder"),
		attr(elem, "data-testid"),
		attr(elem, "aria-label"),
		labelledByText(doc, elem),
		LabelText(doc, elem),
	}
	return textutil.Normalize(strings.Join(parts, " "))
}

func labelledByText(doc *goquery.Document, elem *goquery.Selection) string {
	ref, exists := elem.Attr("aria-labelledby")
	if !exists || ref == "" {
		return ""
	}
	target := doc.Find(`[id="` + ref + `"]`)
	if target.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(target.First().Text())
}

// CurrentValue reads the control's present value: the value attribute for
// inputs, the text content for textareas, and the selected option's value
// (falling back to its text) for selects.
func CurrentValue(elem *goquery.Selection) string {
	switch goquery.NodeName(elem) {
	case "textarea":
		return elem.Text()
	case "select":
		opt := elem.Find("option[selected]").First()
		if opt.Length() == 0 {
			return ""
		}
		if val, exists := opt.Attr("value"); exists {
			return val
		}
		return strings.TrimSpace(opt.Text())
	default:
		val, _ := elem.Attr("value")
		return val
	}
}

// IsEmpty reports whether the control carries no meaningful value yet.
// Whitespace-only values count as empty.
func IsEmpty(elem *goquery.Selection) bool {
	switch ControlType(elem) {
	case "checkbox", "radio":
		_, checked := elem.Attr("checked")
		return !checked
	default:
		return strings.TrimSpace(CurrentValue(elem)) == ""
	}
}

func attr(elem *goquery.Selection, name string) string {
	val, _ := elem.Attr(name)
	return val
}
