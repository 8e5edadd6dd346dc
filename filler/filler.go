// Package filler applies values to classified form controls. The static path
// mutates a parsed document directly; the plan types describe the same fills
// for replay inside a live browser, where real input/change events can be
// dispatched.
package filler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/manav-1/jobfill/internal/htmlutil"
)

// Locator pins down one control in a live page. Css is preferred; when a
// control has neither id nor name, Tag+Index fall back to document order.
type Locator struct {
	Css   string `json:"css,omitempty"`
	Tag   string `json:"tag,omitempty"`
	Index int    `json:"index,omitempty"`
}

// Action is one planned fill for one control.
type Action struct {
	Locator     Locator `json:"locator"`
	FieldType   string  `json:"fieldType"`
	ControlType string  `json:"controlType"`
	Value       string  `json:"value"`
}

// Plan is the ordered set of fills produced by one classification pass.
type Plan struct {
	Actions []Action `json:"actions"`
}

// Fill sets a value on the control, honoring control-type semantics:
// checkboxes coerce the value to a boolean, radios only check when the value
// matches, selects match options by value or visible text (case-insensitive
// substring fallback), and everything else takes the value as a string.
// A nil or stale control reference is a no-op returning false, never an
// error: the page may have changed since classification.
func Fill(ctl *goquery.Selection, value string) bool {
	if ctl == nil || ctl.Length() == 0 {
		return false
	}

	switch goquery.NodeName(ctl) {
	case "textarea":
		ctl.SetText(value)
	case "select":
		return selectOption(ctl, value)
	case "input":
		return fillInput(ctl, value)
	default:
		return false
	}
	return true
}

func fillInput(ctl *goquery.Selection, value string) bool {
	switch htmlutil.ControlType(ctl) {
	case "checkbox":
		if truthy(value) {
			ctl.SetAttr("checked", "checked")
		} else {
			ctl.RemoveAttr("checked")
		}
	case "radio":
		own, _ := ctl.Attr("value")
		if own != value {
			return false
		}
		ctl.SetAttr("checked", "checked")
	case "file":
		// File inputs cannot be filled programmatically.
		return false
	default:
		ctl.SetAttr("value", value)
	}
	return true
}

// selectOption marks the first option whose value equals the fill value, or
// whose visible text contains it case-insensitively. Previously selected
// options are cleared for single selects.
func selectOption(ctl *goquery.Selection, value string) bool {
	needle := strings.ToLower(value)
	var matched *goquery.Selection

	ctl.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		val, _ := opt.Attr("value")
		if val == value || strings.Contains(strings.ToLower(opt.Text()), needle) {
			matched = opt
			return false
		}
		return true
	})
	if matched == nil {
		return false
	}

	if _, multiple := ctl.Attr("multiple"); !multiple {
		ctl.Find("option").RemoveAttr("selected")
	}
	matched.SetAttr("selected", "selected")
	return true
}

// truthy mirrors boolean coercion for checkbox fills.
func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

// LocatorFor derives a stable locator for a control: its id, then its name
// scoped to the tag, then the control's document-order index among same-tag
// elements.
func LocatorFor(doc *goquery.Document, ctl *goquery.Selection) Locator {
	tag := goquery.NodeName(ctl)

	if id, exists := ctl.Attr("id"); exists && id != "" {
		return Locator{Css: `[id="` + id + `"]`}
	}
	if name, exists := ctl.Attr("name"); exists && name != "" {
		return Locator{Css: tag + `[name="` + name + `"]`}
	}

	found := 0
	doc.Find(tag).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(s.Nodes) > 0 && len(ctl.Nodes) > 0 && s.Nodes[0] == ctl.Nodes[0] {
			found = i
			return false
		}
		return true
	})
	return Locator{Tag: tag, Index: found}
}
