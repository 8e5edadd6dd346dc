package classifier

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/manav-1/jobfill/internal/htmlutil"
)

// FieldInfo is an immutable snapshot of one form control, captured at scan
// time. It is the input to the interactive suggestion path and is safe to
// serialize across the companion API.
type FieldInfo struct {
	FieldName   string `json:"fieldName"`
	FieldID     string `json:"fieldId"`
	FieldType   string `json:"fieldType"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
	Value       string `json:"value"`
}

// ControlInfo captures a FieldInfo snapshot from a live control reference.
func ControlInfo(doc *goquery.Document, ctl *goquery.Selection) FieldInfo {
	name, _ := ctl.Attr("name")
	id, _ := ctl.Attr("id")
	placeholder, _ := ctl.Attr("placeholder")
	return FieldInfo{
		FieldName:   name,
		FieldID:     id,
		FieldType:   htmlutil.ControlType(ctl),
		Placeholder: placeholder,
		Label:       htmlutil.LabelText(doc, ctl),
		Value:       htmlutil.CurrentValue(ctl),
	}
}
