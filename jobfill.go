// Package jobfill detects job-application form fields in HTML pages and
// fills them from a stored applicant profile.
//
//	e := jobfill.New(nil)
//	report, _ := e.Detect(htmlString)
//	for _, f := range report.Fields {
//	    fmt.Println(f.Type, f.Name, f.Score) // "email" "contact_email" 0.81
//	}
//	filled, _ := e.FillHTML(htmlString, prof)
//	fmt.Println(filled.Count) // number of fields written
package jobfill

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/manav-1/jobfill/classifier"
	"github.com/manav-1/jobfill/filler"
	"github.com/manav-1/jobfill/internal/htmlutil"
	"github.com/manav-1/jobfill/profile"
)

// Engine wires the classifier and the fill planner behind one API.
type Engine struct {
	c *classifier.Classifier
}

// New creates an Engine. A nil mapping uses the built-in taxonomy.
func New(mapping classifier.Mapping) *Engine {
	return &Engine{c: classifier.New(mapping)}
}

// SetThreshold overrides the classification threshold.
func (e *Engine) SetThreshold(threshold float64) {
	e.c.Threshold = threshold
}

// DetectedField describes one classified control in a detection report.
type DetectedField struct {
	Type        string  `json:"type"`
	Name        string  `json:"name,omitempty"`
	ID          string  `json:"id,omitempty"`
	ControlType string  `json:"controlType"`
	Label       string  `json:"label,omitempty"`
	Score       float64 `json:"score"`
}

// Report is the serializable outcome of one classification pass.
type Report struct {
	Controls int             `json:"controls"`
	Fields   []DetectedField `json:"fields"`
}

// Detect classifies all form controls in the HTML string and returns a
// report in mapping order. A page without controls yields an empty report.
func (e *Engine) Detect(page string) (*Report, error) {
	result, doc, err := e.c.ClassifyHTML(page)
	if err != nil {
		return nil, fmt.Errorf("jobfill: %w", err)
	}

	report := &Report{Controls: len(htmlutil.FormControls(doc))}
	for _, m := range result.Matches() {
		name, _ := m.Control.Attr("name")
		id, _ := m.Control.Attr("id")
		report.Fields = append(report.Fields, DetectedField{
			Type:        m.Type,
			Name:        name,
			ID:          id,
			ControlType: htmlutil.ControlType(m.Control),
			Label:       htmlutil.LabelText(doc, m.Control),
			Score:       m.Score,
		})
	}
	return report, nil
}

// BuildPlan classifies the page and plans fills from the profile. Only
// controls that are currently empty get an action; semantic types without a
// profile value are skipped.
func (e *Engine) BuildPlan(page string, p *profile.Profile) (*filler.Plan, error) {
	result, doc, err := e.c.ClassifyHTML(page)
	if err != nil {
		return nil, fmt.Errorf("jobfill: %w", err)
	}

	plan := &filler.Plan{}
	claimed := make(map[*html.Node]bool)
	for _, m := range result.Matches() {
		value := p.Value(m.Type)
		if value == "" {
			continue
		}
		if !htmlutil.IsEmpty(m.Control) {
			continue
		}
		// A control is written at most once per pass; the earliest mapping
		// type keeps it even when a later type scored it higher.
		if node := controlNode(m.Control); node == nil || claimed[node] {
			continue
		} else {
			claimed[node] = true
		}
		plan.Actions = append(plan.Actions, filler.Action{
			Locator:     filler.LocatorFor(doc, m.Control),
			FieldType:   m.Type,
			ControlType: htmlutil.ControlType(m.Control),
			Value:       value,
		})
	}
	return plan, nil
}

// Filled is the outcome of a static fill pass.
type Filled struct {
	HTML  string
	Count int
}

// FillHTML classifies the page, writes profile values into empty controls
// and returns the serialized document. Controls with existing values are
// never overwritten.
func (e *Engine) FillHTML(page string, p *profile.Profile) (*Filled, error) {
	result, doc, err := e.c.ClassifyHTML(page)
	if err != nil {
		return nil, fmt.Errorf("jobfill: %w", err)
	}

	count := 0
	claimed := make(map[*html.Node]bool)
	for _, m := range result.Matches() {
		value := p.Value(m.Type)
		if value == "" || !htmlutil.IsEmpty(m.Control) {
			continue
		}
		node := controlNode(m.Control)
		if node == nil || claimed[node] {
			continue
		}
		claimed[node] = true
		if filler.Fill(m.Control, value) {
			count++
		}
	}

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("jobfill: serialize document: %w", err)
	}
	return &Filled{HTML: out, Count: count}, nil
}

// Suggest proposes candidate values for one focused field.
func (e *Engine) Suggest(info classifier.FieldInfo, p *profile.Profile) []classifier.Suggestion {
	return classifier.Suggest(info, p)
}

// Mapping returns the engine's keyword mapping.
func (e *Engine) Mapping() classifier.Mapping {
	return e.c.Mapping
}

func controlNode(ctl *goquery.Selection) *html.Node {
	if ctl == nil || len(ctl.Nodes) == 0 {
		return nil
	}
	return ctl.Nodes[0]
}
