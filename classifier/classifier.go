// Package classifier maps ambiguous form controls to semantic profile field
// types using a keyword taxonomy and a multi-signal heuristic scorer.
package classifier

import (
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/manav-1/jobfill/internal/htmlutil"
)

// DefaultThreshold is the minimum normalized score a control needs to be
// accepted as a match. The threshold is inclusive.
const DefaultThreshold = 0.6

// Classifier scans a document's form controls against a keyword mapping.
type Classifier struct {
	Mapping   Mapping
	Threshold float64
}

// New creates a Classifier with the given mapping and the default threshold.
// A nil mapping falls back to the built-in taxonomy.
func New(mapping Mapping) *Classifier {
	if mapping == nil {
		mapping = DefaultMapping()
	}
	return &Classifier{Mapping: mapping, Threshold: DefaultThreshold}
}

// Match is one accepted (field type, control) pair.
type Match struct {
	Type    string
	Score   float64
	Control *goquery.Selection
}

// Result holds at most one control per semantic field type, in mapping
// order. Results are rebuilt on every pass and never cached: the page can
// change between scans.
type Result struct {
	matches []Match
	byType  map[string]int
}

// Matches returns the accepted matches in mapping order.
func (r *Result) Matches() []Match {
	if r == nil {
		return nil
	}
	return r.matches
}

// Control returns the selected control for a field type, or nil when the
// type was not classified.
func (r *Result) Control(fieldType string) *goquery.Selection {
	if r == nil {
		return nil
	}
	idx, ok := r.byType[fieldType]
	if !ok {
		return nil
	}
	return r.matches[idx].Control
}

// Len returns the number of classified field types.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.matches)
}

type candidate struct {
	control *goquery.Selection
	score   float64
}

// Classify scores every control on the page against every semantic type and
// selects, per type, the best candidate at or above the threshold. Ties are
// broken by document order (stable sort). A control may be selected for more
// than one type; the batch path does not enforce cross-type exclusivity.
// Zero controls or an empty mapping yield an empty result, not an error.
func (c *Classifier) Classify(doc *goquery.Document) *Result {
	threshold := c.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	controls := htmlutil.FormControls(doc)

	// Search text is a pure function of the control's current attributes;
	// extract once per control per pass.
	texts := make([]string, len(controls))
	for i, ctl := range controls {
		texts[i] = htmlutil.SearchText(doc, ctl)
	}

	result := &Result{byType: make(map[string]int)}

	for _, entry := range c.Mapping {
		var candidates []candidate
		for i, ctl := range controls {
			s := Score(texts[i], entry.Keywords)
			if s >= threshold {
				candidates = append(candidates, candidate{control: ctl, score: s})
			}
		}
		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].score > candidates[j].score
		})

		result.byType[entry.Type] = len(result.matches)
		result.matches = append(result.matches, Match{
			Type:    entry.Type,
			Score:   candidates[0].score,
			Control: candidates[0].control,
		})
	}

	return result
}

// ClassifyHTML parses the HTML string and classifies its controls.
func (c *Classifier) ClassifyHTML(html string) (*Result, *goquery.Document, error) {
	doc, err := htmlutil.LoadHTMLString(html)
	if err != nil {
		return nil, nil, err
	}
	return c.Classify(doc), doc, nil
}
