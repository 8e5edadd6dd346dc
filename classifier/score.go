package classifier

import (
	"slices"
	"strings"

	"github.com/manav-1/jobfill/internal/textutil"
)

// Score computes the normalized match score between a control's search text
// and a keyword list. Per keyword, case-folded:
//
//   - whole-word occurrence in the search text scores 1.0;
//   - otherwise a plain substring occurrence scores 0.7;
//   - independently, a flat 0.5 bonus is added when any search-text word
//     overlaps the keyword in either direction (word contains keyword, or
//     keyword contains word).
//
// The accumulated score is divided by the keyword count, so types with long
// keyword lists are not advantaged, while a single strong match on a short
// canonical list scores high. An empty keyword list scores 0.
func Score(searchText string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	searchText = strings.ToLower(searchText)
	words := textutil.Words(searchText)

	var score float64
	for _, keyword := range keywords {
		keyword = strings.ToLower(keyword)
		if keyword == "" {
			continue
		}

		if strings.Contains(searchText, keyword) {
			if slices.Contains(words, keyword) {
				score += 1.0
			} else {
				score += 0.7
			}
		}

		for _, word := range words {
			if strings.Contains(word, keyword) || strings.Contains(keyword, word) {
				score += 0.5
				break
			}
		}
	}

	return score / float64(len(keywords))
}
