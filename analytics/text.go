package analytics

import (
	"regexp"
	"sort"
	"strings"
)

// ============================================================================
// TEXT ANALYSIS — Word frequencies over track titles
// ============================================================================

// WordCount is one word and its occurrence count.
type WordCount struct {
	Word      string
	Frequency int
}

// defaultStopwords is the fixed English function-word set dropped when
// the caller supplies none.
var defaultStopwords = map[string]bool{
	"the": true, "a": true, "and": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "with": true,
}

var nonLetter = regexp.MustCompile(`[^a-z\s]+`)

// TopWordsInTrackTitles counts words across catalog track titles:
// lower-cased, stripped to letters and whitespace, stopwords dropped.
// Returns the top n by frequency descending; equal frequencies order
// alphabetically so the result is reproducible.
func (a *Analyzer) TopWordsInTrackTitles(n int, stopwords map[string]bool) ([]WordCount, error) {
	if a.catalog == nil {
		return nil, &MissingCatalogError{Op: "text analysis"}
	}
	if !a.catalog.HasColumn("Name") {
		return nil, &MissingColumnError{Columns: []string{"Name"}}
	}
	if stopwords == nil {
		stopwords = defaultStopwords
	}

	counts := make(map[string]int)
	for i := 0; i < a.catalog.NumRows(); i++ {
		title, ok := a.catalog.String(i, "Name")
		if !ok {
			continue
		}
		cleaned := nonLetter.ReplaceAllString(strings.ToLower(title), "")
		for _, w := range strings.Fields(cleaned) {
			if !stopwords[w] {
				counts[w]++
			}
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Frequency: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Word < out[j].Word
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
