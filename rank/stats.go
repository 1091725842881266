package rank

import (
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/token"
)

// Stats carries the corpus statistics BM25 needs: document count, average
// field lengths, and per-field document frequencies. Backends that compute
// BM25 natively return the statistics they used, so locally computed scores
// stay comparable to native ones; when a backend supplies none, the scorer
// derives statistics from the candidate set itself.
type Stats struct {
	// DocCount is the number of documents behind the statistics.
	DocCount int

	// FieldDocs maps field name to the number of documents carrying the
	// field with non-empty text.
	FieldDocs map[string]int

	// TokenCount maps field name to the total token count across those
	// documents. Average field length is TokenCount/FieldDocs.
	TokenCount map[string]int

	// DocFreq maps field name to term to the number of documents whose
	// field contains the term.
	DocFreq map[string]map[string]int
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{
		FieldDocs:  make(map[string]int),
		TokenCount: make(map[string]int),
		DocFreq:    make(map[string]map[string]int),
	}
}

// AddDocument folds one document's textual fields into the statistics.
func (st *Stats) AddDocument(doc *core.Document) {
	if doc == nil || doc.Attrs == nil {
		return
	}
	st.DocCount++
	for field := range doc.Attrs {
		content := doc.Strings(field)
		if len(content) == 0 {
			continue
		}

		var length int
		seen := make(map[string]bool)
		for _, s := range content {
			for _, tok := range token.Tokenize(s) {
				length++
				seen[tok] = true
			}
		}
		if length == 0 {
			continue
		}

		st.FieldDocs[field]++
		st.TokenCount[field] += length

		df := st.DocFreq[field]
		if df == nil {
			df = make(map[string]int)
			st.DocFreq[field] = df
		}
		for tok := range seen {
			df[tok]++
		}
	}
}

// AvgLen returns the average token length of a field, defaulting to 1 so
// length normalization stays defined for unseen fields.
func (st *Stats) AvgLen(field string) float64 {
	docs := st.FieldDocs[field]
	if docs == 0 {
		return 1
	}
	return float64(st.TokenCount[field]) / float64(docs)
}

// DF returns the document frequency of a term within a field.
func (st *Stats) DF(field, term string) int {
	if df, ok := st.DocFreq[field]; ok {
		return df[term]
	}
	return 0
}

// StatsFromDocuments derives statistics from a candidate set. Used when the
// backend did not supply collection-level statistics.
func StatsFromDocuments(docs []*core.Document) *Stats {
	st := NewStats()
	for _, doc := range docs {
		st.AddDocument(doc)
	}
	return st
}
