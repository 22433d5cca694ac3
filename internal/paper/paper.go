// Package paper defines the core domain types shared by the resolution and
// recommendation stages.
package paper

// Match is the outcome of resolving one title against Semantic Scholar.
//
// The zero value is NotFound. A NotFound match covers both "the service had
// no candidate" and "the lookup failed"; the two are not distinguished once
// cached, so a transient failure stays a non-match until a forced update.
type Match struct {
	ID    string // Semantic Scholar paperId, empty unless Found
	Found bool
}

// Found returns a match carrying the given paper ID.
func Found(id string) Match {
	return Match{ID: id, Found: true}
}

// NotFound returns the no-match sentinel.
func NotFound() Match {
	return Match{}
}

// String returns the paper ID, or "<no match>".
func (m Match) String() string {
	if !m.Found {
		return "<no match>"
	}
	return m.ID
}

// Recommendation is a ranked candidate paper returned by the recommendation
// service.
type Recommendation struct {
	PaperID                  string   `json:"paperId"`
	Title                    string   `json:"title"`
	Authors                  []string `json:"authors"`
	URL                      string   `json:"url"`
	Year                     int      `json:"year,omitempty"`
	Abstract                 string   `json:"abstract,omitempty"`
	CitationCount            int      `json:"citationCount"`
	InfluentialCitationCount int      `json:"influentialCitationCount"`
}
