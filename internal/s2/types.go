// Package s2 provides a client for the Semantic Scholar Academic Graph and
// Recommendations APIs.
package s2

import "github.com/matsen/zotrec/internal/paper"

// MatchResult is one candidate from the title match endpoint.
type MatchResult struct {
	PaperID    string  `json:"paperId"`
	Title      string  `json:"title"`
	MatchScore float64 `json:"matchScore,omitempty"`
}

// matchResponse is the body of GET /paper/search/match.
type matchResponse struct {
	Data []MatchResult `json:"data"`
}

// Author is an author entry in a recommended paper.
type Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// Paper is a recommended paper as returned by the API.
type Paper struct {
	PaperID                  string   `json:"paperId"`
	Title                    string   `json:"title"`
	URL                      string   `json:"url"`
	Year                     int      `json:"year"`
	Abstract                 string   `json:"abstract"`
	Authors                  []Author `json:"authors"`
	CitationCount            int      `json:"citationCount"`
	InfluentialCitationCount int      `json:"influentialCitationCount"`
}

// ToRecommendation converts an API paper to the domain type.
func (p Paper) ToRecommendation() paper.Recommendation {
	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		authors = append(authors, a.Name)
	}
	return paper.Recommendation{
		PaperID:                  p.PaperID,
		Title:                    p.Title,
		Authors:                  authors,
		URL:                      p.URL,
		Year:                     p.Year,
		Abstract:                 p.Abstract,
		CitationCount:            p.CitationCount,
		InfluentialCitationCount: p.InfluentialCitationCount,
	}
}

// recommendationRequest is the body of POST /papers/ on the
// recommendations API.
type recommendationRequest struct {
	PositivePaperIDs []string `json:"positivePaperIds"`
	NegativePaperIDs []string `json:"negativePaperIds"`
}

// recommendationResponse is the body returned by POST /papers/.
type recommendationResponse struct {
	RecommendedPapers []Paper `json:"recommendedPapers"`
}

// errorResponse is the error body shape used by both APIs.
type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
