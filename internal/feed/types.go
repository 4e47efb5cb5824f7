// Package feed fetches trending topics and researcher listings from OpenAlex,
// with embedded mock datasets as the offline fallback.
package feed

// Topic is one trending research topic with its recent-work count.
type Topic struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// Researcher is one author record as surfaced by the directory views.
type Researcher struct {
	Name        string   `json:"name"`
	Affiliation string   `json:"affiliation"`
	Country     string   `json:"country"`
	Link        string   `json:"link"`
	Topics      []string `json:"topics"`
	Citations   int      `json:"citations"`
	WorksCount  int      `json:"works_count"`
}

// Score is the composite ranking used by the radial view: citation count plus
// works count.
func (r Researcher) Score() float64 {
	return float64(r.Citations + r.WorksCount)
}

// ResearcherFilter narrows a researcher search. Empty fields match anything.
type ResearcherFilter struct {
	Topic       string
	Institution string
	Country     string
}

// worksResponse is the shape of the OpenAlex /works listing we consume.
type worksResponse struct {
	Results []struct {
		Concepts []struct {
			DisplayName string  `json:"display_name"`
			Level       int     `json:"level"`
			Score       float64 `json:"score"`
		} `json:"concepts"`
	} `json:"results"`
}

// authorsResponse is the shape of the OpenAlex /authors listing we consume.
type authorsResponse struct {
	Results []struct {
		DisplayName  string `json:"display_name"`
		CitedByCount int    `json:"cited_by_count"`
		WorksCount   int    `json:"works_count"`
		ORCID        string `json:"orcid"`
		Institution  *struct {
			DisplayName string `json:"display_name"`
			CountryCode string `json:"country_code"`
		} `json:"last_known_institution"`
		XConcepts []struct {
			DisplayName string `json:"display_name"`
		} `json:"x_concepts"`
	} `json:"results"`
}
