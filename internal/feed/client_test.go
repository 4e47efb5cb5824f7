package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const worksBody = `{
	"results": [
		{"concepts": [
			{"display_name": "Artificial intelligence", "level": 1},
			{"display_name": "Large language model", "level": 2},
			{"display_name": "Transformer", "level": 3}
		]},
		{"concepts": [
			{"display_name": "Large language model", "level": 2}
		]}
	]
}`

const authorsBody = `{
	"results": [
		{
			"display_name": "Jane Doe",
			"cited_by_count": 5000,
			"works_count": 80,
			"orcid": "https://orcid.org/0000-0001-2345-6789",
			"last_known_institution": {"display_name": "MIT", "country_code": "US"},
			"x_concepts": [
				{"display_name": "Machine Learning"},
				{"display_name": "Computer Vision"}
			]
		},
		{
			"display_name": "John Roe",
			"cited_by_count": 100,
			"works_count": 10,
			"orcid": "",
			"last_known_institution": null,
			"x_concepts": [{"display_name": "Robotics"}]
		}
	]
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
}

func TestTrendingTopicsCountsConcepts(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(worksBody))
	})

	topics, err := client.TrendingTopics(context.Background())
	if err != nil {
		t.Fatalf("TrendingTopics: %v", err)
	}

	// Level-1 concept filtered out; counts aggregated across works.
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2: %v", len(topics), topics)
	}
	if topics[0].Topic != "Large language model" || topics[0].Count != 2 {
		t.Errorf("top topic = %+v, want Large language model ×2", topics[0])
	}
	if topics[1].Topic != "Transformer" || topics[1].Count != 1 {
		t.Errorf("second topic = %+v, want Transformer ×1", topics[1])
	}
}

func TestSearchResearchersMapsAuthors(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authors" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(authorsBody))
	})

	researchers, err := client.SearchResearchers(context.Background(), ResearcherFilter{})
	if err != nil {
		t.Fatalf("SearchResearchers: %v", err)
	}
	if len(researchers) != 2 {
		t.Fatalf("got %d researchers, want 2", len(researchers))
	}

	jane := researchers[0]
	if jane.Name != "Jane Doe" || jane.Affiliation != "MIT" || jane.Country != "US" {
		t.Errorf("mapped researcher = %+v", jane)
	}
	if jane.Citations != 5000 || jane.WorksCount != 80 {
		t.Errorf("counts = %d/%d, want 5000/80", jane.Citations, jane.WorksCount)
	}
	if jane.Link != "https://orcid.org/0000-0001-2345-6789" {
		t.Errorf("link = %s, want ORCID", jane.Link)
	}

	// Missing institution and ORCID degrade gracefully.
	john := researchers[1]
	if john.Affiliation != "Unknown" {
		t.Errorf("affiliation = %q, want Unknown", john.Affiliation)
	}
	if john.Link == "" {
		t.Error("empty link, want scholar search fallback")
	}
}

func TestSearchResearchersTopicFilter(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(authorsBody))
	})

	researchers, err := client.SearchResearchers(context.Background(), ResearcherFilter{Topic: "vision"})
	if err != nil {
		t.Fatalf("SearchResearchers: %v", err)
	}
	if len(researchers) != 1 || researchers[0].Name != "Jane Doe" {
		t.Errorf("topic filter kept %v, want only Jane Doe", researchers)
	}
}

func TestAPIErrorOnBadStatus(t *testing.T) {
	client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.TrendingTopics(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", apiErr.StatusCode)
	}
}

func TestScoreIsCitationsPlusWorks(t *testing.T) {
	r := Researcher{Citations: 100, WorksCount: 20}
	if r.Score() != 120 {
		t.Errorf("Score = %v, want 120", r.Score())
	}
}

type memoryCache struct {
	entries map[string][]byte
	sets    int
}

func (m *memoryCache) Get(key string) ([]byte, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoryCache) Set(key string, value []byte) error {
	m.entries[key] = value
	m.sets++
	return nil
}

func TestClientUsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(worksBody))
	}))
	t.Cleanup(server.Close)

	cache := &memoryCache{entries: map[string][]byte{}}
	client := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithCache(cache))

	if _, err := client.TrendingTopics(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := client.TrendingTopics(context.Background()); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if requests != 1 {
		t.Errorf("server saw %d requests, want 1 (second should hit cache)", requests)
	}
	if cache.sets != 1 {
		t.Errorf("cache stored %d entries, want 1", cache.sets)
	}
}
