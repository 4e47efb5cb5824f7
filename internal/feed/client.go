package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the OpenAlex API base URL.
	BaseURL = "https://api.openalex.org"

	// AIConceptID is the OpenAlex concept id for Artificial Intelligence,
	// used to scope both work and author queries.
	AIConceptID = "C154945302"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit matches the OpenAlex polite-pool allowance of 10 req/s.
	RateLimit = 10.0

	// TrendingWindowDays is how far back the trending query looks.
	TrendingWindowDays = 30

	// TrendingTopN caps how many trending topics a fetch returns.
	TrendingTopN = 30

	// minConceptLevel filters out very broad concepts ("Computer science")
	// that would dominate every count.
	minConceptLevel = 2

	// researcherSearchLimit is the per_page for author searches.
	researcherSearchLimit = 50
)

// APIError is a non-2xx response from OpenAlex.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openalex: status %d: %s", e.StatusCode, e.Message)
}

// Cache stores raw API responses keyed by request URL so repeat CLI runs do
// not re-hit the API inside the TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client is a rate-limited OpenAlex client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	cache      Cache
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithMailto sets the polite-pool contact address.
func WithMailto(email string) ClientOption {
	return func(c *Client) { c.mailto = email }
}

// WithCache attaches a response cache.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// WithLogger attaches a logger.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = logger }
}

// NewClient creates an OpenAlex client. OPENALEX_EMAIL, when set, joins the
// polite pool.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		log:        zerolog.Nop(),
	}

	if email := os.Getenv("OPENALEX_EMAIL"); email != "" {
		c.mailto = email
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TrendingTopics queries recent AI works and counts their concept tags,
// returning the most frequent concepts as trending topics, highest count
// first.
func (c *Client) TrendingTopics(ctx context.Context) ([]Topic, error) {
	since := time.Now().AddDate(0, 0, -TrendingWindowDays).Format("2006-01-02")

	params := url.Values{}
	params.Set("filter", fmt.Sprintf("concepts.id:%s,from_publication_date:%s", AIConceptID, since))
	params.Set("per_page", "200")

	var resp worksResponse
	if err := c.getJSON(ctx, "/works", params, &resp); err != nil {
		return nil, fmt.Errorf("fetching trending works: %w", err)
	}

	counts := make(map[string]int)
	for _, work := range resp.Results {
		for _, concept := range work.Concepts {
			if concept.DisplayName != "" && concept.Level >= minConceptLevel {
				counts[concept.DisplayName]++
			}
		}
	}

	topics := make([]Topic, 0, len(counts))
	for name, count := range counts {
		topics = append(topics, Topic{Topic: name, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > TrendingTopN {
		topics = topics[:TrendingTopN]
	}

	c.log.Debug().Int("topics", len(topics)).Msg("trending topics fetched")
	return topics, nil
}

// SearchResearchers queries the OpenAlex authors listing with the given
// filter, sorted by citation count descending.
func (c *Client) SearchResearchers(ctx context.Context, filter ResearcherFilter) ([]Researcher, error) {
	filters := []string{fmt.Sprintf("concepts.id:%s", AIConceptID)}
	if filter.Institution != "" {
		filters = append(filters, "last_known_institution.display_name.search:"+filter.Institution)
	}
	if filter.Country != "" {
		filters = append(filters, "last_known_institution.country_code:"+strings.ToUpper(filter.Country))
	}

	params := url.Values{}
	params.Set("filter", strings.Join(filters, ","))
	params.Set("per_page", fmt.Sprintf("%d", researcherSearchLimit))
	params.Set("sort", "cited_by_count:desc")

	var resp authorsResponse
	if err := c.getJSON(ctx, "/authors", params, &resp); err != nil {
		return nil, fmt.Errorf("searching researchers: %w", err)
	}

	researchers := make([]Researcher, 0, len(resp.Results))
	for _, author := range resp.Results {
		topics := make([]string, 0, 5)
		for _, concept := range author.XConcepts {
			if len(topics) == 5 {
				break
			}
			topics = append(topics, concept.DisplayName)
		}

		affiliation := "Unknown"
		country := ""
		if author.Institution != nil {
			if author.Institution.DisplayName != "" {
				affiliation = author.Institution.DisplayName
			}
			country = author.Institution.CountryCode
		}

		link := author.ORCID
		if link == "" {
			link = "https://scholar.google.com/scholar?q=" + url.QueryEscape(author.DisplayName)
		}

		researchers = append(researchers, Researcher{
			Name:        author.DisplayName,
			Affiliation: affiliation,
			Country:     country,
			Link:        link,
			Topics:      topics,
			Citations:   author.CitedByCount,
			WorksCount:  author.WorksCount,
		})
	}

	// Topic filtering happens client-side: OpenAlex author search by
	// concept name is unreliable, so the AI concept scopes the query and
	// the free-text topic narrows it here.
	if filter.Topic != "" {
		researchers = filterByTopic(researchers, filter.Topic)
	}

	c.log.Debug().Int("researchers", len(researchers)).Msg("researcher search done")
	return researchers, nil
}

// filterByTopic keeps researchers whose topic list contains the query as a
// case-insensitive substring.
func filterByTopic(researchers []Researcher, topic string) []Researcher {
	query := strings.ToLower(topic)
	kept := researchers[:0]
	for _, r := range researchers {
		for _, t := range r.Topics {
			if strings.Contains(strings.ToLower(t), query) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// getJSON performs a rate-limited GET against the API, consulting the cache
// first, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	requestURL := c.baseURL + path + "?" + params.Encode()

	if c.cache != nil {
		if body, ok := c.cache.Get(requestURL); ok {
			c.log.Debug().Str("url", requestURL).Msg("cache hit")
			return json.Unmarshal(body, out)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if c.cache != nil {
		if err := c.cache.Set(requestURL, body); err != nil {
			// A failed cache write is not a failed fetch.
			c.log.Warn().Err(err).Msg("caching response failed")
		}
	}

	return json.Unmarshal(body, out)
}
