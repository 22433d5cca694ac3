package s2

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// GraphBaseURL is the Academic Graph API base URL.
	GraphBaseURL = "https://api.semanticscholar.org/graph/v1"

	// RecommendationsBaseURL is the Recommendations API base URL.
	RecommendationsBaseURL = "https://api.semanticscholar.org/recommendations/v1"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is one request per second, the introductory rate for
	// API keys and a polite pace for anonymous use.
	DefaultRateLimit = 1.0

	// RecommendationFields is the fixed projection requested for recommendations.
	RecommendationFields = "title,url,year,abstract,authors,citationCount,influentialCitationCount"

	// MaxRecommendationLimit is the provider ceiling on returned recommendations.
	MaxRecommendationLimit = 500

	// MaxPositivePapers is the provider ceiling on positive seed papers.
	MaxPositivePapers = 100

	apiKeyHeader = "x-api-key"

	// maxBodyBytes bounds response bodies (10MB).
	maxBodyBytes = 10 << 20
)

// Client is a rate-limited HTTP client for the Semantic Scholar APIs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	graphURL   string
	recsURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets the Academic Graph base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.graphURL = strings.TrimRight(u, "/")
	}
}

// WithRecommendationsURL sets the Recommendations base URL (for testing).
func WithRecommendationsURL(u string) ClientOption {
	return func(c *Client) {
		c.recsURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit sets the maximum requests per second.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewClient creates a new Semantic Scholar client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		graphURL:   GraphBaseURL,
		recsURL:    RecommendationsBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MatchTitle returns the best title match for the query string.
// Returns ErrNotFound when the service has no candidate.
func (c *Client) MatchTitle(ctx context.Context, title string) (*MatchResult, error) {
	q := url.Values{}
	q.Set("query", title)
	q.Set("fields", "title")
	endpoint := c.graphURL + "/paper/search/match?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var resp matchResponse
	if err := c.do(req, "paper/search/match", &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || resp.Data[0].PaperID == "" {
		return nil, ErrNotFound
	}

	return &resp.Data[0], nil
}

// Recommend requests up to limit papers related to the positive seed papers.
// Papers are returned in the provider's ranked order.
func (c *Client) Recommend(ctx context.Context, positiveIDs []string, limit int) ([]Paper, error) {
	if len(positiveIDs) == 0 {
		return nil, errors.New("no positive paper IDs")
	}
	if limit <= 0 || limit > MaxRecommendationLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d", MaxRecommendationLimit, limit)
	}

	body, err := json.Marshal(recommendationRequest{
		PositivePaperIDs: positiveIDs,
		NegativePaperIDs: []string{},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	q := url.Values{}
	q.Set("fields", RecommendationFields)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := c.recsURL + "/papers/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp recommendationResponse
	if err := c.do(req, "recommendations", &resp); err != nil {
		return nil, err
	}

	return resp.RecommendedPapers, nil
}

// do waits on the limiter, sends the request, checks the status, and decodes
// the JSON body into out. Exactly one attempt is made.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, endpoint); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrInvalidResponse, endpoint, err)
	}

	return nil
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := readErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Endpoint:   endpoint,
	}
}

// readErrorMessage extracts a message from an error body (limited to 1MB).
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || len(data) == 0 {
		return "no error body"
	}

	var errResp errorResponse
	if err := json.Unmarshal(data, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	return strings.TrimSpace(string(data))
}
