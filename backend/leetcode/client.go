package leetcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dsatracker/backend/config"
	"dsatracker/backend/metrics"

	"github.com/goccy/go-json"
)

// Metric and log labels for each upstream call.
const (
	SourceStats     = "graphql-stats"
	SourceGraphQL   = "graphql-calendar"
	SourceRESTPath  = "rest-path"
	SourceRESTQuery = "rest-query"
)

const maxResponseBytes = 8 << 20

type Options struct {
	BaseURL    string
	GraphQLURL string
	UserAgent  string
	Timeout    time.Duration

	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
	// Now overrides the clock used to pick calendar years.
	Now func() time.Time
}

// OptionsFromConfig maps application config onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:    cfg.LeetCodeBaseURL,
		GraphQLURL: cfg.LeetCodeGraphQLURL,
		UserAgent:  cfg.LeetCodeUserAgent,
		Timeout:    cfg.LeetCodeTimeout,
	}
}

// Client talks to the coding-judge site. It holds no per-user state; every
// call issues its own requests.
type Client struct {
	baseURL    string
	graphQLURL string
	userAgent  string
	http       *http.Client
	now        func() time.Time
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://leetcode.com"
	}
	gql := opts.GraphQLURL
	if gql == "" {
		gql = base + "/graphql"
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "dsa-tracker/1.0"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		baseURL:    base,
		graphQLURL: gql,
		userAgent:  ua,
		http:       httpClient,
		now:        now,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func (c *Client) postGraphQL(ctx context.Context, source, username, query string, variables map[string]interface{}) ([]byte, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphQLURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, source, username)
}

func (c *Client) get(ctx context.Context, source, username, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}
	return c.do(req, source, username)
}

// do sends req with browser-origin headers and returns the body of a 2xx
// response. Everything else becomes an *UpstreamError.
func (c *Client) do(req *http.Request, source, username string) ([]byte, error) {
	req.Header.Set("Referer", c.baseURL+"/"+username+"/")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Op: source, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Op: source, Err: fmt.Errorf("http %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))}
	}
	return body, nil
}
