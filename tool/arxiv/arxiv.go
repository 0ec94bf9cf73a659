// Package arxiv searches the arXiv export API and exposes the search as
// the search_arXiv tool.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/internal/retry"
)

// DefaultBaseURL is the arXiv export API query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

// Paper is one search hit.
type Paper struct {
	ID        string
	Title     string
	Authors   []string
	Summary   string
	Published time.Time
}

// Client queries the arXiv API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      retry.Config
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry sets the retry policy for transient upstream failures.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an arXiv client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		retry:      retry.DefaultConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to maxResults papers for query, most relevant first.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ai.NewUserInputError("arxiv: query must be a non-empty string", 0, nil)
	}
	if maxResults < 1 {
		return nil, ai.NewUserInputError(fmt.Sprintf("arxiv: max_results must be at least 1, got %d", maxResults), 0, nil)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("arxiv: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("search_query", "all:"+query)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(maxResults))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")
	u.RawQuery = q.Encode()

	notify := func(attempt int, delay time.Duration, err error) {
		c.logger.Warn("arxiv request failed, retrying",
			"attempt", attempt, "delay", delay, "error", err)
	}

	return retry.Do(ctx, c.retry, func(ctx context.Context) ([]Paper, error) {
		return c.fetch(ctx, u.String())
	}, notify)
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: create request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, ai.NewHTTPError(
			fmt.Sprintf("arxiv: unexpected status %d", resp.StatusCode),
			resp.StatusCode,
			parseRetryAfter(resp.Header.Get("Retry-After")),
			errors.New(strings.TrimSpace(string(body))),
		)
	}

	feed, err := new(atom.Parser).Parse(resp.Body)
	if err != nil {
		return nil, ai.NewPermanentError("arxiv: malformed feed", resp.StatusCode, err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		// arXiv reports query errors as a single entry titled "Error".
		if strings.EqualFold(strings.TrimSpace(e.Title), "error") {
			return nil, ai.NewUserInputError("arxiv: query rejected", resp.StatusCode, errors.New(collapse(e.Summary)))
		}
		p := Paper{
			ID:      strings.TrimSpace(e.ID),
			Title:   collapse(e.Title),
			Summary: collapse(e.Summary),
		}
		for _, a := range e.Authors {
			if a != nil && a.Name != "" {
				p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
			}
		}
		if e.PublishedParsed != nil {
			p.Published = *e.PublishedParsed
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// collapse joins the lines of a feed field with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}
