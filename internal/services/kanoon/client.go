// File: internal/services/kanoon/client.go
package kanoon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// SearchResult is one hit from the search endpoint.
type SearchResult struct {
	TID         int    `json:"tid"`
	Title       string `json:"title"`
	Headline    string `json:"headline"`
	DocSource   string `json:"docsource"`
	PublishDate string `json:"publishdate"`
	DocDate     string `json:"docdate"`
}

// Date prefers the publish date the API normally returns.
func (r SearchResult) Date() string {
	if r.PublishDate != "" {
		return r.PublishDate
	}
	return r.DocDate
}

type searchResponse struct {
	Docs []SearchResult `json:"docs"`
}

// Document is the full text of a judgment or statute.
type Document struct {
	TID         int    `json:"tid"`
	Title       string `json:"title"`
	Doc         string `json:"doc"`
	DocSource   string `json:"docsource"`
	PublishDate string `json:"publishdate"`
}

// Logger is the logging surface the client needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Client calls the Indian Kanoon API.
type Client struct {
	config *Config
	http   *http.Client
	logger Logger
}

func NewClient(config *Config, logger Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, &SearchError{Type: ErrTypeConfig, Message: err.Error()}
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.config.APIKey != ""
}

func (c *Client) Search(ctx context.Context, query string, page int) ([]SearchResult, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	params := url.Values{}
	params.Set("formInput", query)
	params.Set("pagenum", strconv.Itoa(page))
	params.Set("maxpages", "1")

	var resp searchResponse
	if err := c.call(ctx, "/search/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Docs, nil
}

func (c *Client) Document(ctx context.Context, tid int) (*Document, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	var doc Document
	if err := c.call(ctx, fmt.Sprintf("/doc/%d/", tid), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// TopDocuments searches and then fetches the first n hits concurrently. A hit
// whose full text cannot be fetched keeps its search headline as the excerpt.
func (c *Client) TopDocuments(ctx context.Context, query string, n int) ([]domain.LegalReference, error) {
	results, err := c.Search(ctx, query, 0)
	if err != nil {
		return nil, err
	}
	if len(results) > n {
		results = results[:n]
	}

	refs := make([]domain.LegalReference, len(results))
	g, gctx := errgroup.WithContext(ctx)
	for i, res := range results {
		i, res := i, res
		refs[i] = domain.LegalReference{
			Title:   res.Title,
			Source:  res.DocSource,
			Date:    res.Date(),
			Link:    fmt.Sprintf(PublicDocURL, strconv.Itoa(res.TID)),
			Excerpt: Excerpt(HTMLToText(res.Headline), c.config.ExcerptChars),
		}
		if res.TID == 0 {
			continue
		}
		g.Go(func() error {
			doc, err := c.Document(gctx, res.TID)
			if err != nil {
				c.logger.Warn("legal document fetch failed, using headline", "tid", res.TID, "error", err)
				return nil
			}
			if text := HTMLToText(doc.Doc); text != "" {
				refs[i].Excerpt = Excerpt(text, c.config.ExcerptChars)
			}
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("legal references fetched", "count", len(refs))
	return refs, nil
}

func (c *Client) call(ctx context.Context, path string, out interface{}) error {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return &SearchError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Authorization", "Token "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &SearchError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SearchError{
			Type:       ErrTypeHTTP,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &SearchError{Type: ErrTypeDecode, Message: "invalid response body", Cause: err}
	}
	return nil
}

// HTMLToText flattens an HTML fragment to whitespace-normalised text.
func HTMLToText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			buf.WriteString(" ")
		case html.ElementNode:
			if node.Data == "script" || node.Data == "style" {
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// Excerpt cuts text to at most limit runes and marks the cut with an ellipsis.
func Excerpt(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + "..."
}
