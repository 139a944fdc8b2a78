package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default search request timeout.
const DefaultTimeout = 15 * time.Second

const apiVersion = "2024-07-01"

// SearchClient queries an Azure AI Search index over REST.
type SearchClient struct {
	endpoint string
	index    string
	apiKey   string
	http     *http.Client
}

// NewSearchClient builds a client for one index. The endpoint is the
// service URL without a trailing slash (e.g. https://acme.search.windows.net).
func NewSearchClient(endpoint, index, apiKey string) *SearchClient {
	return &SearchClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		index:    index,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

type searchRequest struct {
	Search    string `json:"search"`
	Top       int    `json:"top"`
	QueryType string `json:"queryType"`
}

type searchResponse struct {
	Value []struct {
		ID      string  `json:"id"`
		Content string  `json:"content"`
		Score   float64 `json:"@search.score"`
	} `json:"value"`
}

// Retrieve runs a keyword search and returns up to topK passages in
// descending relevance order. Passage content is stripped of any HTML
// markup carried over from document ingestion.
func (c *SearchClient) Retrieve(ctx context.Context, q Query, topK int) ([]Passage, error) {
	terms := q.Terms()
	if terms == "" {
		return nil, &Error{Query: terms, Message: "empty query"}
	}
	if topK < 1 {
		topK = 1
	}

	body, err := json.Marshal(searchRequest{Search: terms, Top: topK, QueryType: "simple"})
	if err != nil {
		return nil, &Error{Query: terms, Message: "failed to encode request", Cause: err}
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.index, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Query: terms, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Query: terms, Message: "search request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{
			Query:   terms,
			Message: fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &Error{Query: terms, Message: "failed to decode response", Cause: err}
	}

	passages := make([]Passage, 0, len(parsed.Value))
	for _, v := range parsed.Value {
		content := StripMarkup(v.Content)
		if content == "" {
			continue
		}
		passages = append(passages, Passage{ID: v.ID, Content: content, Score: v.Score})
	}
	return passages, nil
}

// StripMarkup removes HTML tags and collapses whitespace. Content that
// contains no markup passes through with only whitespace normalization.
func StripMarkup(s string) string {
	if strings.ContainsAny(s, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
