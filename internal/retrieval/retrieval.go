// Package retrieval provides grounding-passage search for question
// generation. The production backend is an Azure AI Search index queried
// through its REST API; tests substitute an in-memory retriever.
package retrieval

import (
	"context"
	"fmt"
)

// Passage is a single grounding document fragment returned by search.
type Passage struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Query describes what to search for.
type Query struct {
	Text     string
	Company  string
	JobTitle string
}

// Terms joins the query parts into a single search string.
func (q Query) Terms() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{q.Company, q.JobTitle, q.Text} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

// Retriever searches a document index for grounding passages.
type Retriever interface {
	Retrieve(ctx context.Context, q Query, topK int) ([]Passage, error)
}

// Error represents a failure talking to the search backend.
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("retrieval error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("retrieval error for %q: %s", e.Query, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
