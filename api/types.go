// Package api provides the portfolio backend REST API client.
package api

import (
	"net/url"
	"time"

	"github.com/open-cli-collective/folio/pkg/content"
)

// PaginatedResponse wraps paginated API responses.
type PaginatedResponse[T any] struct {
	Results []T   `json:"results"`
	Links   Links `json:"_links,omitempty"`
}

// Links contains pagination and navigation links.
type Links struct {
	Next  string `json:"next,omitempty"`
	WebUI string `json:"webui,omitempty"`
}

// HasMore returns true if there are more results available.
func (p *PaginatedResponse[T]) HasMore() bool {
	return p.Links.Next != ""
}

// NextCursor extracts the cursor parameter from the next link. It is empty
// on the last page.
func (p *PaginatedResponse[T]) NextCursor() string {
	if p.Links.Next == "" {
		return ""
	}
	u, err := url.Parse(p.Links.Next)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}

// Document represents a stored piece of content on the backend.
type Document struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Title     string            `json:"title"`
	Slug      string            `json:"slug,omitempty"`
	Markup    string            `json:"markup,omitempty"`
	HTML      string            `json:"html,omitempty"`
	Excerpt   string            `json:"excerpt,omitempty"`
	TOC       []content.Heading `json:"toc,omitempty"`
	CreatedAt Time              `json:"createdAt,omitempty"`
	Version   *Version          `json:"version,omitempty"`
	Links     Links             `json:"_links,omitempty"`
}

// Version contains document version information.
type Version struct {
	Number    int    `json:"number"`
	Message   string `json:"message,omitempty"`
	CreatedAt Time   `json:"createdAt,omitempty"`
}

// VersionNumber returns the document version, or 0 when unknown.
func (d *Document) VersionNumber() int {
	if d.Version == nil {
		return 0
	}
	return d.Version.Number
}

// Time is a wrapper around time.Time for custom JSON parsing.
type Time struct {
	time.Time
}

// UnmarshalJSON parses the backend's ISO 8601 date format.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)

	// Handle null or empty
	if s == "null" || s == `""` || s == "" {
		return nil
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" {
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try alternative format
		parsed, err = time.Parse("2006-01-02T15:04:05.000Z", s)
		if err != nil {
			return err
		}
	}

	t.Time = parsed
	return nil
}

// MarshalJSON formats time in ISO 8601 format.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Status  string            `json:"status,omitempty"`
	Title   string            `json:"title"`
	Markup  string            `json:"markup"`
	HTML    string            `json:"html"`
	Excerpt string            `json:"excerpt"`
	TOC     []content.Heading `json:"toc"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Title   string            `json:"title"`
	Markup  string            `json:"markup"`
	HTML    string            `json:"html"`
	Excerpt string            `json:"excerpt"`
	TOC     []content.Heading `json:"toc"`
	Version *Version          `json:"version"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func (e *ErrorResponse) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return e.Message
}
