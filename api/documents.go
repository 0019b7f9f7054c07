package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListDocumentsOptions contains options for listing documents.
type ListDocumentsOptions struct {
	Limit  int
	Cursor string
	Status string // published, draft, archived
	Sort   string // title, -title, modified-date, -modified-date
	Title  string // Filter by title (contains)
}

// ListDocuments returns a page of documents.
func (c *Client) ListDocuments(ctx context.Context, opts *ListDocumentsOptions) (*PaginatedResponse[Document], error) {
	params := url.Values{}
	params.Set("limit", "25") // Default limit

	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Cursor != "" {
			params.Set("cursor", opts.Cursor)
		}
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.Sort != "" {
			params.Set("sort", opts.Sort)
		}
		if opts.Title != "" {
			params.Set("title", opts.Title)
		}
	}

	return doJSON[PaginatedResponse[Document]](ctx, c, http.MethodGet, "/api/documents?"+params.Encode(), nil, "documents")
}

func documentPath(id string) string {
	return "/api/documents/" + url.PathEscape(id)
}

// GetDocument returns a single document by ID.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	return doJSON[Document](ctx, c, http.MethodGet, documentPath(id), nil, "document")
}

// CreateDocument creates a new document.
func (c *Client) CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*Document, error) {
	return doJSON[Document](ctx, c, http.MethodPost, "/api/documents", req, "create document")
}

// UpdateDocument replaces the content of an existing document. The request
// must carry the next version number.
func (c *Client) UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*Document, error) {
	return doJSON[Document](ctx, c, http.MethodPut, documentPath(id), req, "update document")
}

// DeleteDocument deletes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, documentPath(id), nil)
	return err
}
