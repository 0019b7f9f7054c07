package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/open-cli-collective/folio/pkg/content"
)

// Store adapts a Client to content.Store.
type Store struct {
	client *Client
}

var _ content.Store = (*Store)(nil)

// NewStore returns a content store backed by the REST API.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// GetDocument fetches a document. A missing document yields an error
// wrapping content.ErrNotFound.
func (s *Store) GetDocument(ctx context.Context, id string) (*content.StoredDocument, error) {
	doc, err := s.client.GetDocument(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return toStored(doc), nil
}

// SaveDocument creates the document when it has no ID and otherwise
// updates it, bumping the version.
func (s *Store) SaveDocument(ctx context.Context, doc *content.StoredDocument) (*content.StoredDocument, error) {
	if doc.ID == "" {
		created, err := s.client.CreateDocument(ctx, &CreateDocumentRequest{
			Status:  "published",
			Title:   doc.Title,
			Markup:  doc.Markup,
			HTML:    doc.HTML,
			Excerpt: doc.Excerpt,
			TOC:     doc.TOC,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
		return toStored(created), nil
	}

	updated, err := s.client.UpdateDocument(ctx, doc.ID, &UpdateDocumentRequest{
		ID:      doc.ID,
		Status:  "published",
		Title:   doc.Title,
		Markup:  doc.Markup,
		HTML:    doc.HTML,
		Excerpt: doc.Excerpt,
		TOC:     doc.TOC,
		Version: &Version{Number: doc.Version + 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", notFound(err, doc.ID))
	}
	return toStored(updated), nil
}

// ListDocuments returns one page of documents and the cursor of the next.
func (s *Store) ListDocuments(ctx context.Context, opts content.ListOptions) (*content.ListResult, error) {
	result, err := s.client.ListDocuments(ctx, &ListDocumentsOptions{
		Limit:  opts.Limit,
		Cursor: opts.Cursor,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]content.StoredDocument, 0, len(result.Results))
	for i := range result.Results {
		docs = append(docs, *toStored(&result.Results[i]))
	}
	return &content.ListResult{Documents: docs, NextCursor: result.NextCursor()}, nil
}

func toStored(doc *Document) *content.StoredDocument {
	stored := &content.StoredDocument{
		ID:      doc.ID,
		Title:   doc.Title,
		Markup:  doc.Markup,
		HTML:    doc.HTML,
		Excerpt: doc.Excerpt,
		TOC:     doc.TOC,
		Version: doc.VersionNumber(),
	}
	if doc.Version != nil && !doc.Version.CreatedAt.IsZero() {
		stored.UpdatedAt = doc.Version.CreatedAt.Time
	} else {
		stored.UpdatedAt = doc.CreatedAt.Time
	}
	return stored
}

func notFound(err error, id string) error {
	var apiErr *ErrorResponse
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", content.ErrNotFound, id)
	}
	return err
}
