package content

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by a Store when a document does not exist.
var ErrNotFound = errors.New("document not found")

// StoredDocument is the persisted form of a piece of content: the markup
// the author wrote plus everything derived from it.
type StoredDocument struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Markup    string    `json:"markup"`
	HTML      string    `json:"html,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	TOC       []Heading `json:"toc,omitempty"`
	Version   int       `json:"version,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ListOptions filters a document listing.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult is one page of a document listing. NextCursor is empty on the
// last page.
type ListResult struct {
	Documents  []StoredDocument
	NextCursor string
}

// Store persists documents. Implementations own transport and storage; the
// pipeline only prepares what they save.
type Store interface {
	GetDocument(ctx context.Context, id string) (*StoredDocument, error)
	SaveDocument(ctx context.Context, doc *StoredDocument) (*StoredDocument, error)
	ListDocuments(ctx context.Context, opts ListOptions) (*ListResult, error)
}

// Prepare derives the rendered HTML, excerpt and table of contents for a
// document from its markup. The document is modified in place.
func (p *Pipeline) Prepare(doc *StoredDocument, excerptLength int) error {
	rendered, err := p.ParseAndRender(doc.Markup)
	if err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	out, err := rendered.HTML()
	if err != nil {
		return err
	}
	doc.HTML = out
	doc.Excerpt = ExtractExcerpt(doc.Markup, excerptLength)
	doc.TOC = ExtractTOC(doc.Markup)
	return nil
}
