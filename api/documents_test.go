package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/folio/pkg/content"
)

func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err)
	return data
}

func TestClient_ListDocuments(t *testing.T) {
	testData := loadTestData(t, "documents.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))

		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	result, err := client.ListDocuments(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.True(t, result.HasMore())

	doc := result.Results[0]
	assert.Equal(t, "doc-101", doc.ID)
	assert.Equal(t, "Building a Static Site", doc.Title)
	assert.Equal(t, 3, doc.VersionNumber())
	assert.Equal(t, 2026, doc.CreatedAt.Year())

	assert.Equal(t, "draft", result.Results[1].Status)
}

func TestClient_ListDocuments_WithOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "abc123", q.Get("cursor"))
		assert.Equal(t, "draft", q.Get("status"))
		assert.Equal(t, "-modified-date", q.Get("sort"))
		assert.Equal(t, "static", q.Get("title"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	result, err := client.ListDocuments(context.Background(), &ListDocumentsOptions{
		Limit:  50,
		Cursor: "abc123",
		Status: "draft",
		Sort:   "-modified-date",
		Title:  "static",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.False(t, result.HasMore())
}

func TestClient_ListDocuments_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	_, err := client.ListDocuments(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse documents response")
}

func TestClient_GetDocument(t *testing.T) {
	testData := loadTestData(t, "document.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/doc-101", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	doc, err := client.GetDocument(context.Background(), "doc-101")

	require.NoError(t, err)
	assert.Equal(t, "doc-101", doc.ID)
	assert.Contains(t, doc.Markup, "## Steps")
	assert.Equal(t, []content.Heading{
		{ID: "building-a-static-site", Text: "Building a Static Site", Level: 1},
		{ID: "steps", Text: "Steps", Level: 2},
	}, doc.TOC)
	assert.Equal(t, "/posts/building-a-static-site", doc.Links.WebUI)
}

func TestClient_GetDocument_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Document not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	_, err := client.GetDocument(context.Background(), "missing")

	require.Error(t, err)
	var apiErr *ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestClient_CreateDocument(t *testing.T) {
	testData := loadTestData(t, "document.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		body, _ := io.ReadAll(r.Body)
		var req CreateDocumentRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Building a Static Site", req.Title)
		assert.Equal(t, "published", req.Status)
		assert.Len(t, req.TOC, 1)

		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	doc, err := client.CreateDocument(context.Background(), &CreateDocumentRequest{
		Status: "published",
		Title:  "Building a Static Site",
		Markup: "# Building a Static Site",
		TOC:    []content.Heading{{ID: "building-a-static-site", Text: "Building a Static Site", Level: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "doc-101", doc.ID)
}

func TestClient_UpdateDocument(t *testing.T) {
	testData := loadTestData(t, "document.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/doc-101", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)

		body, _ := io.ReadAll(r.Body)
		var req UpdateDocumentRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "doc-101", req.ID)
		require.NotNil(t, req.Version)
		assert.Equal(t, 4, req.Version.Number)

		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	_, err := client.UpdateDocument(context.Background(), "doc-101", &UpdateDocumentRequest{
		ID:      "doc-101",
		Title:   "Building a Static Site",
		Version: &Version{Number: 4},
	})
	require.NoError(t, err)
}

func TestClient_DeleteDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/doc-101", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	err := client.DeleteDocument(context.Background(), "doc-101")
	require.NoError(t, err)
}

func TestClient_GetDocument_EscapesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/a%2Fb", r.URL.EscapedPath())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "a/b"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	doc, err := client.GetDocument(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", doc.ID)
}

func TestTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		zero    bool
		wantErr bool
	}{
		{"rfc3339", `"2026-03-01T10:00:00Z"`, false, false},
		{"milliseconds", `"2026-03-01T10:00:00.000Z"`, false, false},
		{"null", `null`, true, false},
		{"empty", `""`, true, false},
		{"garbage", `"yesterday"`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			err := ts.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.zero, ts.IsZero())
		})
	}
}
