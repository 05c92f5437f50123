package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/React-ChatBotify/rag-api-sub000/internal/port"
)

// stubLifecycle implements DocumentLifecycle in memory.
type stubLifecycle struct {
	contents  map[string]string
	createErr error
}

func newStubLifecycle() *stubLifecycle {
	return &stubLifecycle{contents: make(map[string]string)}
}

func (s *stubLifecycle) Create(_ context.Context, documentID, content string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.contents[documentID] = content
	return nil
}

func (s *stubLifecycle) Update(ctx context.Context, documentID, content string) error {
	return s.Create(ctx, documentID, content)
}

func (s *stubLifecycle) Delete(_ context.Context, documentID string) error {
	delete(s.contents, documentID)
	return nil
}

func (s *stubLifecycle) GetContent(_ context.Context, documentID string) (string, error) {
	content, ok := s.contents[documentID]
	if !ok {
		return "", fmt.Errorf("%w: %s", port.ErrNotFound, documentID)
	}
	return content, nil
}

func (s *stubLifecycle) ListIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.contents))
	for id := range s.contents {
		ids = append(ids, id)
	}
	return ids, nil
}

func newDocumentApp(lifecycle DocumentLifecycle) *fiber.App {
	app := fiber.New()
	NewDocumentHandler(lifecycle).Register(app)
	return app
}

func TestDocumentCreateAndGet(t *testing.T) {
	lifecycle := newStubLifecycle()
	app := newDocumentApp(lifecycle)

	status, _ := postJSON(t, app, "/documents/", fiber.Map{"document_id": "doc-1", "content": "# Hello"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "# Hello", lifecycle.contents["doc-1"])

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/doc-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var got struct {
		DocumentID string `json:"document_id"`
		Content    string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, "# Hello", got.Content)
}

func TestDocumentGetMissingIs404(t *testing.T) {
	app := newDocumentApp(newStubLifecycle())

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDocumentCreateValidationErrorIs400(t *testing.T) {
	lifecycle := newStubLifecycle()
	lifecycle.createErr = fmt.Errorf("%w: missing document id", port.ErrValidation)
	app := newDocumentApp(lifecycle)

	status, _ := postJSON(t, app, "/documents/", fiber.Map{"content": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestDocumentCreateStoreNotReadyIs503(t *testing.T) {
	lifecycle := newStubLifecycle()
	lifecycle.createErr = port.ErrStoreNotReady
	app := newDocumentApp(lifecycle)

	status, _ := postJSON(t, app, "/documents/", fiber.Map{"document_id": "doc", "content": "x"})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestDocumentDeleteIsIdempotent(t *testing.T) {
	app := newDocumentApp(newStubLifecycle())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/documents/never-existed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestDocumentListEmptyCorpus(t *testing.T) {
	app := newDocumentApp(newStubLifecycle())

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"document_ids": []}`, string(body))
}
