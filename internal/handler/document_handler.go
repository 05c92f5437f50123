package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// DocumentLifecycle is the corpus management surface consumed by the
// document endpoints.
type DocumentLifecycle interface {
	Create(ctx context.Context, documentID, content string) error
	Update(ctx context.Context, documentID, content string) error
	Delete(ctx context.Context, documentID string) error
	GetContent(ctx context.Context, documentID string) (string, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// DocumentHandler handles document CRUD endpoints.
type DocumentHandler struct {
	documents DocumentLifecycle
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(documents DocumentLifecycle) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Register sets up document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	docs := router.Group("/documents")
	docs.Post("/", h.Create)
	docs.Get("/", h.List)
	docs.Get("/:id", h.Get)
	docs.Put("/:id", h.Update)
	docs.Delete("/:id", h.Delete)
}

// Create adds a new document to the corpus (overwriting an existing id).
func (h *DocumentHandler) Create(c fiber.Ctx) error {
	var body struct {
		DocumentID string `json:"document_id"`
		Content    string `json:"content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.documents.Create(c.Context(), body.DocumentID, body.Content); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"document_id": body.DocumentID})
}

// List returns all document ids.
func (h *DocumentHandler) List(c fiber.Ctx) error {
	ids, err := h.documents.ListIDs(c.Context())
	if err != nil {
		return fail(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"document_ids": ids})
}

// Get returns a document's full content.
func (h *DocumentHandler) Get(c fiber.Ctx) error {
	id := c.Params("id")
	content, err := h.documents.GetContent(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"document_id": id, "content": content})
}

// Update replaces a document's content and re-indexes its chunks.
func (h *DocumentHandler) Update(c fiber.Ctx) error {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id := c.Params("id")
	if err := h.documents.Update(c.Context(), id, body.Content); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"document_id": id})
}

// Delete removes a document. Deleting an absent document succeeds.
func (h *DocumentHandler) Delete(c fiber.Ctx) error {
	if err := h.documents.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
