package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
	"github.com/React-ChatBotify/rag-api-sub000/internal/service"
)

// RAGEngine is the query surface consumed by the query endpoint.
type RAGEngine interface {
	Query(ctx context.Context, req service.QueryRequest) (*service.QueryResult, error)
	QueryStream(ctx context.Context, req service.QueryRequest) (<-chan domain.StreamChunk, string, error)
}

// QueryHandler handles RAG query endpoints, batched and streaming.
type QueryHandler struct {
	engine        RAGEngine
	defaultWindow int
}

// NewQueryHandler creates a new query handler. defaultWindow is applied when
// a request does not set window_size.
func NewQueryHandler(engine RAGEngine, defaultWindow int) *QueryHandler {
	return &QueryHandler{engine: engine, defaultWindow: defaultWindow}
}

// Register sets up query routes.
func (h *QueryHandler) Register(router fiber.Router) {
	router.Post("/query", h.Query)
}

type queryBody struct {
	Query      string               `json:"query"`
	History    []domain.ChatMessage `json:"history"`
	RAGType    string               `json:"rag_type"`
	TopK       int                  `json:"top_k"`
	WindowSize *int                 `json:"window_size"`
	Stream     bool                 `json:"stream"`
}

// Query performs a RAG query, batched by default or as an SSE token stream
// when the request sets stream.
func (h *QueryHandler) Query(c fiber.Ctx) error {
	var body queryBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	windowSize := h.defaultWindow
	if body.WindowSize != nil {
		windowSize = *body.WindowSize
	}

	req := service.QueryRequest{
		Query:      body.Query,
		History:    body.History,
		RAGType:    body.RAGType,
		TopK:       body.TopK,
		WindowSize: windowSize,
	}

	if body.Stream {
		return h.stream(c, req)
	}

	result, err := h.engine.Query(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// stream relays upstream tokens as SSE data frames. Each token is delivered
// before the next one is requested; no full-response buffering. Failures
// after the first frame are reported as a final error event because the
// stream framing is already committed.
func (h *QueryHandler) stream(c fiber.Ctx, req service.QueryRequest) error {
	stream, _, err := h.engine.QueryStream(c.Context(), req)
	if err != nil {
		return fail(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		for chunk := range stream {
			if chunk.Err != nil {
				payload, _ := json.Marshal(fiber.Map{"error": chunk.Err.Error()})
				fmt.Fprintf(w, "event: error\ndata: %s\n\n", payload)
				w.Flush()
				return
			}

			payload, _ := json.Marshal(fiber.Map{"token": chunk.Content})
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				// Caller disconnected; stop relaying.
				slog.Debug("query stream client gone", "error", err)
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}

		fmt.Fprint(w, "event: done\ndata: {}\n\n")
		w.Flush()
	})
}
