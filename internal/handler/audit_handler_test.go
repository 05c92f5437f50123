package handler

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

type stubAuditReader struct {
	logs      []domain.AuditLog
	gotLimit  int
	gotAction string
}

func (s *stubAuditReader) ListAuditLogs(_ context.Context, limit int, action string) ([]domain.AuditLog, error) {
	s.gotLimit = limit
	s.gotAction = action
	return s.logs, nil
}

func TestAuditListPassesFilters(t *testing.T) {
	reader := &stubAuditReader{}
	app := fiber.New()
	NewAuditHandler(reader).Register(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/audit/logs?limit=5&action=http_request", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, reader.gotLimit)
	assert.Equal(t, "http_request", reader.gotAction)
}

func TestAuditListDefaultLimit(t *testing.T) {
	reader := &stubAuditReader{}
	app := fiber.New()
	NewAuditHandler(reader).Register(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/audit/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, reader.gotLimit)
	assert.Empty(t, reader.gotAction)
}
