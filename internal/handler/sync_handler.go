package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/React-ChatBotify/rag-api-sub000/internal/domain"
)

// CorpusSyncer runs one Git corpus sync pass.
type CorpusSyncer interface {
	Run(ctx context.Context, progress func(done, total int)) (domain.SyncReport, error)
}

// SyncHandler triggers corpus sync runs and tracks them as jobs.
type SyncHandler struct {
	syncer  CorpusSyncer
	tracker *JobTracker
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncer CorpusSyncer, tracker *JobTracker) *SyncHandler {
	return &SyncHandler{syncer: syncer, tracker: tracker}
}

// Register sets up sync routes.
func (h *SyncHandler) Register(router fiber.Router) {
	router.Post("/sync", h.Trigger)
}

// Trigger starts a sync run in the background and returns its job id.
func (h *SyncHandler) Trigger(c fiber.Ctx) error {
	jobID := h.Start()
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// Start launches a sync run asynchronously, returning the job id. It is also
// used by the periodic sync loop.
func (h *SyncHandler) Start() string {
	jobID := uuid.NewString()
	h.tracker.CreateJob(jobID)

	go func() {
		report, err := h.syncer.Run(context.Background(), func(done, total int) {
			h.tracker.UpdateProgress(jobID, done, total)
		})
		if err != nil {
			slog.Error("sync run failed", "job_id", jobID, "error", err)
			h.tracker.Fail(jobID, err)
			return
		}
		h.tracker.Complete(jobID, report)
	}()

	return jobID
}
