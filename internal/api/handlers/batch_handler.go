package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
)

type BatchHandler struct {
	s   service.BatchService
	now func() time.Time
}

func NewBatchHandler(service service.BatchService) *BatchHandler {
	return &BatchHandler{s: service, now: time.Now}
}

// PublishDue runs today's batch synchronously. Per-post failures still
// answer 200; only run-level faults do not.
func (h *BatchHandler) PublishDue(c *fiber.Ctx) error {
	outcome, err := h.s.Run(c.Context(), h.now())
	if errors.Is(err, service.ErrBatchInProgress) {
		return c.Status(fiber.StatusConflict).JSON(transfer.BatchSummary{
			Message: err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(transfer.BatchSummary{
			Message: fmt.Sprintf("Publishing run failed: %v", err),
		})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.NewBatchSummary(outcome))
}

// PublishNow publishes one of the member's posts immediately. A post the
// platform refused answers 422 with the failure.
func (h *BatchHandler) PublishNow(c *fiber.Ctx) error {
	id, err := postID(c)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	outcome, err := h.s.PublishNow(c.Context(), GetUserURN(c), id)
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrPostAlreadyPublished), errors.Is(err, service.ErrBatchInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Publishing failed: %v", err),
		})
	}

	summary := transfer.NewPublishNowSummary(outcome)
	if !summary.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(summary)
	}
	return c.Status(fiber.StatusOK).JSON(summary)
}
