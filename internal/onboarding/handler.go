package onboarding

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/form"
)

// Handler accepts onboarding forms and hands them to the dispatcher.
type Handler struct {
	dispatcher *Dispatcher
	flowAlias  string
	logger     *slog.Logger
}

// NewHandler constructs an onboarding handler.
func NewHandler(dispatcher *Dispatcher, flowAlias string, logger *slog.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, flowAlias: flowAlias, logger: logger}
}

// Onboard queues the submission and echoes the form without waiting for the platform.
func (h *Handler) Onboard(c *fiber.Ctx) error {
	var f Form
	if err := c.BodyParser(&f); err != nil {
		return fiber.NewError(http.StatusBadRequest, form.ErrMalformedBody.Error())
	}
	if err := f.Validate(); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	jobID, err := h.dispatcher.Enqueue(f.Request(h.flowAlias))
	if err != nil {
		if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrClosed) {
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if h.logger != nil {
		h.logger.Info("onboarding queued", slog.String("job_id", jobID), slog.String("flow_alias", h.flowAlias))
	}
	return form.Echo(c)
}
