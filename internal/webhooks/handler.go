package webhooks

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the webhook endpoints.
type Handler struct {
	receiver *Receiver
}

// NewHandler constructs a webhook handler.
func NewHandler(receiver *Receiver) *Handler {
	return &Handler{receiver: receiver}
}

// Onboarding handles onboarding review callbacks.
func (h *Handler) Onboarding(c *fiber.Ctx) error { return h.receive(c, TopicOnboarding) }

// Return handles payment return callbacks.
func (h *Handler) Return(c *fiber.Ctx) error { return h.receive(c, TopicReturn) }

// Reversal handles payment reversal callbacks.
func (h *Handler) Reversal(c *fiber.Ctx) error { return h.receive(c, TopicReversal) }

// receive acknowledges every well formed event with an empty 200.
func (h *Handler) receive(c *fiber.Ctx, topic string) error {
	// fasthttp reuses the body buffer after the handler returns.
	raw := append([]byte(nil), c.Body()...)

	ev, err := Decode(raw)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.receiver.Receive(c.UserContext(), topic, ev, raw); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	c.Status(http.StatusOK)
	return nil
}
