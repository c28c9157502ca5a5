package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/webhooks"
)

// RegisterWebhookRoutes wires the platform callbacks behind the signature check.
func RegisterWebhookRoutes(r fiber.Router, h *webhooks.Handler, signature fiber.Handler) {
	r.Post("/onboarding-hook", signature, h.Onboarding)
	r.Post("/return-hook", signature, h.Return)
	r.Post("/reversal-hook", signature, h.Reversal)
}
