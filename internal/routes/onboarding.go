package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/onboarding"
)

// RegisterOnboardingRoutes wires the onboarding form post.
func RegisterOnboardingRoutes(r fiber.Router, h *onboarding.Handler) {
	r.Post("/onboard", h.Onboard)
}
