package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/payout_demo/internal/payouts"
)

// RegisterPayoutRoutes wires the payout pages and form posts. idempotency may be nil.
func RegisterPayoutRoutes(r fiber.Router, h *payouts.Handler, idempotency fiber.Handler) {
	r.Get("/payout", h.PayoutPage)
	r.Get("/payout-with-ledger", h.PayoutWithLedgerPage)
	if idempotency != nil {
		r.Post("/pay", idempotency, h.Pay)
		r.Post("/pay-with-ledger", idempotency, h.PayWithLedger)
	} else {
		r.Post("/pay", h.Pay)
		r.Post("/pay-with-ledger", h.PayWithLedger)
	}
}
