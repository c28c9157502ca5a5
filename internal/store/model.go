package store

import "time"

const (
	// KindWebhook marks a received webhook event.
	KindWebhook = "webhook"
	// KindPaymentOrder marks a payment order created through /pay or /pay-with-ledger.
	KindPaymentOrder = "payment_order"
	// KindOnboarding marks the outcome of a background onboarding submission.
	KindOnboarding = "onboarding"
)

// Activity is one entry in the service's activity trail.
type Activity struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
