package webhooks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedEvent indicates the body is not a webhook envelope with a data.status string.
var ErrMalformedEvent = errors.New("malformed webhook event")

const (
	// StatusApproved is the onboarding status that triggers an approval line.
	StatusApproved = "approved"
	// StatusPending is the first status of returns and reversals.
	StatusPending = "pending"
	// StatusCompleted is the terminal success status of returns and reversals.
	StatusCompleted = "completed"
)

const envelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["data"],
  "properties": {
    "event": {"type": ["string", "null"]},
    "data": {
      "type": "object",
      "required": ["status"],
      "properties": {
        "id": {"type": ["string", "null"]},
        "status": {"type": "string", "minLength": 1},
        "amount": {"type": ["integer", "null"]},
        "reason": {"type": ["string", "null"]},
        "returnable_id": {"type": ["string", "null"]},
        "payment_order_id": {"type": ["string", "null"]}
      }
    }
  }
}`

var envelopeValidator = mustSchema(envelopeSchema)

// Event is a webhook delivery. Only the fields the hooks read are decoded.
type Event struct {
	Name string    `json:"event"`
	Data EventData `json:"data"`
}

// EventData holds the status and type-specific fields of an event.
type EventData struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	Reason         string `json:"reason"`
	ReturnableID   string `json:"returnable_id"`
	PaymentOrderID string `json:"payment_order_id"`
}

// Decode validates body against the envelope schema and decodes it.
func Decode(body []byte) (Event, error) {
	if len(body) == 0 {
		return Event{}, fmt.Errorf("%w: empty body", ErrMalformedEvent)
	}

	result, err := envelopeValidator.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return Event{}, fmt.Errorf("%w: %s", ErrMalformedEvent, strings.Join(reasons, "; "))
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return ev, nil
}

func mustSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("webhooks: invalid envelope schema: %v", err))
	}
	return schema
}
