// Package form reads submitted forms back so handlers can echo them.
package form

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// Values returns the submitted fields. JSON bodies are decoded as an object;
// anything else is read as url-encoded form arguments.
func Values(c *fiber.Ctx) (map[string]any, error) {
	out := make(map[string]any)
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		if len(c.Body()) == 0 {
			return out, nil
		}
		if err := json.Unmarshal(c.Body(), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		out[string(k)] = string(v)
	})
	return out, nil
}

// Echo answers 200 with the submitted fields as a JSON object.
func Echo(c *fiber.Ctx) error {
	values, err := Values(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(values)
}

// Text is a submitted field that accepts a JSON string, number or boolean as
// well as a url-encoded value, keeping the raw text.
type Text string

// String returns the submitted text.
func (t Text) String() string { return string(t) }

// UnmarshalJSON stores strings unquoted and numbers or booleans verbatim.
func (t *Text) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*t = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrNotScalar
		}
		*t = Text(s)
	case raw == "true" || raw == "false":
		*t = Text(raw)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return ErrNotScalar
		}
		*t = Text(n.String())
	}
	return nil
}

// UnmarshalText is used for url-encoded form values.
func (t *Text) UnmarshalText(b []byte) error {
	*t = Text(b)
	return nil
}

// ErrNotScalar rejects objects and arrays where a single field value is expected.
var ErrNotScalar = errors.New("must be a string or a number")

// ErrMalformedBody is answered instead of decoder internals when a body cannot be parsed.
var ErrMalformedBody = errors.New("request body must be a url-encoded form or a JSON object of strings and numbers")
