package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SignatureHeader carries the hex HMAC-SHA256 of a webhook body.
const SignatureHeader = "X-Signature"

// WebhookSignature rejects webhook deliveries whose body was not signed with
// secret. An empty secret disables the check.
func WebhookSignature(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			return c.Next()
		}

		got, err := hex.DecodeString(strings.TrimSpace(c.Get(SignatureHeader)))
		if err != nil || len(got) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or malformed webhook signature")
		}
		if !hmac.Equal(got, Sign(key, c.Body())) {
			return fiber.NewError(fiber.StatusUnauthorized, "webhook signature mismatch")
		}
		return c.Next()
	}
}

// Sign returns the HMAC-SHA256 of body under key.
func Sign(key, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return mac.Sum(nil)
}
