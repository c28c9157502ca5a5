package routes

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterPageRoutes serves the static pages.
func RegisterPageRoutes(r fiber.Router) {
	r.Get("/", page("index", "Home"))
	r.Get("/onboarding", page("onboarding", "Onboarding"))
}

func page(view, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(view, fiber.Map{"Title": title})
	}
}
