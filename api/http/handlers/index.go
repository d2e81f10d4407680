package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/curriculumgen/web"
)

// Index serves the chat UI.
func Index(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(web.Index)
}
