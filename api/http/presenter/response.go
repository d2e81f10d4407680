package presenter

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/curriculumgen/pkg/table"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// ChatResponse is the payload of every chat and upload call, including failures.
type ChatResponse struct {
	Response string       `json:"response"`
	Table    *table.Table `json:"table,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

// Message renders a plain chat response with status 200.
func Message(c *fiber.Ctx, text string) error {
	return JSON(c, fiber.StatusOK, ChatResponse{Response: text})
}
