package http

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/curriculumgen/api/http/handlers"
	"github.com/artem13815/curriculumgen/api/http/presenter"
)

// Register wires all HTTP routes onto given Fiber app. sessionMW resolves
// the conversation a request belongs to.
func Register(app *fiber.App, chat *handlers.ChatHandler, health *handlers.HealthHandler, sess *handlers.SessionHandler, sessionMW fiber.Handler) {
	app.Get("/", sessionMW, handlers.Index)
	app.Post("/chat", sessionMW, chat.Chat)
	app.Post("/upload", sessionMW, chat.Upload)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	v1.Get("/session", sessionMW, sess.Get)
}

// ErrorHandler keeps transport-level failures in the chat payload shape so
// the UI can always display a message. An oversized body is a business
// failure of the chat or upload call and is answered with 200.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusRequestEntityTooLarge {
		if c.Path() == "/upload" {
			return presenter.Message(c, "Error processing file: file too large")
		}
		return presenter.Message(c, "Error: request body too large")
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return presenter.JSON(c, code, presenter.ChatResponse{Response: fmt.Sprintf("Error: %v", err)})
}
