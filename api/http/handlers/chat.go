package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/curriculumgen/api/http/presenter"
	"github.com/artem13815/curriculumgen/pkg/chat"
	"github.com/artem13815/curriculumgen/pkg/security/session"
)

// User-facing messages. Business failures are always reported with status 200.
const (
	msgEmptyInput      = "Input cannot be empty."
	msgNetwork         = "Network error. Please check your connection."
	msgNoFilePart      = "No file part in the request."
	msgNoFileSelected  = "No file selected."
	msgInvalidFileType = "Invalid file type. Only PDF and DOCX are allowed."
	msgInvalidJSON     = "Error: invalid JSON payload"
)

type ChatHandler struct {
	uc chat.UseCase
}

func NewChatHandler(uc chat.UseCase) *ChatHandler { return &ChatHandler{uc: uc} }

type chatRequest struct {
	UserInput string `json:"user_input"`
}

// Chat sends one message of the current session to the model.
// @Summary     Chat turn
// @Description Sends user text with the session history to the model. A table is attached when the message asks for a timetable or table form, or the reply mentions tabular data.
// @Tags        chat
// @Accept      json
// @Produce     json
// @Param       input body chatRequest true "User message"
// @Success     200 {object} presenter.ChatResponse
// @Router      /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Message(c, msgInvalidJSON)
	}
	reply, err := h.uc.Chat(c.Context(), session.ID(c), req.UserInput)
	if err != nil {
		return presenter.Message(c, chatMessage(err))
	}
	return presenter.JSON(c, fiber.StatusOK, presenter.ChatResponse{Response: reply.Text, Table: reply.Table})
}

// Upload sends the text of a PDF or DOCX document to the model.
// @Summary     File turn
// @Description Extracts text from the uploaded PDF/DOCX and sends it with the session history to the model.
// @Tags        chat
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Document (PDF or DOCX)"
// @Success     200 {object} presenter.ChatResponse
// @Router      /upload [post]
func (h *ChatHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return presenter.Message(c, msgNoFilePart)
	}
	files := form.File["file"]
	if len(files) == 0 {
		// A file input submitted without a selection arrives as a plain value.
		if _, ok := form.Value["file"]; ok {
			return presenter.Message(c, msgNoFileSelected)
		}
		return presenter.Message(c, msgNoFilePart)
	}
	fh := files[0]
	if fh.Filename == "" {
		return presenter.Message(c, msgNoFileSelected)
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Message(c, fmt.Sprintf("Error processing file: %v", err))
	}
	defer file.Close()

	reply, err := h.uc.ChatDocument(c.Context(), session.ID(c), chat.Upload{Filename: fh.Filename, Body: file})
	if err != nil {
		return presenter.Message(c, uploadMessage(err))
	}
	return presenter.Message(c, reply.Text)
}

func chatMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return msgEmptyInput
	case errors.Is(err, chat.ErrNetworkUnavailable):
		return msgNetwork
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrMissingFile):
		return msgNoFileSelected
	case errors.Is(err, chat.ErrUnsupportedFileType):
		return msgInvalidFileType
	case errors.Is(err, chat.ErrNetworkUnavailable):
		return msgNetwork
	default:
		return fmt.Sprintf("Error processing file: %v", err)
	}
}
