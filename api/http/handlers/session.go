package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/curriculumgen/api/http/presenter"
	"github.com/artem13815/curriculumgen/pkg/conversation"
	"github.com/artem13815/curriculumgen/pkg/security/session"
)

type SessionHandler struct {
	store conversation.Store
}

func NewSessionHandler(store conversation.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Turns     int    `json:"turns"`
}

// Get reports the caller's session id and how many turns it holds.
// @Summary Current session
// @Tags    session
// @Produce json
// @Success 200 {object} sessionResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /api/v1/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	id := session.ID(c)
	n, err := h.store.Len(c.Context(), id)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, err.Error())
	}
	return presenter.JSON(c, http.StatusOK, sessionResponse{SessionID: id, Turns: n})
}
