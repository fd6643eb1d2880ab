package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printgate/printgate/internal/service"
	"github.com/printgate/printgate/pkg/response"
)

// SessionHandler issues anonymous owner sessions.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Start an anonymous owner session
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	res, err := h.service.Issue()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
