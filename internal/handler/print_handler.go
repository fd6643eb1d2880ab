package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/printgate/printgate/internal/dto"
	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/internal/service"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/response"
)

// PrintHandler serves the printing party: job lookup by capability token,
// secret verification, and the disclosure render.
type PrintHandler struct {
	jobs   *service.JobService
	verify *service.VerifyService
	render *service.RenderService
}

// NewPrintHandler creates a new handler.
func NewPrintHandler(jobs *service.JobService, verify *service.VerifyService, render *service.RenderService) *PrintHandler {
	return &PrintHandler{jobs: jobs, verify: verify, render: render}
}

// GetByToken godoc
// @Summary Resolve a capability token into the public job view
// @Tags Print
// @Produce json
// @Param token path string true "Capability token"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /print/{token} [get]
func (h *PrintHandler) GetByToken(c *gin.Context) {
	view, err := h.jobs.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Verify godoc
// @Summary Attempt to unlock a job with its one-time secret
// @Description Returns a tagged result; the outcome kind and exact remaining
// attempts are in the body, not the HTTP status.
// @Tags Print
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param payload body dto.VerifyRequest true "Secret"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /jobs/{id}/verify [post]
func (h *PrintHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid verify payload"))
		return
	}

	result, err := h.verify.Verify(c.Request.Context(), c.Param("id"), req.Secret)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Success {
		response.JSON(c, http.StatusOK, dto.VerifyResponse{
			Success: true,
			FileKey: result.FileKey,
			Params:  &result.Params,
		}, nil)
		return
	}

	res := dto.VerifyResponse{Success: false}
	if result.Err != nil {
		res.ErrorKind = result.Err.Code
		// The orchestrator must display the exact remaining count; it is
		// attached only where the count is meaningful.
		if appErrors.Is(result.Err, appErrors.ErrInvalidSecret) || appErrors.Is(result.Err, appErrors.ErrLocked) {
			remaining := result.AttemptsRemaining
			res.AttemptsRemaining = &remaining
		}
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Render godoc
// @Summary Produce the one-shot printable document for a verified job
// @Tags Print
// @Accept json
// @Produce json
// @Param id path string true "Job ID"
// @Param payload body dto.RenderRequest true "Verified locator and parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /jobs/{id}/render [post]
func (h *PrintHandler) Render(c *gin.Context) {
	var req dto.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid render payload"))
		return
	}

	params := models.PrintParams{
		Copies:      req.Copies,
		ColorMode:   models.ColorMode(strings.ToUpper(req.ColorMode)),
		PaperSize:   models.PaperSize(strings.ToUpper(req.PaperSize)),
		Orientation: models.Orientation(strings.ToUpper(req.Orientation)),
	}
	html, err := h.render.Render(c.Request.Context(), c.Param("id"), req.FileKey, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.RenderResponse{HTML: html}, nil)
}
