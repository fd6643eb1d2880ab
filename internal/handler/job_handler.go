package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printgate/printgate/internal/dto"
	"github.com/printgate/printgate/internal/middleware"
	"github.com/printgate/printgate/internal/service"
	appErrors "github.com/printgate/printgate/pkg/errors"
	"github.com/printgate/printgate/pkg/response"
)

// JobHandler wires the owner dashboard endpoints to the job service.
type JobHandler struct {
	service *service.JobService
}

// NewJobHandler creates a new handler.
func NewJobHandler(svc *service.JobService) *JobHandler {
	return &JobHandler{service: svc}
}

// Create godoc
// @Summary Create a print job
// @Description Upload a document and receive the one-time secret and print link
// @Tags Jobs
// @Accept multipart/form-data
// @Produce json
// @Param copies formData int true "Copy count"
// @Param color_mode formData string true "COLOR or MONOCHROME"
// @Param paper_size formData string true "A4, A5, LETTER or LEGAL"
// @Param orientation formData string true "PORTRAIT or LANDSCAPE"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	ownerKey, ok := middleware.OwnerKey(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid job payload"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	created, err := h.service.Create(c.Request.Context(), ownerKey, req, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// List godoc
// @Summary List own print jobs
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	ownerKey, ok := middleware.OwnerKey(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	views, err := h.service.ListByOwner(c.Request.Context(), ownerKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// Purge godoc
// @Summary Delete own finished jobs and their documents
// @Tags Jobs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /jobs [delete]
func (h *JobHandler) Purge(c *gin.Context) {
	ownerKey, ok := middleware.OwnerKey(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	deleted, err := h.service.Purge(c.Request.Context(), ownerKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.PurgeResponse{Deleted: deleted}, nil)
}

// Receipt godoc
// @Summary Download a PDF authorization receipt for a job
// @Tags Jobs
// @Produce application/pdf
// @Param id path string true "Job ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /jobs/{id}/receipt [get]
func (h *JobHandler) Receipt(c *gin.Context) {
	ownerKey, ok := middleware.OwnerKey(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, err := h.service.Receipt(c.Request.Context(), ownerKey, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Export godoc
// @Summary Export own job list as CSV
// @Tags Jobs
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/jobs [get]
func (h *JobHandler) Export(c *gin.Context) {
	ownerKey, ok := middleware.OwnerKey(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, err := h.service.ExportCSV(c.Request.Context(), ownerKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=jobs.csv")
	c.Data(http.StatusOK, "text/csv", data)
}
