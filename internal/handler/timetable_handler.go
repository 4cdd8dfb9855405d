package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableService interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.TimetableResponse, error)
	List(ctx context.Context, branchID string) ([]dto.TimetableSummary, bool, error)
	Get(ctx context.Context, id string) (*dto.TimetableResponse, bool, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, id, format string) (*dto.TimetableExport, error)
}

// TimetableHandler exposes timetable generation endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable for a branch
// @Description Runs the multi-start optimizer against the branch catalogue and stores the best attempt as a new version.
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /api/v1/timetables/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result, internalmiddleware.ResponseMeta(c, nil))
}

// List godoc
// @Summary List stored timetable versions for a branch
// @Tags Timetables
// @Produce json
// @Param branchId query string true "Branch ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	branchID := c.Query("branchId")
	if branchID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "branchId is required"))
		return
	}
	items, hit, err := h.service.List(c.Request.Context(), branchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, items, internalmiddleware.ResponseMeta(c, map[string]interface{}{"total": len(items)}))
}

// Get godoc
// @Summary Get a stored timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/v1/timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	result, hit, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, result, internalmiddleware.ResponseMeta(c, nil))
}

// Delete godoc
// @Summary Delete a stored timetable
// @Tags Timetables
// @Param id path string true "Timetable run ID"
// @Success 204
// @Router /api/v1/timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export a stored timetable
// @Tags Timetables
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Timetable run ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 409 {object} response.Envelope
// @Router /api/v1/timetables/{id}/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
