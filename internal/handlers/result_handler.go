package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/edusync-service/internal/services"
	"github.com/SAP-F-2025/edusync-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// ListResults lists every result
// @Summary List results
// @Tags results
// @Produce json
// @Success 200 {array} models.ResultResponse
// @Router /results [get]
func (h *ResultHandler) ListResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	results, err := h.resultService.List(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ExportResults downloads every result as a spreadsheet
// @Summary Export results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Router /results/export [get]
func (h *ResultHandler) ExportResults(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	// Buffer so a failed export can still answer with a JSON error
	var buf bytes.Buffer
	if err := h.resultService.Export(c.Request.Context(), actor, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("results-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetResult retrieves a result by ID
// @Summary Get result
// @Description Students may only read their own results
// @Tags results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} models.ResultResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.resultService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitResult records the caller's attempt at an assessment
// @Summary Submit result
// @Tags results
// @Accept json
// @Produce json
// @Param result body services.CreateResultRequest true "Result data"
// @Success 201 {object} models.ResultResponse
// @Failure 400 {object} ErrorResponse
// @Router /results [post]
func (h *ResultHandler) SubmitResult(c *gin.Context) {
	var req services.CreateResultRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	result, err := h.resultService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Result submitted", "result_id", result.ID, "assessment_id", req.AssessmentID)
	c.JSON(http.StatusCreated, result)
}

// UpdateResult corrects the score or attempt date of a result
// @Summary Update result
// @Tags results
// @Accept json
// @Param id path string true "Result ID"
// @Param result body services.UpdateResultRequest true "Result data"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [put]
func (h *ResultHandler) UpdateResult(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateResultRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.resultService.Update(c.Request.Context(), actor, id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteResult deletes a result
// @Summary Delete result
// @Tags results
// @Param id path string true "Result ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [delete]
func (h *ResultHandler) DeleteResult(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.resultService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
